// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

// AuthRequired resolves the bearer token, loads the user and rejects
// soft-deleted or deactivated accounts before any handler runs.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header")
			return
		}

		claims, err := utils.ValidateAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Invalid token subject")
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			abortUnauthorized(c, "User not found")
			return
		}

		if user.Deleted || !user.Active {
			abortUnauthorized(c, "Account is deactivated")
			return
		}

		c.Set(ContextUserKey, &user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok || user.Role != models.UserRoleAdmin {
			c.JSON(http.StatusForbidden, utils.APIResponse{
				Success: false,
				Message: "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, utils.APIResponse{
		Success: false,
		Message: message,
	})
	c.Abort()
}
