// internal/handlers/profile.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/wareflow/wareflow-backend/internal/middleware"
	"github.com/wareflow/wareflow-backend/internal/services"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type ProfileHandler struct {
	userService    *services.UserService
	storageService *services.StorageService
}

func NewProfileHandler(userService *services.UserService, storageService *services.StorageService) *ProfileHandler {
	return &ProfileHandler{
		userService:    userService,
		storageService: storageService,
	}
}

// GET /profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.userService.Get(userID)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// PATCH /profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// POST /profile/password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(userID, &req); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, "Current password is incorrect")
			return
		}
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Password updated"})
}

// POST /profile/image
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required")
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	options := h.storageService.GetDefaultUploadOptions("avatars")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(userID, &services.UpdateProfileRequest{
		ImageURL: &result.URL,
	})
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":   user,
		"upload": result,
	})
}
