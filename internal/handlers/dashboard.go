// internal/handlers/dashboard.go
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wareflow/wareflow-backend/internal/services"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	userService      *services.UserService
	authService      *services.AuthService
}

func NewDashboardHandler(dashboardService *services.DashboardService, userService *services.UserService, authService *services.AuthService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		userService:      userService,
		authService:      authService,
	}
}

// GET /user/admin/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"summary": summary})
}

// GET /user/admin/dashboard/warehouses
func (h *DashboardHandler) StockPerWarehouse(c *gin.Context) {
	rows, err := h.dashboardService.StockPerWarehouse()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"warehouses": rows})
}

// GET /user/admin/dashboard/volumes
func (h *DashboardHandler) TransactionVolumes(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			from = parsed
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			to = parsed
		}
	}

	rows, err := h.dashboardService.TransactionVolumes(from, to)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"volumes": rows})
}

// GET /user/admin/managers
func (h *DashboardHandler) ListManagers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	managers, total, err := h.userService.ListManagers(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(managers, total, params))
}

// POST /user/admin/managers
func (h *DashboardHandler) InviteManager(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.ErrorResponse(c, 409, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"user": user})
}

// POST /user/admin/managers/:id/activate
func (h *DashboardHandler) ActivateManager(c *gin.Context) {
	h.setManagerActive(c, true)
}

// POST /user/admin/managers/:id/deactivate
func (h *DashboardHandler) DeactivateManager(c *gin.Context) {
	h.setManagerActive(c, false)
}

func (h *DashboardHandler) setManagerActive(c *gin.Context, active bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	if err := h.userService.SetActive(id, active); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Account updated"})
}

// DELETE /user/admin/managers/:id
func (h *DashboardHandler) DeleteManager(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(id); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Account deleted"})
}
