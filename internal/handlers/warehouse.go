// internal/handlers/warehouse.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wareflow/wareflow-backend/internal/middleware"
	"github.com/wareflow/wareflow-backend/internal/services"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type WarehouseHandler struct {
	warehouseService *services.WarehouseService
}

func NewWarehouseHandler(warehouseService *services.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// GET /warehouse
func (h *WarehouseHandler) List(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	warehouses, total, err := h.warehouseService.List(user, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(warehouses, total, params))
}

// POST /warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req services.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	warehouse, err := h.warehouseService.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrAddressTaken) {
			utils.ErrorResponse(c, 409, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"warehouse": warehouse})
}

// GET /warehouse/:id
func (h *WarehouseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.Get(id)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"warehouse": warehouse})
}

// PATCH /warehouse/:id
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warehouse ID")
		return
	}

	var req services.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	warehouse, err := h.warehouseService.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrAddressTaken) {
			utils.ErrorResponse(c, 409, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"warehouse": warehouse})
}

// DELETE /warehouse/:id
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warehouse ID")
		return
	}

	if err := h.warehouseService.Deactivate(id); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Warehouse deactivated"})
}

// POST /warehouse/:id/activate
func (h *WarehouseHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warehouse ID")
		return
	}

	if err := h.warehouseService.Activate(id); err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Warehouse activated"})
}

// POST /warehouse/:id/managers
func (h *WarehouseHandler) AssignManager(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warehouse ID")
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "User ID is required")
		return
	}

	if err := h.warehouseService.AssignManager(id, req.UserID); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Manager assigned"})
}

// DELETE /warehouse/:id/managers/:userId
func (h *WarehouseHandler) RemoveManager(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warehouse ID")
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	if err := h.warehouseService.RemoveManager(id, userID); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Manager removed"})
}
