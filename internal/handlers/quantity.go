// internal/handlers/quantity.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wareflow/wareflow-backend/internal/services"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type QuantityHandler struct {
	quantityService *services.QuantityService
}

func NewQuantityHandler(quantityService *services.QuantityService) *QuantityHandler {
	return &QuantityHandler{quantityService: quantityService}
}

// GET /quantity/warehouse/:id
func (h *QuantityHandler) WarehouseStock(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid warehouse ID")
		return
	}

	params := utils.GetPaginationParams(c)
	quantities, total, err := h.quantityService.WarehouseStock(warehouseID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(quantities, total, params))
}

// GET /quantity/product/:id
func (h *QuantityHandler) ProductStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	quantities, err := h.quantityService.ProductStock(productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"quantities": quantities})
}

// PATCH /quantity/limit
func (h *QuantityHandler) UpdateReorderLimit(c *gin.Context) {
	var req struct {
		WarehouseID  uuid.UUID `json:"warehouse_id" binding:"required"`
		ProductID    uuid.UUID `json:"product_id" binding:"required"`
		ReorderLimit int64     `json:"reorder_limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	quantity, err := h.quantityService.UpdateReorderLimit(req.WarehouseID, req.ProductID, req.ReorderLimit)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"quantity": quantity})
}

// GET /quantity/low-stock
func (h *QuantityHandler) LowStock(c *gin.Context) {
	var warehouseID *uuid.UUID
	if idStr := c.Query("warehouse_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid warehouse ID")
			return
		}
		warehouseID = &id
	}

	quantities, err := h.quantityService.LowStock(warehouseID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"quantities": quantities})
}
