// internal/handlers/transaction.go
package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wareflow/wareflow-backend/internal/middleware"
	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/reports"
	"github.com/wareflow/wareflow-backend/internal/services"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type TransactionHandler struct {
	stockService *services.StockService
}

func NewTransactionHandler(stockService *services.StockService) *TransactionHandler {
	return &TransactionHandler{stockService: stockService}
}

// POST /transaction/in
func (h *TransactionHandler) StockIn(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.StockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	transactions, err := h.stockService.StockIn(userID, &req)
	if err != nil {
		respondStockError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"transactions": transactions})
}

// POST /transaction/out
func (h *TransactionHandler) StockOut(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.StockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	transactions, err := h.stockService.StockOut(userID, &req)
	if err != nil {
		respondStockError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"transactions": transactions})
}

// POST /transaction/transfer
func (h *TransactionHandler) Transfer(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	transactions, err := h.stockService.Transfer(userID, &req)
	if err != nil {
		respondStockError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"transactions": transactions})
}

// POST /transaction/adjust
func (h *TransactionHandler) Adjust(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	transaction, err := h.stockService.Adjust(userID, &req)
	if err != nil {
		respondStockError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"transaction": transaction})
}

// GET /transaction
func (h *TransactionHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := services.TransactionFilter{PaginationParams: params}

	if typeStr := c.Query("type"); typeStr != "" {
		txType := models.TransactionType(typeStr)
		filter.Type = &txType
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.ShipmentStatus(statusStr)
		filter.Status = &status
	}
	if idStr := c.Query("warehouse_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			filter.WarehouseID = &id
		}
	}
	if idStr := c.Query("product_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			filter.ProductID = &id
		}
	}
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.From = &from
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.To = &to
		}
	}

	transactions, total, err := h.stockService.ListTransactions(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(transactions, total, params))
}

// GET /transaction/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.stockService.GetTransaction(id)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"transaction": transaction})
}

// PATCH /transaction/:id/shipment
func (h *TransactionHandler) UpdateShipment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	var req struct {
		Status models.ShipmentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Status is required")
		return
	}

	transaction, err := h.stockService.UpdateShipmentStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidShipmentMove) {
			utils.ErrorResponse(c, 409, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"transaction": transaction})
}

// GET /transaction/:id/invoice
func (h *TransactionHandler) Invoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.stockService.GetTransaction(id)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	pdf, err := reports.RenderInvoicePDF(transaction)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", transaction.ID))
	c.Data(200, "application/pdf", pdf)
}

// GET /transaction/export
func (h *TransactionHandler) Export(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	params.Limit = 100
	filter := services.TransactionFilter{PaginationParams: params}

	if typeStr := c.Query("type"); typeStr != "" {
		txType := models.TransactionType(typeStr)
		filter.Type = &txType
	}
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.From = &from
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.To = &to
		}
	}

	transactions, _, err := h.stockService.ListTransactions(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	data, err := reports.RenderTransactionsExcel(transactions)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.Header("Content-Disposition", "attachment; filename=transactions.xlsx")
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func respondStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrLimitExceeded),
		errors.Is(err, services.ErrCapacityExceeded):
		utils.ErrorResponse(c, 409, err.Error())
	case errors.Is(err, services.ErrSameWarehouse),
		errors.Is(err, services.ErrNoStockRecord),
		errors.Is(err, services.ErrProductArchived),
		errors.Is(err, services.ErrWarehouseInactive):
		utils.BadRequestResponse(c, err.Error())
	default:
		utils.BadRequestResponse(c, err.Error())
	}
}
