// internal/services/quantity_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

// QuantityService answers stock-level queries and manages per-row
// reorder limits. All quantity mutations go through StockService.
type QuantityService struct {
	db *gorm.DB
}

func NewQuantityService(db *gorm.DB) *QuantityService {
	return &QuantityService{db: db}
}

// WarehouseStock lists the quantity rows of one warehouse, joined with
// their products. Archived products are excluded.
func (s *QuantityService) WarehouseStock(warehouseID uuid.UUID, params utils.PaginationParams) ([]models.Quantity, int64, error) {
	query := s.db.Model(&models.Quantity{}).
		Joins("JOIN products p ON p.id = quantities.product_id").
		Where("quantities.warehouse_id = ? AND p.archived = ?", warehouseID, false)

	if params.Search != "" {
		query = query.Where("p.name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock rows: %w", err)
	}

	var quantities []models.Quantity
	if err := utils.ApplyPagination(query.Select("quantities.*").Order("quantities.quantity ASC"), params).
		Preload("Product").
		Find(&quantities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stock rows: %w", err)
	}

	return quantities, total, nil
}

// ProductStock returns one product's quantity rows across warehouses.
func (s *QuantityService) ProductStock(productID uuid.UUID) ([]models.Quantity, error) {
	var quantities []models.Quantity
	if err := s.db.Where("product_id = ?", productID).
		Preload("Warehouse").
		Find(&quantities).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch stock rows: %w", err)
	}
	return quantities, nil
}

// UpdateReorderLimit sets the low-stock threshold for one quantity row.
func (s *QuantityService) UpdateReorderLimit(warehouseID, productID uuid.UUID, limit int64) (*models.Quantity, error) {
	if limit < 0 {
		return nil, errors.New("reorder limit must not be negative")
	}

	var quantity models.Quantity
	err := s.db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&quantity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoStockRecord
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&quantity).Update("reorder_limit", limit).Error; err != nil {
		return nil, fmt.Errorf("failed to update reorder limit: %w", err)
	}
	quantity.ReorderLimit = limit
	return &quantity, nil
}

// LowStock lists every quantity row at or below its reorder limit,
// most depleted first. Rows without a limit never appear.
func (s *QuantityService) LowStock(warehouseID *uuid.UUID) ([]models.Quantity, error) {
	query := s.db.Model(&models.Quantity{}).
		Select("quantities.*").
		Joins("JOIN products p ON p.id = quantities.product_id").
		Where("quantities.reorder_limit > 0 AND quantities.quantity <= quantities.reorder_limit").
		Where("p.archived = ?", false)

	if warehouseID != nil {
		query = query.Where("quantities.warehouse_id = ?", *warehouseID)
	}

	var quantities []models.Quantity
	if err := query.Order("quantities.quantity ASC").
		Preload("Product").
		Preload("Warehouse").
		Find(&quantities).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch low stock rows: %w", err)
	}

	return quantities, nil
}
