// internal/services/dashboard_service.go
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
)

// DashboardService aggregates the numbers behind the overview screens.
type DashboardService struct {
	db *gorm.DB
}

type DashboardSummary struct {
	TotalProducts      int64            `json:"total_products"`
	TotalWarehouses    int64            `json:"total_warehouses"`
	TotalManagers      int64            `json:"total_managers"`
	TotalStock         int64            `json:"total_stock"`
	LowStockCount      int64            `json:"low_stock_count"`
	PendingShipments   int64            `json:"pending_shipments"`
	TransactionsByType map[string]int64 `json:"transactions_by_type"`
}

type WarehouseStockSummary struct {
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	TotalStock    int64     `json:"total_stock"`
	ProductCount  int64     `json:"product_count"`
	Capacity      int64     `json:"capacity"`
}

type TransactionVolume struct {
	Date  string `json:"date"`
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Summary computes the headline counters. Archived products and
// deactivated warehouses are excluded throughout.
func (s *DashboardService) Summary() (*DashboardSummary, error) {
	summary := &DashboardSummary{
		TransactionsByType: map[string]int64{},
	}

	if err := s.db.Model(&models.Product{}).
		Where("archived = ?", false).
		Count(&summary.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := s.db.Model(&models.Warehouse{}).
		Where("active = ?", true).
		Count(&summary.TotalWarehouses).Error; err != nil {
		return nil, fmt.Errorf("failed to count warehouses: %w", err)
	}

	if err := s.db.Model(&models.User{}).
		Where("role = ? AND deleted = ?", models.UserRoleManager, false).
		Count(&summary.TotalManagers).Error; err != nil {
		return nil, fmt.Errorf("failed to count managers: %w", err)
	}

	if err := s.db.Model(&models.Quantity{}).
		Joins("JOIN products p ON p.id = quantities.product_id").
		Where("p.archived = ?", false).
		Select("COALESCE(SUM(quantities.quantity), 0)").
		Scan(&summary.TotalStock).Error; err != nil {
		return nil, fmt.Errorf("failed to sum stock: %w", err)
	}

	if err := s.db.Model(&models.Quantity{}).
		Joins("JOIN products p ON p.id = quantities.product_id").
		Where("p.archived = ?", false).
		Where("quantities.reorder_limit > 0 AND quantities.quantity <= quantities.reorder_limit").
		Count(&summary.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock rows: %w", err)
	}

	if err := s.db.Model(&models.Transaction{}).
		Where("type = ? AND shipment_status = ?",
			models.TransactionTypeOut, models.ShipmentStatusPending).
		Count(&summary.PendingShipments).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending shipments: %w", err)
	}

	var byType []struct {
		Type  string
		Count int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("type, COUNT(*) as count").
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to group transactions: %w", err)
	}
	for _, row := range byType {
		summary.TransactionsByType[row.Type] = row.Count
	}

	return summary, nil
}

// StockPerWarehouse returns totals for every active warehouse,
// counting active products only.
func (s *DashboardService) StockPerWarehouse() ([]WarehouseStockSummary, error) {
	var rows []WarehouseStockSummary
	err := s.db.Model(&models.Warehouse{}).
		Select(`warehouses.id as warehouse_id,
			warehouses.name as warehouse_name,
			warehouses.capacity,
			COALESCE(SUM(CASE WHEN p.archived = false THEN q.quantity END), 0) as total_stock,
			COUNT(CASE WHEN p.archived = false AND q.quantity > 0 THEN 1 END) as product_count`).
		Joins("LEFT JOIN quantities q ON q.warehouse_id = warehouses.id").
		Joins("LEFT JOIN products p ON p.id = q.product_id").
		Where("warehouses.active = ?", true).
		Group("warehouses.id, warehouses.name, warehouses.capacity").
		Order("warehouses.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate warehouse stock: %w", err)
	}
	return rows, nil
}

// TransactionVolumes returns daily per-type counts within the range.
func (s *DashboardService) TransactionVolumes(from, to time.Time) ([]TransactionVolume, error) {
	var rows []TransactionVolume
	err := s.db.Model(&models.Transaction{}).
		Select("DATE(created_at) as date, type, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("DATE(created_at), type").
		Order("date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transaction volumes: %w", err)
	}
	return rows, nil
}
