// internal/services/stock_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

// Business-rule violations surfaced by the stock workflow.
var (
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrLimitExceeded       = errors.New("requested quantity exceeds the configured limit")
	ErrSameWarehouse       = errors.New("source and destination warehouse must differ")
	ErrCapacityExceeded    = errors.New("warehouse capacity exceeded")
	ErrNoStockRecord       = errors.New("no stock record for product in warehouse")
	ErrProductArchived     = errors.New("product is archived")
	ErrWarehouseInactive   = errors.New("warehouse is not active")
	ErrInvalidShipmentMove = errors.New("invalid shipment status transition")
)

// EventDispatcher is the post-commit notification sink. Dispatch
// failures are logged by the stock service and never fail a request.
type EventDispatcher interface {
	Dispatch(event Event) error
}

// StockService implements the four stock-mutation operations. Each
// request is validated over all line items and then applied as one
// database transaction: either every quantity mutation and transaction
// record commits, or none do. Notification intents collected during
// the transaction are drained strictly after commit.
type StockService struct {
	db         *gorm.DB
	dispatcher EventDispatcher
}

type StockLineItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int64     `json:"quantity" validate:"required,gt=0"`
}

type StockInRequest struct {
	DestinationWarehouseID uuid.UUID       `json:"destination_warehouse_id" validate:"required"`
	Supplier               string          `json:"supplier" validate:"required"`
	Items                  []StockLineItem `json:"items" validate:"required,min=1,dive"`
}

type StockOutRequest struct {
	SourceWarehouseID uuid.UUID       `json:"source_warehouse_id" validate:"required"`
	CustomerName      string          `json:"customer_name" validate:"required"`
	CustomerEmail     string          `json:"customer_email" validate:"omitempty,email"`
	Items             []StockLineItem `json:"items" validate:"required,min=1,dive"`
}

type TransferRequest struct {
	SourceWarehouseID      uuid.UUID       `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID uuid.UUID       `json:"destination_warehouse_id" validate:"required"`
	Items                  []StockLineItem `json:"items" validate:"required,min=1,dive"`
}

type AdjustmentRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"required"`
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	Delta       int64     `json:"delta" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
}

type TransactionFilter struct {
	utils.PaginationParams
	Type        *models.TransactionType
	Status      *models.ShipmentStatus
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
	From        *time.Time
	To          *time.Time
}

func NewStockService(db *gorm.DB, dispatcher EventDispatcher) *StockService {
	return &StockService{
		db:         db,
		dispatcher: dispatcher,
	}
}

// StockIn receives goods from a supplier into one warehouse.
func (s *StockService) StockIn(userID uuid.UUID, req *StockInRequest) ([]models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var created []models.Transaction
	var intents []Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		warehouse, err := s.activeWarehouse(tx, req.DestinationWarehouseID)
		if err != nil {
			return err
		}

		if err := s.checkCapacity(tx, warehouse, totalQuantity(req.Items)); err != nil {
			return err
		}

		for _, item := range req.Items {
			product, err := s.activeProduct(tx, item.ProductID)
			if err != nil {
				return err
			}

			if _, err := s.addStock(tx, warehouse.ID, product.ID, item.Quantity); err != nil {
				return err
			}

			record := models.Transaction{
				Type:                   models.TransactionTypeIn,
				ProductID:              product.ID,
				Quantity:               item.Quantity,
				DestinationWarehouseID: &warehouse.ID,
				UserID:                 userID,
				Supplier:               req.Supplier,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
			created = append(created, record)
		}

		intents = append(intents, Event{
			Type:          models.NotificationTypeStockIn,
			Title:         "Stock received",
			Message:       fmt.Sprintf("%d item(s) received into %s from %s", len(req.Items), warehouse.Name, req.Supplier),
			WarehouseID:   &warehouse.ID,
			TransactionID: firstTransactionID(created),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchAll(intents)
	return created, nil
}

// StockOut ships goods from a warehouse to a customer. The whole batch
// is rejected if any line item would leave a negative quantity or asks
// for more than the row's configured limit.
func (s *StockService) StockOut(userID uuid.UUID, req *StockOutRequest) ([]models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var created []models.Transaction
	var intents []Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		warehouse, err := s.activeWarehouse(tx, req.SourceWarehouseID)
		if err != nil {
			return err
		}

		for _, item := range req.Items {
			crossed, err := s.removeStock(tx, warehouse.ID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}

			record := models.Transaction{
				Type:              models.TransactionTypeOut,
				ProductID:         item.ProductID,
				Quantity:          item.Quantity,
				SourceWarehouseID: &warehouse.ID,
				UserID:            userID,
				CustomerName:      req.CustomerName,
				CustomerEmail:     req.CustomerEmail,
				ShipmentStatus:    models.ShipmentStatusPending,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
			created = append(created, record)

			if crossed {
				productID := item.ProductID
				intents = append(intents, lowStockEvent(tx, productID, warehouse))
			}
		}

		intents = append(intents, Event{
			Type:          models.NotificationTypePendingShipment,
			Title:         "Shipment pending",
			Message:       fmt.Sprintf("%d item(s) awaiting shipment from %s to %s", len(req.Items), warehouse.Name, req.CustomerName),
			WarehouseID:   &warehouse.ID,
			TransactionID: firstTransactionID(created),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchAll(intents)
	return created, nil
}

// Transfer moves goods between two distinct warehouses.
func (s *StockService) Transfer(userID uuid.UUID, req *TransferRequest) ([]models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.SourceWarehouseID == req.DestinationWarehouseID {
		return nil, ErrSameWarehouse
	}

	var created []models.Transaction
	var intents []Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		source, err := s.activeWarehouse(tx, req.SourceWarehouseID)
		if err != nil {
			return err
		}
		destination, err := s.activeWarehouse(tx, req.DestinationWarehouseID)
		if err != nil {
			return err
		}

		if err := s.checkCapacity(tx, destination, totalQuantity(req.Items)); err != nil {
			return err
		}

		for _, item := range req.Items {
			crossed, err := s.removeStock(tx, source.ID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}

			if _, err := s.addStock(tx, destination.ID, item.ProductID, item.Quantity); err != nil {
				return err
			}

			record := models.Transaction{
				Type:                   models.TransactionTypeTransfer,
				ProductID:              item.ProductID,
				Quantity:               item.Quantity,
				SourceWarehouseID:      &source.ID,
				DestinationWarehouseID: &destination.ID,
				UserID:                 userID,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}
			created = append(created, record)

			if crossed {
				intents = append(intents, lowStockEvent(tx, item.ProductID, source))
			}
		}

		intents = append(intents, Event{
			Type:          models.NotificationTypeStockTransfer,
			Title:         "Stock transferred",
			Message:       fmt.Sprintf("%d item(s) moved from %s to %s", len(req.Items), source.Name, destination.Name),
			WarehouseID:   &destination.ID,
			TransactionID: firstTransactionID(created),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchAll(intents)
	return created, nil
}

// Adjust corrects one quantity row by a signed delta tied to a reason.
func (s *StockService) Adjust(userID uuid.UUID, req *AdjustmentRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var record models.Transaction
	var intents []Event

	err := s.db.Transaction(func(tx *gorm.DB) error {
		warehouse, err := s.activeWarehouse(tx, req.WarehouseID)
		if err != nil {
			return err
		}

		var crossed bool
		if req.Delta >= 0 {
			if err := s.checkCapacity(tx, warehouse, req.Delta); err != nil {
				return err
			}
			if _, err := s.addStock(tx, warehouse.ID, req.ProductID, req.Delta); err != nil {
				return err
			}
		} else {
			crossed, err = s.removeStockUnbounded(tx, warehouse.ID, req.ProductID, -req.Delta)
			if err != nil {
				return err
			}
		}

		record = models.Transaction{
			Type:              models.TransactionTypeAdjustment,
			ProductID:         req.ProductID,
			Quantity:          req.Delta,
			SourceWarehouseID: &warehouse.ID,
			UserID:            userID,
			Reason:            req.Reason,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		if crossed {
			intents = append(intents, lowStockEvent(tx, req.ProductID, warehouse))
		}
		intents = append(intents, Event{
			Type:          models.NotificationTypeStockAdjustment,
			Title:         "Stock adjusted",
			Message:       fmt.Sprintf("Stock adjusted by %+d in %s: %s", req.Delta, warehouse.Name, req.Reason),
			WarehouseID:   &warehouse.ID,
			ProductID:     &req.ProductID,
			TransactionID: &record.ID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchAll(intents)
	return &record, nil
}

// UpdateShipmentStatus moves an OUT transaction through its shipment
// lifecycle. Transitions never alter stock quantities.
func (s *StockService) UpdateShipmentStatus(transactionID uuid.UUID, status models.ShipmentStatus) (*models.Transaction, error) {
	var record models.Transaction
	if err := s.db.First(&record, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transaction not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if record.Type != models.TransactionTypeOut {
		return nil, errors.New("shipment status applies to out transactions only")
	}

	if !shipmentTransitionAllowed(record.ShipmentStatus, status) {
		return nil, ErrInvalidShipmentMove
	}

	if err := s.db.Model(&record).Update("shipment_status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update shipment status: %w", err)
	}
	record.ShipmentStatus = status

	// Reflect the lifecycle on notifications referencing this transaction.
	flags := map[string]interface{}{}
	switch status {
	case models.ShipmentStatusShipped, models.ShipmentStatusDelivered:
		flags["shipped"] = true
	case models.ShipmentStatusCancelled:
		flags["cancelled"] = true
	}
	if len(flags) > 0 {
		if err := s.db.Model(&models.Notification{}).
			Where("transaction_id = ?", record.ID).
			Updates(flags).Error; err != nil {
			logrus.WithError(err).Warn("Failed to flag notifications for shipment update")
		}
	}

	return &record, nil
}

// ListTransactions returns the paginated movement history with filters.
func (s *StockService) ListTransactions(filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{})

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("shipment_status = ?", *filter.Status)
	}
	if filter.WarehouseID != nil {
		query = query.Where("source_warehouse_id = ? OR destination_warehouse_id = ?",
			*filter.WarehouseID, *filter.WarehouseID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "type", "quantity", "shipment_status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var transactions []models.Transaction
	if err := query.
		Preload("Product").
		Preload("SourceWarehouse").
		Preload("DestinationWarehouse").
		Preload("User").
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

// GetTransaction loads one transaction with its references.
func (s *StockService) GetTransaction(id uuid.UUID) (*models.Transaction, error) {
	var record models.Transaction
	err := s.db.
		Preload("Product").
		Preload("SourceWarehouse").
		Preload("DestinationWarehouse").
		Preload("User").
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transaction not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

// --- internal helpers ---

func (s *StockService) activeWarehouse(tx *gorm.DB, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := tx.First(&warehouse, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("warehouse not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !warehouse.Active {
		return nil, ErrWarehouseInactive
	}
	return &warehouse, nil
}

func (s *StockService) activeProduct(tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.Archived {
		return nil, ErrProductArchived
	}
	return &product, nil
}

// checkCapacity rejects inbound movements that would push the
// warehouse's total stock above its capacity ceiling. A zero capacity
// means unlimited.
func (s *StockService) checkCapacity(tx *gorm.DB, warehouse *models.Warehouse, incoming int64) error {
	if warehouse.Capacity <= 0 || incoming <= 0 {
		return nil
	}

	var current int64
	err := tx.Model(&models.Quantity{}).
		Where("warehouse_id = ?", warehouse.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&current).Error
	if err != nil {
		return fmt.Errorf("failed to sum warehouse stock: %w", err)
	}

	if current+incoming > warehouse.Capacity {
		return ErrCapacityExceeded
	}
	return nil
}

// addStock finds or lazily creates the quantity row and increments it.
func (s *StockService) addStock(tx *gorm.DB, warehouseID, productID uuid.UUID, n int64) (*models.Quantity, error) {
	var quantity models.Quantity
	err := tx.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&quantity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		quantity = models.Quantity{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Quantity:    n,
		}
		if err := tx.Create(&quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to create quantity row: %w", err)
		}
		return &quantity, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := tx.Model(&quantity).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", n)).Error; err != nil {
		return nil, fmt.Errorf("failed to increment quantity: %w", err)
	}
	quantity.Quantity += n
	return &quantity, nil
}

// removeStock decrements an existing quantity row, enforcing both the
// non-negative floor and the per-row request ceiling. It reports
// whether the decrement crossed the reorder limit from above.
func (s *StockService) removeStock(tx *gorm.DB, warehouseID, productID uuid.UUID, n int64) (bool, error) {
	return s.decrement(tx, warehouseID, productID, n, true)
}

// removeStockUnbounded is the adjustment variant: the non-negative
// floor still holds but the reorder-limit ceiling does not.
func (s *StockService) removeStockUnbounded(tx *gorm.DB, warehouseID, productID uuid.UUID, n int64) (bool, error) {
	return s.decrement(tx, warehouseID, productID, n, false)
}

func (s *StockService) decrement(tx *gorm.DB, warehouseID, productID uuid.UUID, n int64, enforceCeiling bool) (bool, error) {
	var quantity models.Quantity
	err := tx.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&quantity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrNoStockRecord
	}
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}

	if enforceCeiling && quantity.ReorderLimit > 0 && n > quantity.ReorderLimit {
		return false, ErrLimitExceeded
	}

	before := quantity.Quantity
	after := before - n
	if after < 0 {
		return false, ErrInsufficientStock
	}

	// Guarded decrement: the quantity-floor predicate makes concurrent
	// over-commits impossible regardless of what was read above.
	result := tx.Model(&models.Quantity{}).
		Where("id = ? AND quantity >= ?", quantity.ID, n).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", n))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, ErrInsufficientStock
	}

	// Crossing-edge detection: fire only on the transition from above
	// the limit to at-or-below it, not on every low-level write.
	crossed := before > quantity.ReorderLimit && after <= quantity.ReorderLimit
	return crossed, nil
}

func (s *StockService) dispatchAll(intents []Event) {
	if s.dispatcher == nil {
		return
	}
	for _, intent := range intents {
		if err := s.dispatcher.Dispatch(intent); err != nil {
			logrus.WithError(err).WithField("type", intent.Type).Warn("Notification dispatch failed")
		}
	}
}

func lowStockEvent(tx *gorm.DB, productID uuid.UUID, warehouse *models.Warehouse) Event {
	name := productID.String()
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err == nil {
		name = product.Name
	}

	return Event{
		Type:        models.NotificationTypeLowStock,
		Title:       "Low stock alert",
		Message:     fmt.Sprintf("%s dropped to or below its reorder limit in %s", name, warehouse.Name),
		ProductID:   &productID,
		WarehouseID: &warehouse.ID,
	}
}

// shipmentTransitionAllowed encodes the shipment lifecycle: pending
// moves to shipped or cancelled, shipped moves to delivered, and the
// terminal states never move.
func shipmentTransitionAllowed(from, to models.ShipmentStatus) bool {
	switch from {
	case models.ShipmentStatusPending:
		return to == models.ShipmentStatusShipped || to == models.ShipmentStatusCancelled
	case models.ShipmentStatusShipped:
		return to == models.ShipmentStatusDelivered
	}
	return false
}

func firstTransactionID(created []models.Transaction) *uuid.UUID {
	if len(created) == 0 {
		return nil
	}
	return &created[0].ID
}

func totalQuantity(items []StockLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
