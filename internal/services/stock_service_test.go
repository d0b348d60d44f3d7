// internal/services/stock_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
)

type StockServiceTestSuite struct {
	suite.Suite
	db         *gorm.DB
	dispatcher *recordingDispatcher
	service    *StockService

	user      *models.User
	warehouse *models.Warehouse
	product   *models.Product
}

func (suite *StockServiceTestSuite) SetupTest() {
	db, err := newTestDB()
	suite.Require().NoError(err)
	suite.db = db

	suite.dispatcher = &recordingDispatcher{}
	suite.service = NewStockService(db, suite.dispatcher)

	suite.user, err = createTestUser(db, "manager@example.com", models.UserRoleManager)
	suite.Require().NoError(err)
	suite.warehouse, err = createTestWarehouse(db, "Central", 0)
	suite.Require().NoError(err)
	suite.product, err = createTestProduct(db, "Widget", 9.99)
	suite.Require().NoError(err)
}

func (suite *StockServiceTestSuite) quantityOf(warehouseID, productID interface{}) int64 {
	var q models.Quantity
	err := suite.db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&q).Error
	suite.Require().NoError(err)
	return q.Quantity
}

func (suite *StockServiceTestSuite) TestStockInCreatesQuantityRow() {
	transactions, err := suite.service.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: suite.warehouse.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 10},
		},
	})
	suite.Require().NoError(err)
	suite.Len(transactions, 1)
	suite.Equal(models.TransactionTypeIn, transactions[0].Type)
	suite.Equal("Acme Supplies", transactions[0].Supplier)

	suite.Equal(int64(10), suite.quantityOf(suite.warehouse.ID, suite.product.ID))
	suite.Len(suite.dispatcher.byType(models.NotificationTypeStockIn), 1)
}

func (suite *StockServiceTestSuite) TestStockOutRejectsInsufficientStock() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))

	_, err := suite.service.StockOut(suite.user.ID, &StockOutRequest{
		SourceWarehouseID: suite.warehouse.ID,
		CustomerName:      "Jordan Lee",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 15},
		},
	})
	suite.ErrorIs(err, ErrInsufficientStock)

	suite.Equal(int64(10), suite.quantityOf(suite.warehouse.ID, suite.product.ID))

	var count int64
	suite.db.Model(&models.Transaction{}).Count(&count)
	suite.Zero(count)
}

func (suite *StockServiceTestSuite) TestStockOutBatchIsAtomic() {
	second, err := createTestProduct(suite.db, "Gadget", 4.50)
	suite.Require().NoError(err)
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 20, 0))
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, second.ID, 2, 0))

	_, err = suite.service.StockOut(suite.user.ID, &StockOutRequest{
		SourceWarehouseID: suite.warehouse.ID,
		CustomerName:      "Jordan Lee",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 5},
			{ProductID: second.ID, Quantity: 3},
		},
	})
	suite.ErrorIs(err, ErrInsufficientStock)

	// The first line item must be rolled back with the failing one.
	suite.Equal(int64(20), suite.quantityOf(suite.warehouse.ID, suite.product.ID))
	suite.Equal(int64(2), suite.quantityOf(suite.warehouse.ID, second.ID))

	var count int64
	suite.db.Model(&models.Transaction{}).Count(&count)
	suite.Zero(count)
}

func (suite *StockServiceTestSuite) TestStockOutRejectsRequestAboveLimit() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 100, 5))

	_, err := suite.service.StockOut(suite.user.ID, &StockOutRequest{
		SourceWarehouseID: suite.warehouse.ID,
		CustomerName:      "Jordan Lee",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 6},
		},
	})
	suite.ErrorIs(err, ErrLimitExceeded)
	suite.Equal(int64(100), suite.quantityOf(suite.warehouse.ID, suite.product.ID))
}

func (suite *StockServiceTestSuite) TestTransferRejectsSameWarehouse() {
	_, err := suite.service.Transfer(suite.user.ID, &TransferRequest{
		SourceWarehouseID:      suite.warehouse.ID,
		DestinationWarehouseID: suite.warehouse.ID,
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 1},
		},
	})
	suite.ErrorIs(err, ErrSameWarehouse)
}

func (suite *StockServiceTestSuite) TestTransferMovesStock() {
	destination, err := createTestWarehouse(suite.db, "North", 0)
	suite.Require().NoError(err)
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))

	transactions, err := suite.service.Transfer(suite.user.ID, &TransferRequest{
		SourceWarehouseID:      suite.warehouse.ID,
		DestinationWarehouseID: destination.ID,
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 4},
		},
	})
	suite.Require().NoError(err)
	suite.Len(transactions, 1)
	suite.Equal(models.TransactionTypeTransfer, transactions[0].Type)

	suite.Equal(int64(6), suite.quantityOf(suite.warehouse.ID, suite.product.ID))
	suite.Equal(int64(4), suite.quantityOf(destination.ID, suite.product.ID))
}

func (suite *StockServiceTestSuite) TestLowStockFiresOnlyOnCrossing() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 8))

	out := func(n int64) {
		_, err := suite.service.StockOut(suite.user.ID, &StockOutRequest{
			SourceWarehouseID: suite.warehouse.ID,
			CustomerName:      "Jordan Lee",
			Items: []StockLineItem{
				{ProductID: suite.product.ID, Quantity: n},
			},
		})
		suite.Require().NoError(err)
	}

	// 10 -> 7 crosses the limit of 8.
	out(3)
	suite.Len(suite.dispatcher.byType(models.NotificationTypeLowStock), 1)

	// 7 -> 5 stays below the limit, no repeat alert.
	out(2)
	suite.Len(suite.dispatcher.byType(models.NotificationTypeLowStock), 1)
}

func (suite *StockServiceTestSuite) TestAdjustmentKeepsFloorAtZero() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))

	_, err := suite.service.Adjust(suite.user.ID, &AdjustmentRequest{
		WarehouseID: suite.warehouse.ID,
		ProductID:   suite.product.ID,
		Delta:       -20,
		Reason:      "shrinkage recount",
	})
	suite.ErrorIs(err, ErrInsufficientStock)
	suite.Equal(int64(10), suite.quantityOf(suite.warehouse.ID, suite.product.ID))
}

func (suite *StockServiceTestSuite) TestAdjustmentRecordsReason() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))

	tx, err := suite.service.Adjust(suite.user.ID, &AdjustmentRequest{
		WarehouseID: suite.warehouse.ID,
		ProductID:   suite.product.ID,
		Delta:       -2,
		Reason:      "damaged in handling",
	})
	suite.Require().NoError(err)
	suite.Equal(models.TransactionTypeAdjustment, tx.Type)
	suite.Equal("damaged in handling", tx.Reason)
	suite.Equal(int64(8), suite.quantityOf(suite.warehouse.ID, suite.product.ID))
}

func (suite *StockServiceTestSuite) TestCapacityCeilingOnStockIn() {
	small, err := createTestWarehouse(suite.db, "Tiny", 15)
	suite.Require().NoError(err)

	_, err = suite.service.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: small.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 10},
		},
	})
	suite.Require().NoError(err)

	_, err = suite.service.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: small.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 10},
		},
	})
	suite.ErrorIs(err, ErrCapacityExceeded)
	suite.Equal(int64(10), suite.quantityOf(small.ID, suite.product.ID))
}

func (suite *StockServiceTestSuite) TestShipmentLifecycle() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))

	transactions, err := suite.service.StockOut(suite.user.ID, &StockOutRequest{
		SourceWarehouseID: suite.warehouse.ID,
		CustomerName:      "Jordan Lee",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 2},
		},
	})
	suite.Require().NoError(err)
	id := transactions[0].ID

	tx, err := suite.service.UpdateShipmentStatus(id, models.ShipmentStatusShipped)
	suite.Require().NoError(err)
	suite.Equal(models.ShipmentStatusShipped, tx.ShipmentStatus)

	tx, err = suite.service.UpdateShipmentStatus(id, models.ShipmentStatusDelivered)
	suite.Require().NoError(err)
	suite.Equal(models.ShipmentStatusDelivered, tx.ShipmentStatus)

	// Delivered is terminal.
	_, err = suite.service.UpdateShipmentStatus(id, models.ShipmentStatusCancelled)
	suite.ErrorIs(err, ErrInvalidShipmentMove)

	// Shipment transitions never touch stock.
	suite.Equal(int64(8), suite.quantityOf(suite.warehouse.ID, suite.product.ID))
}

func (suite *StockServiceTestSuite) TestInactiveWarehouseRejected() {
	suite.Require().NoError(suite.db.Model(suite.warehouse).Update("active", false).Error)

	_, err := suite.service.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: suite.warehouse.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 1},
		},
	})
	suite.ErrorIs(err, ErrWarehouseInactive)
}

func (suite *StockServiceTestSuite) TestArchivedProductRejectedOnStockIn() {
	suite.Require().NoError(suite.db.Model(suite.product).Update("archived", true).Error)

	_, err := suite.service.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: suite.warehouse.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 1},
		},
	})
	suite.ErrorIs(err, ErrProductArchived)
}

func TestStockServiceSuite(t *testing.T) {
	suite.Run(t, new(StockServiceTestSuite))
}
