// internal/services/dashboard_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *DashboardService
	stock   *StockService

	user      *models.User
	warehouse *models.Warehouse
	product   *models.Product
}

func (suite *DashboardServiceTestSuite) SetupTest() {
	db, err := newTestDB()
	suite.Require().NoError(err)
	suite.db = db
	suite.service = NewDashboardService(db)
	suite.stock = NewStockService(db, nil)

	suite.user, err = createTestUser(db, "manager@example.com", models.UserRoleManager)
	suite.Require().NoError(err)
	suite.warehouse, err = createTestWarehouse(db, "Central", 0)
	suite.Require().NoError(err)
	suite.product, err = createTestProduct(db, "Widget", 9.99)
	suite.Require().NoError(err)
}

func (suite *DashboardServiceTestSuite) TestSummaryReflectsMovements() {
	_, err := suite.stock.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: suite.warehouse.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 12},
		},
	})
	suite.Require().NoError(err)

	_, err = suite.stock.StockOut(suite.user.ID, &StockOutRequest{
		SourceWarehouseID: suite.warehouse.ID,
		CustomerName:      "Jordan Lee",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 2},
		},
	})
	suite.Require().NoError(err)

	summary, err := suite.service.Summary()
	suite.Require().NoError(err)

	suite.Equal(int64(1), summary.TotalProducts)
	suite.Equal(int64(1), summary.TotalWarehouses)
	suite.Equal(int64(1), summary.TotalManagers)
	suite.Equal(int64(10), summary.TotalStock)
	suite.Equal(int64(1), summary.PendingShipments)
	suite.Equal(int64(1), summary.TransactionsByType["in"])
	suite.Equal(int64(1), summary.TransactionsByType["out"])
}

func (suite *DashboardServiceTestSuite) TestStockPerWarehouseExcludesInactive() {
	_, err := suite.stock.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: suite.warehouse.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 5},
		},
	})
	suite.Require().NoError(err)

	inactive, err := createTestWarehouse(suite.db, "Retired", 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(inactive).Update("active", false).Error)

	rows, err := suite.service.StockPerWarehouse()
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(suite.warehouse.ID, rows[0].WarehouseID)
	suite.Equal(int64(5), rows[0].TotalStock)
}

func (suite *DashboardServiceTestSuite) TestStockPerWarehouseExcludesArchivedProducts() {
	_, err := suite.stock.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: suite.warehouse.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 42},
		},
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(suite.product).Update("archived", true).Error)

	rows, err := suite.service.StockPerWarehouse()
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(int64(0), rows[0].TotalStock)
	suite.Equal(int64(0), rows[0].ProductCount)
}

func (suite *DashboardServiceTestSuite) TestTransactionVolumesGroupByDay() {
	_, err := suite.stock.StockIn(suite.user.ID, &StockInRequest{
		DestinationWarehouseID: suite.warehouse.ID,
		Supplier:               "Acme Supplies",
		Items: []StockLineItem{
			{ProductID: suite.product.ID, Quantity: 5},
			{ProductID: suite.product.ID, Quantity: 3},
		},
	})
	suite.Require().NoError(err)

	rows, err := suite.service.TransactionVolumes(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal("in", rows[0].Type)
	suite.Equal(int64(2), rows[0].Count)
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
