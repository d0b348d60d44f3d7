// internal/services/quantity_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type QuantityServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *QuantityService

	warehouse *models.Warehouse
	product   *models.Product
}

func (suite *QuantityServiceTestSuite) SetupTest() {
	db, err := newTestDB()
	suite.Require().NoError(err)
	suite.db = db
	suite.service = NewQuantityService(db)

	suite.warehouse, err = createTestWarehouse(db, "Central", 0)
	suite.Require().NoError(err)
	suite.product, err = createTestProduct(db, "Widget", 9.99)
	suite.Require().NoError(err)
}

func (suite *QuantityServiceTestSuite) TestWarehouseStockCountsAndPages() {
	other, err := createTestProduct(suite.db, "Gadget", 4.99)
	suite.Require().NoError(err)
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, other.ID, 3, 0))

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
	rows, total, err := suite.service.WarehouseStock(suite.warehouse.ID, params)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(rows, 2)
}

func (suite *QuantityServiceTestSuite) TestWarehouseStockExcludesArchived() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))
	suite.Require().NoError(suite.db.Model(suite.product).Update("archived", true).Error)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
	rows, total, err := suite.service.WarehouseStock(suite.warehouse.ID, params)
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(rows)
}

func (suite *QuantityServiceTestSuite) TestUpdateReorderLimit() {
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 10, 0))

	quantity, err := suite.service.UpdateReorderLimit(suite.warehouse.ID, suite.product.ID, 4)
	suite.Require().NoError(err)
	suite.Equal(int64(4), quantity.ReorderLimit)

	_, err = suite.service.UpdateReorderLimit(suite.warehouse.ID, suite.product.ID, -1)
	suite.Error(err)
}

func (suite *QuantityServiceTestSuite) TestLowStockListsRowsAtOrBelowLimit() {
	other, err := createTestProduct(suite.db, "Gadget", 4.99)
	suite.Require().NoError(err)
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, suite.product.ID, 2, 5))
	suite.Require().NoError(seedStock(suite.db, suite.warehouse.ID, other.ID, 50, 5))

	rows, err := suite.service.LowStock(nil)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)
	suite.Equal(suite.product.ID, rows[0].ProductID)
}

func TestQuantityServiceSuite(t *testing.T) {
	suite.Run(t, new(QuantityServiceTestSuite))
}
