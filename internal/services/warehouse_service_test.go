// internal/services/warehouse_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type WarehouseServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *WarehouseService
	admin   *models.User
	manager *models.User
}

func (suite *WarehouseServiceTestSuite) SetupTest() {
	db, err := newTestDB()
	suite.Require().NoError(err)
	suite.db = db
	suite.service = NewWarehouseService(db)

	suite.admin, err = createTestUser(db, "admin@example.com", models.UserRoleAdmin)
	suite.Require().NoError(err)
	suite.manager, err = createTestUser(db, "manager@example.com", models.UserRoleManager)
	suite.Require().NoError(err)
}

func (suite *WarehouseServiceTestSuite) TestCreateRejectsDuplicateAddress() {
	_, err := suite.service.Create(&CreateWarehouseRequest{
		Name:    "Central",
		Address: "1 Dock Road, Hamburg",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Create(&CreateWarehouseRequest{
		Name:    "Central Annex",
		Address: "1 Dock Road, Hamburg",
	})
	suite.ErrorIs(err, ErrAddressTaken)
}

func (suite *WarehouseServiceTestSuite) TestManagerSeesOnlyAssignedWarehouses() {
	first, err := suite.service.Create(&CreateWarehouseRequest{
		Name:    "Central",
		Address: "1 Dock Road, Hamburg",
	})
	suite.Require().NoError(err)
	_, err = suite.service.Create(&CreateWarehouseRequest{
		Name:    "North",
		Address: "9 Harbor Way, Kiel",
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.AssignManager(first.ID, suite.manager.ID))

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	mine, total, err := suite.service.List(suite.manager, params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(mine, 1)
	suite.Equal(first.ID, mine[0].ID)

	all, total, err := suite.service.List(suite.admin, params)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(all, 2)
}

func (suite *WarehouseServiceTestSuite) TestRemoveManager() {
	warehouse, err := suite.service.Create(&CreateWarehouseRequest{
		Name:    "Central",
		Address: "1 Dock Road, Hamburg",
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.AssignManager(warehouse.ID, suite.manager.ID))
	suite.Require().NoError(suite.service.RemoveManager(warehouse.ID, suite.manager.ID))

	fetched, err := suite.service.Get(warehouse.ID)
	suite.Require().NoError(err)
	suite.Empty(fetched.Managers)
}

func (suite *WarehouseServiceTestSuite) TestDeactivateKeepsRecord() {
	warehouse, err := suite.service.Create(&CreateWarehouseRequest{
		Name:    "Central",
		Address: "1 Dock Road, Hamburg",
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Deactivate(warehouse.ID))

	fetched, err := suite.service.Get(warehouse.ID)
	suite.Require().NoError(err)
	suite.False(fetched.Active)

	suite.Require().NoError(suite.service.Activate(warehouse.ID))
	fetched, err = suite.service.Get(warehouse.ID)
	suite.Require().NoError(err)
	suite.True(fetched.Active)
}

func TestWarehouseServiceSuite(t *testing.T) {
	suite.Run(t, new(WarehouseServiceTestSuite))
}
