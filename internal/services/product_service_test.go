// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProductService
	creator *models.User
}

func (suite *ProductServiceTestSuite) SetupTest() {
	db, err := newTestDB()
	suite.Require().NoError(err)
	suite.db = db
	suite.service = NewProductService(db)

	suite.creator, err = createTestUser(db, "admin@example.com", models.UserRoleAdmin)
	suite.Require().NoError(err)
}

func (suite *ProductServiceTestSuite) TestCreateAndGet() {
	product, err := suite.service.Create(suite.creator.ID, &CreateProductRequest{
		Name:          "Desk Lamp",
		Category:      "furniture",
		Price:         30,
		MarkupPercent: 25,
	})
	suite.Require().NoError(err)
	suite.NotEqual(uuid.Nil, product.ID)
	suite.Equal(models.CategoryFurniture, product.Category)
	suite.InDelta(37.5, product.SellingPrice(), 0.001)

	fetched, err := suite.service.Get(product.ID)
	suite.Require().NoError(err)
	suite.Equal(suite.creator.ID, fetched.CreatedByID)
}

func (suite *ProductServiceTestSuite) TestCreateRejectsUnknownCategory() {
	_, err := suite.service.Create(suite.creator.ID, &CreateProductRequest{
		Name:     "Mystery Box",
		Category: "antiques",
		Price:    10,
	})
	suite.ErrorIs(err, ErrInvalidCategory)
}

func (suite *ProductServiceTestSuite) TestArchiveHidesFromActiveList() {
	product, err := suite.service.Create(suite.creator.ID, &CreateProductRequest{
		Name:     "Desk Lamp",
		Category: "furniture",
		Price:    30,
	})
	suite.Require().NoError(err)

	_, err = suite.service.Archive(product.ID)
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	active, total, err := suite.service.List(ProductFilter{PaginationParams: params})
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(active)

	all, total, err := suite.service.List(ProductFilter{PaginationParams: params, IncludeArchived: true})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(all, 1)
	suite.True(all[0].Archived)

	// Restore brings it back.
	_, err = suite.service.Restore(product.ID)
	suite.Require().NoError(err)

	active, total, err = suite.service.List(ProductFilter{PaginationParams: params})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(active, 1)
}

func (suite *ProductServiceTestSuite) TestUpdateIsPartial() {
	product, err := suite.service.Create(suite.creator.ID, &CreateProductRequest{
		Name:     "Desk Lamp",
		Category: "furniture",
		Price:    30,
	})
	suite.Require().NoError(err)

	newPrice := 35.0
	updated, err := suite.service.Update(product.ID, &UpdateProductRequest{Price: &newPrice})
	suite.Require().NoError(err)
	suite.Equal(35.0, updated.Price)
	suite.Equal("Desk Lamp", updated.Name)
	suite.Equal(models.CategoryFurniture, updated.Category)
}

func (suite *ProductServiceTestSuite) TestAddImageAppends() {
	product, err := suite.service.Create(suite.creator.ID, &CreateProductRequest{
		Name:     "Desk Lamp",
		Category: "furniture",
		Price:    30,
		Images:   []string{"/uploads/products/one.png"},
	})
	suite.Require().NoError(err)

	updated, err := suite.service.AddImage(product.ID, "/uploads/products/two.png")
	suite.Require().NoError(err)
	suite.Len(updated.Images, 2)

	// Round-trip through the database to confirm the list persists.
	fetched, err := suite.service.Get(product.ID)
	suite.Require().NoError(err)
	suite.Equal([]string{"/uploads/products/one.png", "/uploads/products/two.png"}, fetched.Images)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
