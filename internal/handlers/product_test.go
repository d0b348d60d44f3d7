// internal/handlers/product_test.go
package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wareflow/wareflow-backend/internal/config"
	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/services"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type ProductHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	product *models.Product
}

func (suite *ProductHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.Product{}, &models.Quantity{}))
	suite.db = db

	cfg := &config.Config{
		Upload: config.UploadConfig{MaxSizeMB: 5, LocalDir: suite.T().TempDir()},
	}
	storageService, err := services.NewStorageService(cfg)
	suite.Require().NoError(err)

	handler := NewProductHandler(services.NewProductService(db), storageService)
	suite.router = gin.New()
	suite.router.POST("/product/:id/images", handler.UploadImage)

	suite.product = &models.Product{
		Name:     "Desk Lamp",
		Category: models.CategoryFurniture,
		Price:    30,
	}
	suite.Require().NoError(db.Create(suite.product).Error)
}

func (suite *ProductHandlerTestSuite) uploadImage(field string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, "lamp.png")
	suite.Require().NoError(err)
	_, err = part.Write(pngHeader)
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/product/%s/images", suite.product.ID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ProductHandlerTestSuite) TestUploadImageAcceptsProductImageField() {
	w := suite.uploadImage("productImage")
	suite.Equal(http.StatusOK, w.Code)

	var product models.Product
	suite.Require().NoError(suite.db.First(&product, "id = ?", suite.product.ID).Error)
	suite.Len(product.Images, 1)
}

func (suite *ProductHandlerTestSuite) TestUploadImageAcceptsLegacyImageField() {
	w := suite.uploadImage("image")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ProductHandlerTestSuite) TestUploadImageRequiresFile() {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/product/%s/images", suite.product.ID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestProductHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductHandlerTestSuite))
}
