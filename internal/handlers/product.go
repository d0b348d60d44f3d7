// internal/handlers/product.go
package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wareflow/wareflow-backend/internal/middleware"
	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/reports"
	"github.com/wareflow/wareflow-backend/internal/services"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

// GET /product
func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.ProductFilter{PaginationParams: params}

	if category := c.Query("category"); category != "" {
		cat := models.ProductCategory(category)
		if !cat.Valid() {
			utils.BadRequestResponse(c, "Invalid category")
			return
		}
		filter.Category = &cat
	}

	if archivedStr := c.Query("include_archived"); archivedStr != "" {
		if includeArchived, err := strconv.ParseBool(archivedStr); err == nil {
			filter.IncludeArchived = includeArchived
		}
	}

	products, total, err := h.productService.List(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// POST /product
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Create(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"product": product})
}

// GET /product/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// PATCH /product/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	product, err := h.productService.Update(id, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /product/:id/archive
func (h *ProductHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Archive(id)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /product/:id/restore
func (h *ProductHandler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Restore(id)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /product/:id/images
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	file, header, err := c.Request.FormFile("productImage")
	if err != nil {
		file, header, err = c.Request.FormFile("image")
	}
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required")
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	options := h.storageService.GetDefaultUploadOptions("products")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	product, err := h.productService.AddImage(id, result.URL)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
		"upload":  result,
	})
}

// GET /product/:id/qrcode
func (h *ProductHandler) QRCode(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	product, err := h.productService.Get(id)
	if err != nil {
		utils.NotFoundResponse(c, err.Error())
		return
	}

	size := 256
	if sizeStr := c.Query("size"); sizeStr != "" {
		if parsed, err := strconv.Atoi(sizeStr); err == nil && parsed >= 64 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := reports.RenderProductQR(product, size)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=product-%s.png", product.ID))
	c.Data(200, "image/png", png)
}
