// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

var ErrInvalidCategory = errors.New("invalid product category")

// ProductService manages the catalog. Products are archived rather
// than deleted so their movement history stays intact.
type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	Category      string   `json:"category" validate:"required"`
	Description   string   `json:"description" validate:"max=5000"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	MarkupPercent float64  `json:"markup_percent" validate:"gte=0,lte=500"`
	Images        []string `json:"images" validate:"omitempty,dive,max=512"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Category      *string  `json:"category"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	MarkupPercent *float64 `json:"markup_percent" validate:"omitempty,gte=0,lte=500"`
	Images        []string `json:"images" validate:"omitempty,dive,max=512"`
}

type ProductFilter struct {
	utils.PaginationParams
	Category        *models.ProductCategory
	IncludeArchived bool
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) Create(creatorID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category := models.ProductCategory(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	product := &models.Product{
		Name:          req.Name,
		Category:      category,
		Description:   req.Description,
		Price:         req.Price,
		MarkupPercent: req.MarkupPercent,
		Images:        req.Images,
		CreatedByID:   creatorID,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) Get(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.Preload("CreatedBy").Preload("Quantities").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// List returns catalog pages. Archived products are excluded unless
// explicitly requested.
func (s *ProductService) List(filter ProductFilter) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if !filter.IncludeArchived {
		query = query.Where("archived = ?", false)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"name", "category", "price", "created_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) Update(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		category := models.ProductCategory(*req.Category)
		if !category.Valid() {
			return nil, ErrInvalidCategory
		}
		updates["category"] = category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.MarkupPercent != nil {
		updates["markup_percent"] = *req.MarkupPercent
	}
	if req.Images != nil {
		product.Images = req.Images
		if err := s.db.Model(product).Select("images").Updates(product).Error; err != nil {
			return nil, fmt.Errorf("failed to update product images: %w", err)
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.Get(id)
}

// AddImage appends one uploaded image URL to the product.
func (s *ProductService) AddImage(id uuid.UUID, url string) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	product.Images = append(product.Images, url)
	if err := s.db.Model(product).Select("images").Updates(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product images: %w", err)
	}
	return product, nil
}

// Archive hides the product from active listings and blocks new
// movements. Existing transactions keep referencing it.
func (s *ProductService) Archive(id uuid.UUID) (*models.Product, error) {
	return s.setArchived(id, true)
}

// Restore brings an archived product back into the active catalog.
func (s *ProductService) Restore(id uuid.UUID) (*models.Product, error) {
	return s.setArchived(id, false)
}

func (s *ProductService) setArchived(id uuid.UUID, archived bool) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if product.Archived == archived {
		return product, nil
	}

	if err := s.db.Model(product).Update("archived", archived).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	product.Archived = archived
	return product, nil
}
