// internal/services/warehouse_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

var ErrAddressTaken = errors.New("a warehouse already exists at this address")

// WarehouseService manages warehouses and their manager assignments.
// Admin-only operations; managers only read the warehouses assigned to
// them.
type WarehouseService struct {
	db *gorm.DB
}

type CreateWarehouseRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Address     string `json:"address" validate:"required,min=5,max=512"`
	Description string `json:"description" validate:"max=5000"`
	Capacity    int64  `json:"capacity" validate:"gte=0"`
}

type UpdateWarehouseRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Address     *string `json:"address" validate:"omitempty,min=5,max=512"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Capacity    *int64  `json:"capacity" validate:"omitempty,gte=0"`
}

func NewWarehouseService(db *gorm.DB) *WarehouseService {
	return &WarehouseService{db: db}
}

func (s *WarehouseService) Create(req *CreateWarehouseRequest) (*models.Warehouse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkAddress(req.Address, uuid.Nil); err != nil {
		return nil, err
	}

	warehouse := &models.Warehouse{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		Capacity:    req.Capacity,
		Active:      true,
	}
	if err := s.db.Create(warehouse).Error; err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}

	return warehouse, nil
}

func (s *WarehouseService) Get(id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := s.db.Preload("Managers").First(&warehouse, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("warehouse not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &warehouse, nil
}

// List returns warehouses visible to the caller: everything for
// admins, assigned warehouses for managers.
func (s *WarehouseService) List(user *models.User, params utils.PaginationParams) ([]models.Warehouse, int64, error) {
	query := s.db.Model(&models.Warehouse{})

	if user.Role != models.UserRoleAdmin {
		query = query.
			Joins("JOIN warehouse_managers wm ON wm.warehouse_id = warehouses.id").
			Where("wm.user_id = ?", user.ID)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("warehouses.name LIKE ? OR warehouses.address LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count warehouses: %w", err)
	}

	query = query.Select("warehouses.*")
	allowedSortFields := []string{"name", "address", "capacity", "created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var warehouses []models.Warehouse
	if err := query.Preload("Managers").Find(&warehouses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch warehouses: %w", err)
	}

	return warehouses, total, nil
}

func (s *WarehouseService) Update(id uuid.UUID, req *UpdateWarehouseRequest) (*models.Warehouse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	warehouse, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		if err := s.checkAddress(*req.Address, id); err != nil {
			return nil, err
		}
		updates["address"] = *req.Address
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}

	if len(updates) > 0 {
		if err := s.db.Model(warehouse).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update warehouse: %w", err)
		}
	}

	return s.Get(id)
}

// Deactivate retires a warehouse. Stock records and history survive,
// but new movements against it are rejected.
func (s *WarehouseService) Deactivate(id uuid.UUID) error {
	return s.setActive(id, false)
}

func (s *WarehouseService) Activate(id uuid.UUID) error {
	return s.setActive(id, true)
}

func (s *WarehouseService) setActive(id uuid.UUID, active bool) error {
	result := s.db.Model(&models.Warehouse{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update warehouse: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("warehouse not found")
	}
	return nil
}

// AssignManager adds a manager to the warehouse roster.
func (s *WarehouseService) AssignManager(warehouseID, userID uuid.UUID) error {
	warehouse, err := s.Get(warehouseID)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.Where("id = ? AND deleted = ?", userID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(warehouse).Association("Managers").Append(&user); err != nil {
		return fmt.Errorf("failed to assign manager: %w", err)
	}
	return nil
}

// RemoveManager drops a manager from the warehouse roster.
func (s *WarehouseService) RemoveManager(warehouseID, userID uuid.UUID) error {
	warehouse, err := s.Get(warehouseID)
	if err != nil {
		return err
	}

	if err := s.db.Model(warehouse).Association("Managers").
		Delete(&models.User{BaseModel: models.BaseModel{ID: userID}}); err != nil {
		return fmt.Errorf("failed to remove manager: %w", err)
	}
	return nil
}

func (s *WarehouseService) checkAddress(address string, excludeID uuid.UUID) error {
	query := s.db.Model(&models.Warehouse{}).Where("address = ?", address)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return ErrAddressTaken
	}
	return nil
}
