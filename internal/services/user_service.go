// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

// UserService covers profile self-service and the admin's manager
// roster. Accounts are soft-deleted with the deleted flag so their
// transaction history keeps a valid author.
type UserService struct {
	db *gorm.DB
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=512"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Warehouses").First(&user, "id = ? AND deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// ListManagers returns the manager roster for admin screens.
func (s *UserService) ListManagers(params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{}).
		Where("role = ? AND deleted = ?", models.UserRoleManager, false)

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count managers: %w", err)
	}

	allowedSortFields := []string{"name", "email", "created_at", "last_login_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Preload("Warehouses").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch managers: %w", err)
	}

	return users, total, nil
}

func (s *UserService) UpdateProfile(id uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.Get(id)
}

// ChangePassword verifies the current password before replacing it.
func (s *UserService) ChangePassword(id uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetActive suspends or reactivates a manager account.
func (s *UserService) SetActive(id uuid.UUID, active bool) error {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}

// Delete soft-deletes the account. The email stays reserved by the
// unique index.
func (s *UserService) Delete(id uuid.UUID) error {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{"deleted": true, "active": false})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("user not found")
	}
	return nil
}
