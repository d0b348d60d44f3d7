// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:100"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'manager'"`
	Verified     bool       `json:"verified" gorm:"default:false"`
	Active       bool       `json:"active" gorm:"default:true"`
	Deleted      bool       `json:"deleted" gorm:"default:false;index"`
	ImageURL     string     `json:"image_url" gorm:"size:512"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Warehouses    []Warehouse        `json:"warehouses,omitempty" gorm:"many2many:warehouse_managers;"`
	Transactions  []Transaction      `json:"transactions,omitempty" gorm:"foreignKey:UserID"`
	Subscriptions []PushSubscription `json:"subscriptions,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
