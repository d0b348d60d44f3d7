// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is created once per event, before any delivery fan-out,
// and shared by every resolved recipient through NotificationRecipient
// rows carrying the per-user seen flag.
type Notification struct {
	BaseModel
	Type          NotificationType `json:"type" gorm:"type:varchar(30);not null;index"`
	Title         string           `json:"title" gorm:"size:255;not null"`
	Message       string           `json:"message" gorm:"type:text;not null"`
	ProductID     *uuid.UUID       `json:"product_id" gorm:"type:uuid;index"`
	WarehouseID   *uuid.UUID       `json:"warehouse_id" gorm:"type:uuid;index"`
	TransactionID *uuid.UUID       `json:"transaction_id" gorm:"type:uuid;index"`
	Shipped       bool             `json:"shipped" gorm:"default:false"`
	Cancelled     bool             `json:"cancelled" gorm:"default:false"`

	// Relationships
	Recipients []NotificationRecipient `json:"recipients,omitempty" gorm:"foreignKey:NotificationID"`
}

type NotificationRecipient struct {
	NotificationID uuid.UUID  `json:"notification_id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;primaryKey;index"`
	Seen           bool       `json:"seen" gorm:"default:false"`
	SeenAt         *time.Time `json:"seen_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// PushSubscription holds one browser push registration for a user.
// A user may hold several, one per device.
type PushSubscription struct {
	BaseModel
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Endpoint string    `json:"endpoint" gorm:"size:1024;not null;uniqueIndex"`
	P256dh   string    `json:"p256dh" gorm:"size:255;not null"`
	Auth     string    `json:"auth" gorm:"size:255;not null"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// OTP stores the single active one-time code for an email address.
type OTP struct {
	BaseModel
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Code      string    `json:"-" gorm:"size:10;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
}

func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
