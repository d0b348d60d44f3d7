// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Name          string          `json:"name" gorm:"size:255;not null;index"`
	Category      ProductCategory `json:"category" gorm:"type:varchar(30);not null;index"`
	Description   string          `json:"description" gorm:"type:text"`
	Images        []string        `json:"images" gorm:"serializer:json"`
	Price         float64         `json:"price" gorm:"type:decimal(12,2);not null"`
	MarkupPercent float64         `json:"markup_percent" gorm:"type:decimal(5,2);default:0"`
	CreatedByID   uuid.UUID       `json:"created_by_id" gorm:"type:uuid;index"`
	Archived      bool            `json:"archived" gorm:"default:false;index"`

	// Relationships
	CreatedBy    *User         `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	Quantities   []Quantity    `json:"quantities,omitempty" gorm:"foreignKey:ProductID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:ProductID"`
}

// SellingPrice is the catalog price with the configured markup applied.
func (p *Product) SellingPrice() float64 {
	return p.Price * (1 + p.MarkupPercent/100)
}
