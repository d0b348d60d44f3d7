// internal/models/quantity.go
package models

import (
	"github.com/google/uuid"
)

// Quantity is the per (warehouse, product) stock row. Created lazily on the
// first inbound movement for the pair, mutated on every later movement,
// never deleted.
type Quantity struct {
	BaseModel
	WarehouseID  uuid.UUID `json:"warehouse_id" gorm:"type:uuid;not null;uniqueIndex:idx_quantities_warehouse_product"`
	ProductID    uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_quantities_warehouse_product"`
	Quantity     int64     `json:"quantity" gorm:"not null;default:0"`
	ReorderLimit int64     `json:"reorder_limit" gorm:"not null;default:0"`

	// Relationships
	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
	Product   *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
