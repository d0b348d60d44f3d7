// internal/models/transaction.go
package models

import (
	"github.com/google/uuid"
)

// Transaction is an immutable record of one stock movement. Only the
// shipment status of OUT transactions changes after creation; those
// transitions never touch stock quantities.
type Transaction struct {
	BaseModel
	Type                   TransactionType `json:"type" gorm:"type:varchar(20);not null;index"`
	ProductID              uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity               int64           `json:"quantity" gorm:"not null"`
	SourceWarehouseID      *uuid.UUID      `json:"source_warehouse_id" gorm:"type:uuid;index"`
	DestinationWarehouseID *uuid.UUID      `json:"destination_warehouse_id" gorm:"type:uuid;index"`
	UserID                 uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`

	// Counterpart fields, set depending on the movement type.
	Supplier      string `json:"supplier,omitempty" gorm:"size:255"`       // IN
	CustomerName  string `json:"customer_name,omitempty" gorm:"size:255"`  // OUT
	CustomerEmail string `json:"customer_email,omitempty" gorm:"size:255"` // OUT
	Reason        string `json:"reason,omitempty" gorm:"type:text"`        // ADJUSTMENT

	// OUT-type shipment lifecycle, independent of stock quantity.
	ShipmentStatus ShipmentStatus `json:"shipment_status,omitempty" gorm:"type:varchar(20);index"`

	// Relationships
	Product              *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	SourceWarehouse      *Warehouse `json:"source_warehouse,omitempty" gorm:"foreignKey:SourceWarehouseID"`
	DestinationWarehouse *Warehouse `json:"destination_warehouse,omitempty" gorm:"foreignKey:DestinationWarehouseID"`
	User                 *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
