// internal/models/warehouse.go
package models

type Warehouse struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null"`
	Address     string `json:"address" gorm:"size:512;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Capacity    int64  `json:"capacity" gorm:"not null;default:0"`
	Active      bool   `json:"active" gorm:"default:true;index"`

	// Relationships
	Managers   []User     `json:"managers,omitempty" gorm:"many2many:warehouse_managers;"`
	Quantities []Quantity `json:"quantities,omitempty" gorm:"foreignKey:WarehouseID"`
}
