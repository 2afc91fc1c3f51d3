// Package models contains database model definitions.
package models

import "time"

// InventoryItem is one stocked equipment item (uniforms, field gear...).
type InventoryItem struct {
	ID          uint64 `gorm:"primaryKey"`
	ItemName    string `gorm:"size:255;not null"`
	Description string `gorm:"size:1024"`
	Category    string `gorm:"size:100"`
	// Quantity is the stock currently available for assignment.
	Quantity int `gorm:"not null;default:0"`
	Unit     string `gorm:"size:50"`
	// MinQuantity is the low-stock threshold used by the scheduler report.
	MinQuantity int `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the InventoryItem model.
func (InventoryItem) TableName() string {
	return "inventory"
}
