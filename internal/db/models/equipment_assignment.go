package models

import "time"

// EquipmentAssignment records an inventory item handed out to a member.
// Assigning decrements the item stock and returning restores it; both happen
// in the same transaction as the row mutation.
type EquipmentAssignment struct {
	ID          uint64 `gorm:"primaryKey"`
	InventoryID uint64 `gorm:"column:inventory_id;not null;index"`
	UserID      uint64 `gorm:"column:user_id;not null;index"`
	Quantity    int    `gorm:"not null"`
	AssignedAt  time.Time
	// ReturnedAt is nil while the equipment is still out.
	ReturnedAt *time.Time
	// Inventory is the assigned item (loaded via foreign key).
	Inventory InventoryItem `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE"`
	// User is the member holding the equipment (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the EquipmentAssignment model.
func (EquipmentAssignment) TableName() string {
	return "equipment_assignments"
}
