package models

import "time"

// Activity represents a planned activity (training day, outing, ceremony).
// Attendance is recorded against activities via QR code scans; the entry and
// exit codes are opaque random tokens generated when the activity is created.
type Activity struct {
	ID              uint64 `gorm:"primaryKey"`
	Name            string `gorm:"size:255;not null"`
	Description     string `gorm:"size:1024"`
	Date            time.Time
	StartTime       string `gorm:"size:10"`
	EndTime         string `gorm:"size:10"`
	Location        string `gorm:"size:255"`
	MaxParticipants int
	// LunchIncluded and DinnerIncluded flag whether meals are provided.
	LunchIncluded  bool
	DinnerIncluded bool
	// EntryQRCode is the token cadets scan to check in.
	EntryQRCode string `gorm:"size:64;unique"`
	// ExitQRCode is the token cadets scan to check out.
	ExitQRCode string `gorm:"size:64;unique"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the database table name for the Activity model.
func (Activity) TableName() string {
	return "activities"
}

// ActivityEquipment maps required inventory items onto an activity.
type ActivityEquipment struct {
	ActivityID  uint64 `gorm:"primaryKey;column:activity_id"`
	InventoryID uint64 `gorm:"primaryKey;column:inventory_id"`
	// Activity is the associated activity (loaded via foreign key).
	Activity Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	// Inventory is the associated inventory item (loaded via foreign key).
	Inventory InventoryItem `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the ActivityEquipment model.
func (ActivityEquipment) TableName() string {
	return "activity_equipment"
}
