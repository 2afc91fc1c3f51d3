package models

import "time"

// Badge is one entry of the badge catalog. Badges are never persisted as
// awarded; whether a member holds a badge is recomputed from their points on
// every query.
type Badge struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Description string `gorm:"size:255"`
	// IconName is the name of the icon rendered next to the badge.
	IconName string `gorm:"size:100"`
	// PointsRequired is the points threshold at which the badge unlocks.
	PointsRequired int `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the database table name for the Badge model.
func (Badge) TableName() string {
	return "badges"
}
