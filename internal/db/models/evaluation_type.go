package models

import "time"

// EvaluationType defines a category of evaluation (discipline, participation...)
// together with the rating bounds notes of this type must respect.
type EvaluationType struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Description string `gorm:"size:255"`
	MinRating   int    `gorm:"not null;default:1"`
	MaxRating   int    `gorm:"not null;default:5"`
	Active      bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the database table name for the EvaluationType model.
func (EvaluationType) TableName() string {
	return "evaluation_types"
}
