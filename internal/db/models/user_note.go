package models

import "time"

// UserNote is one evaluation note given to a member by an evaluator.
// Each rating point feeds 2 points into the progression engine.
type UserNote struct {
	ID uint64 `gorm:"primaryKey"`
	// UserID is the member the note is about.
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// EvaluatorID is the staff member who wrote the note.
	EvaluatorID uint64 `gorm:"column:evaluator_id;not null"`
	// EvaluationTypeID references the evaluation type the rating belongs to.
	EvaluationTypeID uint64 `gorm:"column:evaluation_type_id;not null"`
	// NoteDate is the date the evaluated behavior was observed.
	NoteDate time.Time
	// Rating within the bounds of the evaluation type.
	Rating int `gorm:"not null"`
	// Appreciation is the free-form comment accompanying the rating.
	Appreciation string `gorm:"size:1024"`
	CreatedAt    time.Time
	// User is the evaluated member (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Evaluator is the authoring staff member (loaded via foreign key).
	Evaluator User `gorm:"foreignKey:EvaluatorID;constraint:OnDelete:CASCADE"`
	// EvaluationType is the associated type (loaded via foreign key).
	EvaluationType EvaluationType `gorm:"foreignKey:EvaluationTypeID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the database table name for the UserNote model.
func (UserNote) TableName() string {
	return "user_notes"
}
