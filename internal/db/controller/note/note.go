// Package note provides operations for evaluation notes given to members.
package note

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

var (
	// ErrNoteNotFound is returned when a note is not found.
	ErrNoteNotFound = errors.New("note not found")
	// ErrTypeNotFound is returned when the evaluation type does not exist.
	ErrTypeNotFound = errors.New("evaluation type not found")
	// ErrTypeInactive is returned when the evaluation type is deactivated.
	ErrTypeInactive = errors.New("evaluation type is not active")
	// ErrRatingOutOfBounds is returned when the rating violates the type's bounds.
	ErrRatingOutOfBounds = errors.New("rating out of bounds for evaluation type")
	// ErrNotEvaluator is returned when someone other than the author deletes a note.
	ErrNotEvaluator = errors.New("only the evaluator can delete their note")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Add records a new evaluation note. The rating is validated against the
// bounds of the evaluation type before anything is written.
func Add(db *gorm.DB, n *models.UserNote) (*models.UserNote, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var evalType models.EvaluationType
	result := db.First(&evalType, n.EvaluationTypeID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, result.Error
	}

	if !evalType.Active {
		return nil, ErrTypeInactive
	}
	if n.Rating < evalType.MinRating || n.Rating > evalType.MaxRating {
		return nil, ErrRatingOutOfBounds
	}

	if n.NoteDate.IsZero() {
		n.NoteDate = time.Now()
	}

	result = db.Create(n)
	if result.Error != nil {
		return nil, result.Error
	}

	return n, nil
}

// ListForUser retrieves the notes of a member, newest first, optionally
// filtered by a date range. Zero times disable the respective bound.
func ListForUser(db *gorm.DB, userID uint64, from, to time.Time) ([]models.UserNote, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Where("user_id = ?", userID)
	if !from.IsZero() {
		query = query.Where("note_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("note_date <= ?", to)
	}

	var notes []models.UserNote
	result := query.Order("note_date DESC").Find(&notes)
	if result.Error != nil {
		return nil, result.Error
	}

	return notes, nil
}

// Delete removes a note. Only the evaluator who wrote it may delete it.
func Delete(db *gorm.DB, noteID, evaluatorID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var n models.UserNote
	result := db.First(&n, noteID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return result.Error
	}

	if n.EvaluatorID != evaluatorID {
		return ErrNotEvaluator
	}

	return db.Delete(&models.UserNote{}, noteID).Error
}
