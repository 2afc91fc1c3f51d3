// Package evaluationtype provides CRUD operations for evaluation type definitions.
package evaluationtype

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrTypeNotFound is returned when an evaluation type is not found.
	ErrTypeNotFound = errors.New("evaluation type not found")
	// ErrTypeNameEmpty is returned when attempting to create a type with an empty name.
	ErrTypeNameEmpty = errors.New("evaluation type name cannot be empty")
	// ErrTypeAlreadyExists is returned when attempting to create a type that already exists.
	ErrTypeAlreadyExists = errors.New("evaluation type already exists")
	// ErrInvalidRatingBounds is returned when min rating exceeds max rating.
	ErrInvalidRatingBounds = errors.New("min rating cannot exceed max rating")
	// ErrTypeInUse is returned when deleting a type that still has notes.
	ErrTypeInUse = errors.New("evaluation type is still used by notes")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new evaluation type.
func Create(db *gorm.DB, evalType *models.EvaluationType) (*models.EvaluationType, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if evalType.Name == "" {
		return nil, ErrTypeNameEmpty
	}
	if evalType.MinRating > evalType.MaxRating {
		return nil, ErrInvalidRatingBounds
	}

	// Check if type already exists
	var existing models.EvaluationType
	result := db.Where(nameQueryPattern, evalType.Name).First(&existing)
	if result.Error == nil {
		return nil, ErrTypeAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	result = db.Create(evalType)
	if result.Error != nil {
		return nil, result.Error
	}

	return evalType, nil
}

// GetByID retrieves an evaluation type by ID.
func GetByID(db *gorm.DB, id uint64) (*models.EvaluationType, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var evalType models.EvaluationType
	result := db.First(&evalType, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, result.Error
	}

	return &evalType, nil
}

// GetByName retrieves an evaluation type by name.
func GetByName(db *gorm.DB, name string) (*models.EvaluationType, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrTypeNameEmpty
	}

	var evalType models.EvaluationType
	result := db.Where(nameQueryPattern, name).First(&evalType)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, result.Error
	}

	return &evalType, nil
}

// GetAll retrieves all evaluation types ordered by name.
func GetAll(db *gorm.DB) ([]models.EvaluationType, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var types []models.EvaluationType
	result := db.Order("name ASC").Find(&types)
	if result.Error != nil {
		return nil, result.Error
	}

	return types, nil
}

// GetActive retrieves the active evaluation types ordered by name.
func GetActive(db *gorm.DB) ([]models.EvaluationType, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var types []models.EvaluationType
	result := db.Where("active = ?", true).Order("name ASC").Find(&types)
	if result.Error != nil {
		return nil, result.Error
	}

	return types, nil
}

// Update saves changes to an existing evaluation type.
func Update(db *gorm.DB, evalType *models.EvaluationType) (*models.EvaluationType, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if evalType.Name == "" {
		return nil, ErrTypeNameEmpty
	}
	if evalType.MinRating > evalType.MaxRating {
		return nil, ErrInvalidRatingBounds
	}

	if _, err := GetByID(db, evalType.ID); err != nil {
		return nil, err
	}

	result := db.Save(evalType)
	if result.Error != nil {
		return nil, result.Error
	}

	return evalType, nil
}

// Delete deletes an evaluation type. Types still referenced by notes cannot
// be deleted; deactivate them instead.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, id); err != nil {
		return err
	}

	var used int64
	result := db.Model(&models.UserNote{}).Where("evaluation_type_id = ?", id).Count(&used)
	if result.Error != nil {
		return result.Error
	}
	if used > 0 {
		return ErrTypeInUse
	}

	return db.Delete(&models.EvaluationType{}, id).Error
}
