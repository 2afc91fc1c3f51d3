// Package badge provides CRUD operations for the badge catalog.
package badge

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrBadgeNotFound is returned when a badge is not found.
	ErrBadgeNotFound = errors.New("badge not found")
	// ErrBadgeNameEmpty is returned when attempting to create a badge with an empty name.
	ErrBadgeNameEmpty = errors.New("badge name cannot be empty")
	// ErrBadgeAlreadyExists is returned when attempting to create a badge that already exists.
	ErrBadgeAlreadyExists = errors.New("badge already exists")
	// ErrNegativePoints is returned when the points threshold is negative.
	ErrNegativePoints = errors.New("points required cannot be negative")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create adds a badge to the catalog.
func Create(db *gorm.DB, b *models.Badge) (*models.Badge, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if b.Name == "" {
		return nil, ErrBadgeNameEmpty
	}
	if b.PointsRequired < 0 {
		return nil, ErrNegativePoints
	}

	// Check if badge already exists
	var existing models.Badge
	result := db.Where(nameQueryPattern, b.Name).First(&existing)
	if result.Error == nil {
		return nil, ErrBadgeAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	result = db.Create(b)
	if result.Error != nil {
		return nil, result.Error
	}

	return b, nil
}

// GetByID retrieves a badge by ID.
func GetByID(db *gorm.DB, id uint64) (*models.Badge, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var b models.Badge
	result := db.First(&b, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBadgeNotFound
		}
		return nil, result.Error
	}

	return &b, nil
}

// GetAll retrieves the whole catalog ordered by points threshold ascending.
func GetAll(db *gorm.DB) ([]models.Badge, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var badges []models.Badge
	result := db.Order("points_required ASC").Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}

// Update saves changes to an existing badge.
func Update(db *gorm.DB, b *models.Badge) (*models.Badge, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if b.Name == "" {
		return nil, ErrBadgeNameEmpty
	}
	if b.PointsRequired < 0 {
		return nil, ErrNegativePoints
	}

	if _, err := GetByID(db, b.ID); err != nil {
		return nil, err
	}

	result := db.Save(b)
	if result.Error != nil {
		return nil, result.Error
	}

	return b, nil
}

// Delete removes a badge from the catalog.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Badge{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBadgeNotFound
	}

	return nil
}
