// Package permission provides read and seed operations for the permission catalog.
package permission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrPermissionNameEmpty is returned when attempting to create a permission with an empty name.
	ErrPermissionNameEmpty = errors.New("permission name cannot be empty")
	// ErrPermissionAlreadyExists is returned when attempting to create a permission that already exists.
	ErrPermissionAlreadyExists = errors.New("permission already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a permission by its name.
func Get(db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrPermissionNameEmpty
	}

	var perm models.Permission
	result := db.Where(nameQueryPattern, name).First(&perm)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, result.Error
	}

	return &perm, nil
}

// GetAll retrieves all permissions ordered by name.
func GetAll(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perms []models.Permission
	result := db.Order("name ASC").Find(&perms)
	if result.Error != nil {
		return nil, result.Error
	}

	return perms, nil
}

// Create creates a new permission in the catalog.
func Create(db *gorm.DB, name, description string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrPermissionNameEmpty
	}

	// Check if permission already exists
	var existing models.Permission
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrPermissionAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	perm := &models.Permission{
		Name:        name,
		Description: description,
	}

	result = db.Create(perm)
	if result.Error != nil {
		return nil, result.Error
	}

	return perm, nil
}

// Ensure creates the permission if it does not exist yet and returns it.
// Used by the startup seeder; safe to call repeatedly.
func Ensure(db *gorm.DB, name, description string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrPermissionNameEmpty
	}

	var perm models.Permission
	result := db.Where(nameQueryPattern, name).First(&perm)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Create(db, name, description)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &perm, nil
}
