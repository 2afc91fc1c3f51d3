// Package role provides CRUD operations for roles and their permission bindings.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

const (
	nameQueryPattern   = "name = ?"
	roleIDQueryPattern = "role_id = ?"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when attempting to create a role with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleAlreadyExists is returned when attempting to create a role that already exists.
	ErrRoleAlreadyExists = errors.New("role already exists")
	// ErrRoleInUse is returned when attempting to delete a role still assigned to users.
	ErrRoleInUse = errors.New("role is still assigned to users")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// UpdateResult reports the outcome of a permission binding update.
// SkippedUnknown lists the requested permission names that do not exist in the
// catalog and were therefore not bound.
type UpdateResult struct {
	// Applied is the number of permissions now bound to the role.
	Applied int
	// SkippedUnknown holds the unknown permission names from the request.
	SkippedUnknown []string
}

// Create creates a new role.
func Create(db *gorm.DB, name, description string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	// Check if role already exists
	var existing models.Role
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrRoleAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	role := &models.Role{
		Name:        name,
		Description: description,
	}

	result = db.Create(role)
	if result.Error != nil {
		return nil, result.Error
	}

	return role, nil
}

// GetByName retrieves a role by its name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var role models.Role
	result := db.Where(nameQueryPattern, name).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// GetByID retrieves a role by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	result := db.First(&role, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// GetAll retrieves all roles ordered by name.
func GetAll(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	result := db.Order("name ASC").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// GetPermissions retrieves the permissions currently bound to a role.
func GetPermissions(db *gorm.DB, roleID uint) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if _, err := GetByID(db, roleID); err != nil {
		return nil, err
	}

	var perms []models.Permission
	result := db.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name ASC").
		Find(&perms)
	if result.Error != nil {
		return nil, result.Error
	}

	return perms, nil
}

// UpdatePermissions replaces the permission bindings of a role with the given
// permission names. The replace is transactional: all existing bindings are
// removed and the resolvable names are inserted, or nothing changes at all.
// Names not present in the permission catalog are not an error; they are
// reported in the result so callers can surface them.
func UpdatePermissions(db *gorm.DB, roleID uint, names []string) (*UpdateResult, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if _, err := GetByID(db, roleID); err != nil {
		return nil, err
	}

	res := &UpdateResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(roleIDQueryPattern, roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(names))

		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}

			var perm models.Permission
			result := tx.Where(nameQueryPattern, name).First(&perm)
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				res.SkippedUnknown = append(res.SkippedUnknown, name)
				continue
			}
			if result.Error != nil {
				return result.Error
			}

			binding := models.RolePermission{RoleID: roleID, PermissionID: perm.ID}
			if err := tx.Create(&binding).Error; err != nil {
				return err
			}

			res.Applied++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Delete deletes a role and its permission bindings.
// Roles still assigned to users cannot be deleted; the assignments have to be
// removed first. Returns ErrRoleInUse in that case.
func Delete(db *gorm.DB, roleID uint) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, roleID); err != nil {
		return err
	}

	var assigned int64
	result := db.Model(&models.UserRole{}).Where(roleIDQueryPattern, roleID).Count(&assigned)
	if result.Error != nil {
		return result.Error
	}
	if assigned > 0 {
		return ErrRoleInUse
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(roleIDQueryPattern, roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Role{}, roleID).Error
	})
}
