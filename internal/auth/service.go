package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// isAdministration reports whether the user carries the administration status.
// Administration accounts implicitly hold every permission; this is the only
// place where the status shortcuts the role system.
func (s *Service) isAdministration(userID uint64) (bool, error) {
	var user models.User

	err := s.db.Select("status").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load user status: %w", err)
	}

	return user.Status == models.StatusAdministration, nil
}

// HasPermission checks if a user has a specific permission.
// A user has a permission when at least one of their roles carries it, or
// when their status is administration. A user without roles simply has no
// permissions; that is not an error. Store errors propagate and never grant.
func (s *Service) HasPermission(userID uint64, permission string) (bool, error) {
	admin, err := s.isAdministration(userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	var count int64

	err = s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ? AND permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}

	return count > 0, nil
}

// HasRole checks if a user holds a specific role.
func (s *Service) HasRole(userID uint64, roleName string) (bool, error) {
	var count int64

	err := s.db.Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, roleName).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}

	return count > 0, nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) HasAnyPermission(userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return false, nil
	}

	for _, perm := range permissions {
		has, err := s.HasPermission(userID, perm)
		if err != nil {
			return false, err
		}

		if has {
			return true, nil
		}
	}

	return false, nil
}

// HasAllPermissions checks if a user has all of the given permissions.
func (s *Service) HasAllPermissions(userID uint64, permissions []string) (bool, error) {
	if len(permissions) == 0 {
		return true, nil
	}

	for _, perm := range permissions {
		has, err := s.HasPermission(userID, perm)
		if err != nil {
			return false, err
		}

		if !has {
			return false, nil
		}
	}

	return true, nil
}

// GetUserPermissions retrieves all permissions for a user as a deduplicated
// union over their roles. Administration accounts receive the full catalog.
func (s *Service) GetUserPermissions(userID uint64) ([]string, error) {
	admin, err := s.isAdministration(userID)
	if err != nil {
		return nil, err
	}

	var permissions []string

	if admin {
		err = s.db.Table("permissions").
			Order("permissions.name ASC").
			Pluck("permissions.name", &permissions).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get permission catalog: %w", err)
		}

		return permissions, nil
	}

	err = s.db.Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}

// GetUserRoles retrieves all roles assigned to a user.
func (s *Service) GetUserRoles(userID uint64) ([]models.Role, error) {
	var roles []models.Role

	err := s.db.Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return roles, nil
}
