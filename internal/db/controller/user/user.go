// Package user provides CRUD operations for member accounts and their role assignments.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

const (
	emailQueryPattern  = "email = ?"
	userIDQueryPattern = "user_id = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailEmpty is returned when attempting to create a user with an empty email.
	ErrEmailEmpty = errors.New("email cannot be empty")
	// ErrEmailAlreadyExists is returned when the email is already taken.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidStatus is returned when the member status is not a known one.
	ErrInvalidStatus = errors.New("invalid member status")
	// ErrRoleNotFound is returned when assigning a role that does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrSelfLink is returned when linking a parent account to itself.
	ErrSelfLink = errors.New("parent and child cannot be the same account")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new member account. The password is expected to be hashed
// already (models.HashPassword).
func Create(db *gorm.DB, user *models.User) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if user.Email == "" {
		return nil, ErrEmailEmpty
	}
	if !user.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	// Check if email is already taken
	var existing models.User
	result := db.Where(emailQueryPattern, user.Email).First(&existing)
	if result.Error == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	result = db.Omit("Roles").Create(user)
	if result.Error != nil {
		return nil, result.Error
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var user models.User
	result := db.Where(emailQueryPattern, email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetByID retrieves a user by ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetAll retrieves all users ordered by name.
func GetAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	result := db.Order("name ASC, first_name ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// GetByStatus retrieves all users with a given member status.
func GetByStatus(db *gorm.DB, status models.Status) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var users []models.User
	result := db.Where("status = ?", status).Order("name ASC, first_name ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Update saves changed profile fields of an existing user.
func Update(db *gorm.DB, user *models.User) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !user.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := GetByID(db, user.ID); err != nil {
		return nil, err
	}

	result := db.Omit("Roles").Save(user)
	if result.Error != nil {
		return nil, result.Error
	}

	return user, nil
}

// SetPassword replaces the stored password hash of a user.
func SetPassword(db *gorm.DB, userID uint64, hashedPassword string) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, userID); err != nil {
		return err
	}

	return db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// SetRoles replaces the role assignments of a user with the given role names.
// The replace is transactional; an unknown role name aborts the whole update.
func SetRoles(db *gorm.DB, userID uint64, roleNames []string) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, userID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(userIDQueryPattern, userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(roleNames))

		for _, name := range roleNames {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}

			var role models.Role
			result := tx.Where("name = ?", name).First(&role)
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			if result.Error != nil {
				return result.Error
			}

			assignment := models.UserRole{UserID: userID, RoleID: role.ID}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GetRoles retrieves the roles assigned to a user.
func GetRoles(db *gorm.DB, userID uint64) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	result := db.
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// AddChild links a child account to a parent account.
func AddChild(db *gorm.DB, parentID, childID uint64) error {
	if db == nil {
		return ErrDBNil
	}
	if parentID == childID {
		return ErrSelfLink
	}

	if _, err := GetByID(db, parentID); err != nil {
		return err
	}
	if _, err := GetByID(db, childID); err != nil {
		return err
	}

	link := models.ParentChild{ParentID: parentID, ChildID: childID}

	return db.Where(&link).FirstOrCreate(&link).Error
}

// Children retrieves the cadet accounts linked to a parent.
func Children(db *gorm.DB, parentID uint64) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var children []models.User
	result := db.
		Joins("JOIN parent_child ON parent_child.child_id = users.id").
		Where("parent_child.parent_id = ?", parentID).
		Order("users.name ASC, users.first_name ASC").
		Find(&children)
	if result.Error != nil {
		return nil, result.Error
	}

	return children, nil
}

// BulkDelete removes the given user accounts together with their role
// assignments and parent links. Attendance and notes are kept for history.
func BulkDelete(db *gorm.DB, userIDs []uint64) error {
	if db == nil {
		return ErrDBNil
	}
	if len(userIDs) == 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ?", userIDs).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id IN ? OR child_id IN ?", userIDs, userIDs).
			Delete(&models.ParentChild{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userIDs).Error
	})
}
