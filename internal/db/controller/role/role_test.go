package role

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserRole{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedPermissions inserts permissions into the catalog.
func seedPermissions(t *testing.T, db *gorm.DB, names []string) {
	t.Helper()
	for _, name := range names {
		err := db.Create(&models.Permission{Name: name}).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		roleName      string
		seedRoles     []string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			roleName:      "admin",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			roleName:      "",
			expectedError: ErrRoleNameEmpty,
		},
		{
			name:     "successful create",
			dbParam:  db,
			roleName: "animateur",
		},
		{
			name:          "duplicate role",
			dbParam:       db,
			roleName:      "admin",
			seedRoles:     []string{"admin"},
			expectedError: ErrRoleAlreadyExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM roles")
			}

			for _, name := range tc.seedRoles {
				require.NoError(t, tc.dbParam.Create(&models.Role{Name: name}).Error)
			}

			role, err := Create(tc.dbParam, tc.roleName, "a description")

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, role)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, role)
				assert.Equal(t, tc.roleName, role.Name)
				assert.NotZero(t, role.ID)
			}
		})
	}
}

func TestGetByName(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetByName(nil, "admin")
	require.ErrorIs(t, err, ErrDBNil)

	_, err = GetByName(db, "")
	require.ErrorIs(t, err, ErrRoleNameEmpty)

	_, err = GetByName(db, "nonexistent")
	require.ErrorIs(t, err, ErrRoleNotFound)

	created, err := Create(db, "cadet", "regular cadet")
	require.NoError(t, err)

	role, err := GetByName(db, "cadet")
	require.NoError(t, err)
	assert.Equal(t, created.ID, role.ID)
	assert.Equal(t, "regular cadet", role.Description)
}

func TestUpdatePermissions(t *testing.T) {
	testCases := []struct {
		name            string
		seedPerms       []string
		preBound        []string
		requested       []string
		expectedApplied int
		expectedSkipped []string
	}{
		{
			name:            "bind selected permissions",
			seedPerms:       []string{"manage_users", "view_activities", "manage_activities"},
			requested:       []string{"manage_users", "view_activities"},
			expectedApplied: 2,
		},
		{
			name:            "unknown names are skipped and reported",
			seedPerms:       []string{"manage_users"},
			requested:       []string{"manage_users", "no_such_permission"},
			expectedApplied: 1,
			expectedSkipped: []string{"no_such_permission"},
		},
		{
			name:            "duplicate names collapse to one binding",
			seedPerms:       []string{"manage_users", "view_activities"},
			requested:       []string{"manage_users", "view_activities", "manage_users"},
			expectedApplied: 2,
		},
		{
			name:            "replace removes previous bindings",
			seedPerms:       []string{"manage_users", "view_activities"},
			preBound:        []string{"manage_users", "view_activities"},
			requested:       []string{"view_activities"},
			expectedApplied: 1,
		},
		{
			name:            "empty request clears all bindings",
			seedPerms:       []string{"manage_users"},
			preBound:        []string{"manage_users"},
			requested:       []string{},
			expectedApplied: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			seedPermissions(t, db, tc.seedPerms)

			role, err := Create(db, "animateur", "")
			require.NoError(t, err)

			if tc.preBound != nil {
				_, err = UpdatePermissions(db, role.ID, tc.preBound)
				require.NoError(t, err)
			}

			res, err := UpdatePermissions(db, role.ID, tc.requested)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedApplied, res.Applied)
			assert.Equal(t, tc.expectedSkipped, res.SkippedUnknown)

			perms, err := GetPermissions(db, role.ID)
			require.NoError(t, err)
			assert.Len(t, perms, tc.expectedApplied)
		})
	}
}

func TestUpdatePermissionsRoleNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := UpdatePermissions(db, 999, []string{"manage_users"})
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = UpdatePermissions(nil, 1, nil)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, Delete(nil, 1), ErrDBNil)
	require.ErrorIs(t, Delete(db, 999), ErrRoleNotFound)

	seedPermissions(t, db, []string{"manage_users"})

	role, err := Create(db, "admin", "")
	require.NoError(t, err)
	_, err = UpdatePermissions(db, role.ID, []string{"manage_users"})
	require.NoError(t, err)

	// role assigned to a user cannot be deleted
	user := models.User{Email: "cadet@example.com", Active: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)

	require.ErrorIs(t, Delete(db, role.ID), ErrRoleInUse)

	// once unassigned the role and its bindings go away together
	require.NoError(t, db.Delete(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)
	require.NoError(t, Delete(db, role.ID))

	var bindings int64
	db.Model(&models.RolePermission{}).Where("role_id = ?", role.ID).Count(&bindings)
	assert.Zero(t, bindings)

	_, err = GetByID(db, role.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestIntegration(t *testing.T) {
	db := setupTestDB(t)
	seedPermissions(t, db, []string{"manage_users", "view_activities"})

	role, err := Create(db, "animateur", "staff instructor")
	require.NoError(t, err)

	all, err := GetAll(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	res, err := UpdatePermissions(db, role.ID, []string{"manage_users", "view_activities"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)
	assert.Empty(t, res.SkippedUnknown)

	perms, err := GetPermissions(db, role.ID)
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, "manage_users", perms[0].Name)

	require.NoError(t, Delete(db, role.ID))

	all, err = GetAll(db)
	require.NoError(t, err)
	assert.Empty(t, all)
}
