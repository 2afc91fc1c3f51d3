package auth

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

// seedRole creates a role carrying the given permissions, creating any
// missing permission on the fly.
func seedRole(t *testing.T, db *gorm.DB, roleName string, permNames ...string) *models.Role {
	t.Helper()

	role := models.Role{Name: roleName}
	require.NoError(t, db.Create(&role).Error)

	for _, name := range permNames {
		var perm models.Permission
		require.NoError(t, db.Where("name = ?", name).
			FirstOrCreate(&perm, models.Permission{Name: name}).Error)
		require.NoError(t, db.Create(&models.RolePermission{
			RoleID: role.ID, PermissionID: perm.ID,
		}).Error)
	}

	return &role
}

func seedUser(t *testing.T, db *gorm.DB, email string, status models.Status, roles ...*models.Role) *models.User {
	t.Helper()

	user := models.User{Email: email, Status: status, Active: true}
	require.NoError(t, db.Create(&user).Error)

	for _, role := range roles {
		require.NoError(t, db.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)
	}

	return &user
}

func TestHasPermission(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	animateur := seedRole(t, db, "animateur", PermManageActivities, PermViewReports)
	cadetRole := seedRole(t, db, "cadet", PermScanQRCodes)

	staff := seedUser(t, db, "staff@example.com", models.StatusAnimateur, animateur)
	cadet := seedUser(t, db, "cadet@example.com", models.StatusCadet, cadetRole)
	noRoles := seedUser(t, db, "lost@example.com", models.StatusCadet)

	testCases := []struct {
		name       string
		userID     uint64
		permission string
		expected   bool
	}{
		{"granted through role", staff.ID, PermManageActivities, true},
		{"not granted", staff.ID, PermManageUsers, false},
		{"granted to other role only", cadet.ID, PermManageActivities, false},
		{"user without roles has nothing", noRoles.ID, PermScanQRCodes, false},
		{"unknown user has nothing", 9999, PermScanQRCodes, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			has, err := service.HasPermission(tc.userID, tc.permission)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, has)
		})
	}
}

func TestAdministrationStatusGrantsEverything(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	require.NoError(t, db.Create(&models.Permission{Name: PermManageUsers}).Error)
	require.NoError(t, db.Create(&models.Permission{Name: PermManageRoles}).Error)

	// no roles at all, the status alone carries the grant
	admin := seedUser(t, db, "admin@admin.com", models.StatusAdministration)

	for _, perm := range []string{PermManageUsers, PermManageRoles, "anything_at_all"} {
		has, err := service.HasPermission(admin.ID, perm)
		require.NoError(t, err)
		assert.True(t, has, "administration status must grant %q", perm)
	}

	perms, err := service.GetUserPermissions(admin.ID)
	require.NoError(t, err)
	// the full catalog, not the (empty) role union
	assert.Equal(t, []string{PermManageRoles, PermManageUsers}, perms)
}

func TestAdditivity(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	r1 := seedRole(t, db, "r1", PermManageActivities)
	r2 := seedRole(t, db, "r2", PermViewReports)

	user := seedUser(t, db, "both@example.com", models.StatusAnimateur, r1, r2)

	// holding both roles grants the union
	for _, perm := range []string{PermManageActivities, PermViewReports} {
		has, err := service.HasPermission(user.ID, perm)
		require.NoError(t, err)
		assert.True(t, has)
	}

	// removing r1 leaves only r2's grant
	require.NoError(t, db.Delete(&models.UserRole{UserID: user.ID, RoleID: r1.ID}).Error)

	has, err := service.HasPermission(user.ID, PermManageActivities)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = service.HasPermission(user.ID, PermViewReports)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	animateur := seedRole(t, db, "animateur", PermManageActivities, PermViewReports)
	user := seedUser(t, db, "staff@example.com", models.StatusAnimateur, animateur)

	has, err := service.HasAnyPermission(user.ID, []string{PermManageUsers, PermViewReports})
	require.NoError(t, err)
	assert.True(t, has)

	has, err = service.HasAnyPermission(user.ID, []string{PermManageUsers, PermManageRoles})
	require.NoError(t, err)
	assert.False(t, has)

	has, err = service.HasAnyPermission(user.ID, nil)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = service.HasAllPermissions(user.ID, []string{PermManageActivities, PermViewReports})
	require.NoError(t, err)
	assert.True(t, has)

	has, err = service.HasAllPermissions(user.ID, []string{PermManageActivities, PermManageUsers})
	require.NoError(t, err)
	assert.False(t, has)

	has, err = service.HasAllPermissions(user.ID, nil)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetUserPermissionsDeduplicates(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	// both roles carry view_reports, the union collapses it
	r1 := seedRole(t, db, "r1", PermManageActivities, PermViewReports)
	r2 := seedRole(t, db, "r2", PermViewReports)

	user := seedUser(t, db, "both@example.com", models.StatusAnimateur, r1, r2)

	perms, err := service.GetUserPermissions(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{PermManageActivities, PermViewReports}, perms)
}

func TestHasRoleAndGetUserRoles(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	animateur := seedRole(t, db, "animateur")
	cadetRole := seedRole(t, db, "cadet")

	user := seedUser(t, db, "staff@example.com", models.StatusAnimateur, animateur, cadetRole)

	has, err := service.HasRole(user.ID, "animateur")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = service.HasRole(user.ID, "admin")
	require.NoError(t, err)
	assert.False(t, has)

	roles, err := service.GetUserRoles(user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "animateur", roles[0].Name)
	assert.Equal(t, "cadet", roles[1].Name)
}

func TestLocalProviderAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	created, err := provider.CreateUser("jean@example.com", "s3cret", "Dupont", "Jean", models.StatusCadet)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = provider.CreateUser("jean@example.com", "other", "Dupont", "Jean", models.StatusCadet)
	require.ErrorIs(t, err, ErrEmailExists)

	_, err = provider.Authenticate("nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = provider.Authenticate("jean@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	user, err := provider.Authenticate("jean@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	require.NoError(t, provider.DeactivateUser(created.ID))
	_, err = provider.Authenticate("jean@example.com", "s3cret")
	require.ErrorIs(t, err, ErrUserAccountDisabled)

	require.NoError(t, provider.ActivateUser(created.ID))

	require.ErrorIs(t, provider.ChangePassword(created.ID, "wrong", "newpass"), ErrInvalidOldPassword)
	require.NoError(t, provider.ChangePassword(created.ID, "s3cret", "newpass"))

	_, err = provider.Authenticate("jean@example.com", "newpass")
	require.NoError(t, err)
}
