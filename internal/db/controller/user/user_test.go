package user

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
		&models.UserRole{},
		&models.ParentChild{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newCadet(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	u, err := Create(db, &models.User{
		Email:      email,
		Name:       "Dupont",
		FirstName:  "Jean",
		Status:     models.StatusCadet,
		Active:     true,
		AuthSource: models.AuthSourceLocal,
	})
	require.NoError(t, err)

	return u
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		user          models.User
		seedEmails    []string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			user:          models.User{Email: "a@b.c", Status: models.StatusCadet},
			expectedError: ErrDBNil,
		},
		{
			name:          "empty email",
			dbParam:       db,
			user:          models.User{Status: models.StatusCadet},
			expectedError: ErrEmailEmpty,
		},
		{
			name:          "invalid status",
			dbParam:       db,
			user:          models.User{Email: "a@b.c", Status: "visitor"},
			expectedError: ErrInvalidStatus,
		},
		{
			name:    "successful create",
			dbParam: db,
			user:    models.User{Email: "jean@example.com", Status: models.StatusCadet},
		},
		{
			name:          "duplicate email",
			dbParam:       db,
			user:          models.User{Email: "jean@example.com", Status: models.StatusCadet},
			seedEmails:    []string{"jean@example.com"},
			expectedError: ErrEmailAlreadyExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM users")
			}

			for _, email := range tc.seedEmails {
				require.NoError(t, tc.dbParam.Create(&models.User{Email: email, Status: models.StatusCadet}).Error)
			}

			user := tc.user
			created, err := Create(tc.dbParam, &user)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, created)
				assert.NotZero(t, created.ID)
			}
		})
	}
}

func TestGetByEmail(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetByEmail(nil, "a@b.c")
	require.ErrorIs(t, err, ErrDBNil)

	_, err = GetByEmail(db, "")
	require.ErrorIs(t, err, ErrEmailEmpty)

	_, err = GetByEmail(db, "nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)

	created := newCadet(t, db, "jean@example.com")

	user, err := GetByEmail(db, "jean@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "Dupont", user.Name)
}

func TestSetRoles(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.Role{Name: "cadet"}).Error)
	require.NoError(t, db.Create(&models.Role{Name: "AMC"}).Error)

	u := newCadet(t, db, "jean@example.com")

	require.ErrorIs(t, SetRoles(nil, u.ID, nil), ErrDBNil)
	require.ErrorIs(t, SetRoles(db, 999, []string{"cadet"}), ErrUserNotFound)

	// unknown role aborts the whole replace
	err := SetRoles(db, u.ID, []string{"cadet", "no_such_role"})
	require.ErrorIs(t, err, ErrRoleNotFound)

	roles, err := GetRoles(db, u.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	// duplicates collapse to a single assignment
	require.NoError(t, SetRoles(db, u.ID, []string{"cadet", "AMC", "cadet"}))

	roles, err = GetRoles(db, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "AMC", roles[0].Name)
	assert.Equal(t, "cadet", roles[1].Name)

	// replace drops the previous assignments
	require.NoError(t, SetRoles(db, u.ID, []string{"cadet"}))

	roles, err = GetRoles(db, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "cadet", roles[0].Name)
}

func TestParentChildren(t *testing.T) {
	db := setupTestDB(t)

	parent, err := Create(db, &models.User{Email: "parent@example.com", Status: models.StatusParent, Active: true})
	require.NoError(t, err)
	child := newCadet(t, db, "child@example.com")

	require.ErrorIs(t, AddChild(db, parent.ID, parent.ID), ErrSelfLink)
	require.ErrorIs(t, AddChild(db, 999, child.ID), ErrUserNotFound)

	require.NoError(t, AddChild(db, parent.ID, child.ID))
	// linking twice is a no-op
	require.NoError(t, AddChild(db, parent.ID, child.ID))

	children, err := Children(db, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	// a user without links has no children
	children, err = Children(db, child.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestBulkDelete(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.Role{Name: "cadet"}).Error)

	parent, err := Create(db, &models.User{Email: "parent@example.com", Status: models.StatusParent, Active: true})
	require.NoError(t, err)
	childOne := newCadet(t, db, "one@example.com")
	childTwo := newCadet(t, db, "two@example.com")

	require.NoError(t, SetRoles(db, childOne.ID, []string{"cadet"}))
	require.NoError(t, AddChild(db, parent.ID, childOne.ID))
	require.NoError(t, AddChild(db, parent.ID, childTwo.ID))

	require.ErrorIs(t, BulkDelete(nil, []uint64{childOne.ID}), ErrDBNil)
	require.NoError(t, BulkDelete(db, nil))

	require.NoError(t, BulkDelete(db, []uint64{childOne.ID, childTwo.ID}))

	_, err = GetByID(db, childOne.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	var assignments int64
	db.Model(&models.UserRole{}).Where("user_id = ?", childOne.ID).Count(&assignments)
	assert.Zero(t, assignments)

	children, err := Children(db, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestUpdateAndPassword(t *testing.T) {
	db := setupTestDB(t)

	u := newCadet(t, db, "jean@example.com")

	u.Rank = "sergent"
	u.Status = models.StatusAMC
	updated, err := Update(db, u)
	require.NoError(t, err)
	assert.Equal(t, "sergent", updated.Rank)

	u.Status = "visitor"
	_, err = Update(db, u)
	require.ErrorIs(t, err, ErrInvalidStatus)

	require.ErrorIs(t, SetPassword(db, 999, "hash"), ErrUserNotFound)
	require.NoError(t, SetPassword(db, u.ID, models.HashPassword("s3cret")))

	reloaded, err := GetByID(db, u.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.VerifyPassword("s3cret"))
	assert.False(t, reloaded.VerifyPassword("wrong"))
}
