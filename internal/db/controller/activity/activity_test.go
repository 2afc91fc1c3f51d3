package activity

import (
	"testing"
	"time"

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
		&models.Activity{},
		&models.Attendance{},
		&models.InventoryItem{},
		&models.ActivityEquipment{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newActivity(t *testing.T, db *gorm.DB, name string, maxParticipants int) *models.Activity {
	t.Helper()

	a, err := Create(db, &models.Activity{
		Name:            name,
		Date:            time.Now().AddDate(0, 0, 7),
		MaxParticipants: maxParticipants,
	})
	require.NoError(t, err)

	return a
}

func newUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	u := models.User{Email: email, Status: models.StatusCadet, Active: true}
	require.NoError(t, db.Create(&u).Error)

	return &u
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(nil, &models.Activity{Name: "x"})
	require.ErrorIs(t, err, ErrDBNil)

	_, err = Create(db, &models.Activity{})
	require.ErrorIs(t, err, ErrActivityNameEmpty)

	a := newActivity(t, db, "Journée terrain", 0)
	assert.NotZero(t, a.ID)
	assert.NotEmpty(t, a.EntryQRCode)
	assert.NotEmpty(t, a.ExitQRCode)
	assert.NotEqual(t, a.EntryQRCode, a.ExitQRCode)
}

func TestUpdateKeepsTokens(t *testing.T) {
	db := setupTestDB(t)

	a := newActivity(t, db, "Cérémonie", 0)
	entry, exit := a.EntryQRCode, a.ExitQRCode

	a.Location = "Caserne Mellinet"
	a.EntryQRCode = "tampered"
	updated, err := Update(db, a)
	require.NoError(t, err)
	assert.Equal(t, entry, updated.EntryQRCode)
	assert.Equal(t, exit, updated.ExitQRCode)
	assert.Equal(t, "Caserne Mellinet", updated.Location)

	a.ID = 999
	_, err = Update(db, a)
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestCheckIn(t *testing.T) {
	db := setupTestDB(t)

	a := newActivity(t, db, "Sortie voile", 2)
	u := newUser(t, db, "cadet@example.com")

	testCases := []struct {
		name          string
		activityID    uint64
		userID        uint64
		token         string
		expectedError error
	}{
		{
			name:          "unknown activity",
			activityID:    999,
			userID:        u.ID,
			token:         a.EntryQRCode,
			expectedError: ErrActivityNotFound,
		},
		{
			name:          "empty token",
			activityID:    a.ID,
			userID:        u.ID,
			token:         "",
			expectedError: ErrInvalidQRCode,
		},
		{
			name:          "exit token rejected at entry",
			activityID:    a.ID,
			userID:        u.ID,
			token:         a.ExitQRCode,
			expectedError: ErrInvalidQRCode,
		},
		{
			name:       "successful check in",
			activityID: a.ID,
			userID:     u.ID,
			token:      a.EntryQRCode,
		},
		{
			name:          "double check in rejected",
			activityID:    a.ID,
			userID:        u.ID,
			token:         a.EntryQRCode,
			expectedError: ErrAlreadyCheckedIn,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			attendance, err := CheckIn(db, tc.activityID, tc.userID, tc.token)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, attendance)
			} else {
				require.NoError(t, err)
				require.NotNil(t, attendance)
				assert.Equal(t, tc.userID, attendance.UserID)
				assert.False(t, attendance.CheckInTime.IsZero())
				assert.Nil(t, attendance.CheckOutTime)
			}
		})
	}
}

func TestCheckInCapacity(t *testing.T) {
	db := setupTestDB(t)

	a := newActivity(t, db, "Sortie voile", 2)
	one := newUser(t, db, "one@example.com")
	two := newUser(t, db, "two@example.com")
	three := newUser(t, db, "three@example.com")

	_, err := CheckIn(db, a.ID, one.ID, a.EntryQRCode)
	require.NoError(t, err)
	_, err = CheckIn(db, a.ID, two.ID, a.EntryQRCode)
	require.NoError(t, err)

	_, err = CheckIn(db, a.ID, three.ID, a.EntryQRCode)
	require.ErrorIs(t, err, ErrActivityFull)

	// no participant limit means no capacity check
	open := newActivity(t, db, "Cérémonie", 0)
	_, err = CheckIn(db, open.ID, three.ID, open.EntryQRCode)
	require.NoError(t, err)
}

func TestCheckOut(t *testing.T) {
	db := setupTestDB(t)

	a := newActivity(t, db, "Journée terrain", 0)
	u := newUser(t, db, "cadet@example.com")

	_, err := CheckOut(db, a.ID, u.ID, a.ExitQRCode)
	require.ErrorIs(t, err, ErrNotCheckedIn)

	_, err = CheckIn(db, a.ID, u.ID, a.EntryQRCode)
	require.NoError(t, err)

	_, err = CheckOut(db, a.ID, u.ID, a.EntryQRCode)
	require.ErrorIs(t, err, ErrInvalidQRCode)

	attendance, err := CheckOut(db, a.ID, u.ID, a.ExitQRCode)
	require.NoError(t, err)
	require.NotNil(t, attendance.CheckOutTime)

	rows, err := GetAttendance(db, a.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotNil(t, rows[0].CheckOutTime)
}

func TestEquipment(t *testing.T) {
	db := setupTestDB(t)

	a := newActivity(t, db, "Bivouac", 0)

	tent := models.InventoryItem{ItemName: "Tente", Quantity: 4}
	compass := models.InventoryItem{ItemName: "Boussole", Quantity: 10}
	require.NoError(t, db.Create(&tent).Error)
	require.NoError(t, db.Create(&compass).Error)

	require.ErrorIs(t, UpdateEquipment(db, 999, nil), ErrActivityNotFound)

	require.NoError(t, UpdateEquipment(db, a.ID, []uint64{tent.ID, compass.ID}))

	items, err := GetEquipment(db, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Boussole", items[0].ItemName)

	// replacing drops items no longer required
	require.NoError(t, UpdateEquipment(db, a.ID, []uint64{tent.ID}))

	items, err = GetEquipment(db, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tente", items[0].ItemName)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	require.ErrorIs(t, Delete(db, 999), ErrActivityNotFound)

	a := newActivity(t, db, "Journée terrain", 0)
	u := newUser(t, db, "cadet@example.com")

	_, err := CheckIn(db, a.ID, u.ID, a.EntryQRCode)
	require.NoError(t, err)

	require.NoError(t, Delete(db, a.ID))

	_, err = GetByID(db, a.ID)
	require.ErrorIs(t, err, ErrActivityNotFound)

	var rows int64
	db.Model(&models.Attendance{}).Where("activity_id = ?", a.ID).Count(&rows)
	assert.Zero(t, rows)
}

func TestGetUpcoming(t *testing.T) {
	db := setupTestDB(t)

	now := time.Now()

	past, err := Create(db, &models.Activity{Name: "Past", Date: now.AddDate(0, 0, -7)})
	require.NoError(t, err)
	soon, err := Create(db, &models.Activity{Name: "Soon", Date: now.AddDate(0, 0, 2)})
	require.NoError(t, err)
	later, err := Create(db, &models.Activity{Name: "Later", Date: now.AddDate(0, 1, 0)})
	require.NoError(t, err)

	upcoming, err := GetUpcoming(db, now, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, soon.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)

	limited, err := GetUpcoming(db, now, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, soon.ID, limited[0].ID)

	all, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, past.ID, all[2].ID)
}
