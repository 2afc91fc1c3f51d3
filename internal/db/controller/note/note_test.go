package note

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
func setupTestDB(t *testing.T) (*gorm.DB, *models.EvaluationType, *models.User, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.EvaluationType{},
		&models.UserNote{},
	)
	require.NoError(t, err, "failed to migrate test database")

	evalType := models.EvaluationType{Name: "discipline", MinRating: 1, MaxRating: 5, Active: true}
	require.NoError(t, db.Create(&evalType).Error)

	cadet := models.User{Email: "cadet@example.com", Status: models.StatusCadet, Active: true}
	require.NoError(t, db.Create(&cadet).Error)

	evaluator := models.User{Email: "staff@example.com", Status: models.StatusAnimateur, Active: true}
	require.NoError(t, db.Create(&evaluator).Error)

	return db, &evalType, &cadet, &evaluator
}

func TestAdd(t *testing.T) {
	db, evalType, cadet, evaluator := setupTestDB(t)

	inactive := models.EvaluationType{Name: "dormant", MinRating: 1, MaxRating: 5}
	require.NoError(t, db.Create(&inactive).Error)

	testCases := []struct {
		name          string
		note          models.UserNote
		expectedError error
	}{
		{
			name:          "unknown evaluation type",
			note:          models.UserNote{UserID: cadet.ID, EvaluatorID: evaluator.ID, EvaluationTypeID: 999, Rating: 3},
			expectedError: ErrTypeNotFound,
		},
		{
			name:          "inactive evaluation type",
			note:          models.UserNote{UserID: cadet.ID, EvaluatorID: evaluator.ID, EvaluationTypeID: inactive.ID, Rating: 3},
			expectedError: ErrTypeInactive,
		},
		{
			name:          "rating below bounds",
			note:          models.UserNote{UserID: cadet.ID, EvaluatorID: evaluator.ID, EvaluationTypeID: evalType.ID, Rating: 0},
			expectedError: ErrRatingOutOfBounds,
		},
		{
			name:          "rating above bounds",
			note:          models.UserNote{UserID: cadet.ID, EvaluatorID: evaluator.ID, EvaluationTypeID: evalType.ID, Rating: 6},
			expectedError: ErrRatingOutOfBounds,
		},
		{
			name: "successful add",
			note: models.UserNote{UserID: cadet.ID, EvaluatorID: evaluator.ID, EvaluationTypeID: evalType.ID, Rating: 4, Appreciation: "très bon esprit"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.note
			created, err := Add(db, &n)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				require.NotNil(t, created)
				assert.NotZero(t, created.ID)
				assert.False(t, created.NoteDate.IsZero())
			}
		})
	}
}

func TestListForUser(t *testing.T) {
	db, evalType, cadet, evaluator := setupTestDB(t)

	dates := []time.Time{
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		_, err := Add(db, &models.UserNote{
			UserID: cadet.ID, EvaluatorID: evaluator.ID,
			EvaluationTypeID: evalType.ID, Rating: 3, NoteDate: d,
		})
		require.NoError(t, err)
	}

	all, err := ListForUser(db, cadet.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, dates[2], all[0].NoteDate.UTC())

	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	march := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	ranged, err := ListForUser(db, cadet.ID, feb, march)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, dates[1], ranged[0].NoteDate.UTC())

	none, err := ListForUser(db, evaluator.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDelete(t *testing.T) {
	db, evalType, cadet, evaluator := setupTestDB(t)

	n, err := Add(db, &models.UserNote{
		UserID: cadet.ID, EvaluatorID: evaluator.ID,
		EvaluationTypeID: evalType.ID, Rating: 5,
	})
	require.NoError(t, err)

	require.ErrorIs(t, Delete(nil, n.ID, evaluator.ID), ErrDBNil)
	require.ErrorIs(t, Delete(db, 999, evaluator.ID), ErrNoteNotFound)
	require.ErrorIs(t, Delete(db, n.ID, cadet.ID), ErrNotEvaluator)

	require.NoError(t, Delete(db, n.ID, evaluator.ID))

	notes, err := ListForUser(db, cadet.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, notes)
}
