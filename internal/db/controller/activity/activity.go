// Package activity provides CRUD operations for activities, their required
// equipment and the QR based attendance ledger.
package activity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

const (
	activityIDQueryPattern = "activity_id = ?"
)

var (
	// ErrActivityNotFound is returned when an activity is not found.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrActivityNameEmpty is returned when attempting to create an activity with an empty name.
	ErrActivityNameEmpty = errors.New("activity name cannot be empty")
	// ErrInvalidQRCode is returned when the presented QR token does not match the activity.
	ErrInvalidQRCode = errors.New("invalid QR code for this activity")
	// ErrActivityFull is returned when the activity reached its participant limit.
	ErrActivityFull = errors.New("activity has reached its participant limit")
	// ErrAlreadyCheckedIn is returned when a member tries to check in twice.
	ErrAlreadyCheckedIn = errors.New("member already checked in")
	// ErrNotCheckedIn is returned when checking out without a prior check-in.
	ErrNotCheckedIn = errors.New("member has not checked in")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create creates a new activity and generates its entry and exit QR tokens.
func Create(db *gorm.DB, activity *models.Activity) (*models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if activity.Name == "" {
		return nil, ErrActivityNameEmpty
	}

	activity.EntryQRCode = uuid.NewString()
	activity.ExitQRCode = uuid.NewString()

	result := db.Create(activity)
	if result.Error != nil {
		return nil, result.Error
	}

	return activity, nil
}

// GetByID retrieves an activity by ID.
func GetByID(db *gorm.DB, id uint64) (*models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var activity models.Activity
	result := db.First(&activity, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, result.Error
	}

	return &activity, nil
}

// GetAll retrieves all activities ordered by date, newest first.
func GetAll(db *gorm.DB) ([]models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var activities []models.Activity
	result := db.Order("date DESC").Find(&activities)
	if result.Error != nil {
		return nil, result.Error
	}

	return activities, nil
}

// GetUpcoming retrieves activities on or after the given day, soonest first.
func GetUpcoming(db *gorm.DB, from time.Time, limit int) ([]models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var activities []models.Activity
	query := db.Where("date >= ?", from).Order("date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&activities)
	if result.Error != nil {
		return nil, result.Error
	}

	return activities, nil
}

// Update saves changed fields of an existing activity.
// The QR tokens generated at creation are kept as they are.
func Update(db *gorm.DB, activity *models.Activity) (*models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if activity.Name == "" {
		return nil, ErrActivityNameEmpty
	}

	existing, err := GetByID(db, activity.ID)
	if err != nil {
		return nil, err
	}

	activity.EntryQRCode = existing.EntryQRCode
	activity.ExitQRCode = existing.ExitQRCode

	result := db.Save(activity)
	if result.Error != nil {
		return nil, result.Error
	}

	return activity, nil
}

// Delete deletes an activity together with its attendance rows and equipment
// requirements.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(activityIDQueryPattern, id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where(activityIDQueryPattern, id).Delete(&models.ActivityEquipment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Activity{}, id).Error
	})
}

// UpdateEquipment replaces the required equipment of an activity with the
// given inventory item IDs. Transactional delete-all/insert-selected.
func UpdateEquipment(db *gorm.DB, activityID uint64, inventoryIDs []uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := GetByID(db, activityID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(activityIDQueryPattern, activityID).
			Delete(&models.ActivityEquipment{}).Error; err != nil {
			return err
		}

		for _, invID := range inventoryIDs {
			req := models.ActivityEquipment{ActivityID: activityID, InventoryID: invID}
			if err := tx.Create(&req).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GetEquipment retrieves the inventory items required for an activity.
func GetEquipment(db *gorm.DB, activityID uint64) ([]models.InventoryItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var items []models.InventoryItem
	result := db.
		Joins("JOIN activity_equipment ON activity_equipment.inventory_id = inventory.id").
		Where("activity_equipment.activity_id = ?", activityID).
		Order("inventory.item_name ASC").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

// CheckIn records a member's arrival at an activity.
// The presented token must match the activity's entry QR code. Capacity and
// per-member uniqueness are enforced; the attendance row feeds the points
// engine once written.
func CheckIn(db *gorm.DB, activityID, userID uint64, qrToken string) (*models.Attendance, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	activity, err := GetByID(db, activityID)
	if err != nil {
		return nil, err
	}

	if qrToken == "" || qrToken != activity.EntryQRCode {
		return nil, ErrInvalidQRCode
	}

	var attendance *models.Attendance

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.Attendance
		result := tx.Where("activity_id = ? AND user_id = ?", activityID, userID).First(&existing)
		if result.Error == nil {
			return ErrAlreadyCheckedIn
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		if activity.MaxParticipants > 0 {
			var present int64
			if err := tx.Model(&models.Attendance{}).
				Where(activityIDQueryPattern, activityID).
				Count(&present).Error; err != nil {
				return err
			}
			if present >= int64(activity.MaxParticipants) {
				return ErrActivityFull
			}
		}

		attendance = &models.Attendance{
			ActivityID:  activityID,
			UserID:      userID,
			CheckInTime: time.Now(),
			QRCodeData:  qrToken,
		}

		return tx.Create(attendance).Error
	})
	if err != nil {
		return nil, err
	}

	return attendance, nil
}

// CheckOut records a member's departure from an activity.
// The presented token must match the activity's exit QR code and the member
// must have checked in before.
func CheckOut(db *gorm.DB, activityID, userID uint64, qrToken string) (*models.Attendance, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	activity, err := GetByID(db, activityID)
	if err != nil {
		return nil, err
	}

	if qrToken == "" || qrToken != activity.ExitQRCode {
		return nil, ErrInvalidQRCode
	}

	var attendance models.Attendance
	result := db.Where("activity_id = ? AND user_id = ?", activityID, userID).First(&attendance)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotCheckedIn
		}
		return nil, result.Error
	}

	now := time.Now()
	attendance.CheckOutTime = &now

	result = db.Save(&attendance)
	if result.Error != nil {
		return nil, result.Error
	}

	return &attendance, nil
}

// GetAttendance retrieves the attendance rows of an activity.
func GetAttendance(db *gorm.DB, activityID uint64) ([]models.Attendance, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if _, err := GetByID(db, activityID); err != nil {
		return nil, err
	}

	var rows []models.Attendance
	result := db.Where(activityIDQueryPattern, activityID).
		Order("check_in_time ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
