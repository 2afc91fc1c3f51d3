package progression

import (
	"gorm.io/gorm"

	"github.com/GoCadetAdmin/GoCadetAdmin/internal/db/models"
)

// UnlockedBadges retrieves the badges a points total unlocks, highest
// threshold first. A badge is unlocked when its threshold does not exceed
// the total; nothing is ever marked as awarded in the store.
func UnlockedBadges(db *gorm.DB, points int) ([]models.Badge, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var badges []models.Badge
	result := db.Where("points_required <= ?", points).
		Order("points_required DESC").
		Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}

// LockedBadges retrieves the badges still out of reach for a points total,
// nearest threshold first.
func LockedBadges(db *gorm.DB, points int) ([]models.Badge, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var badges []models.Badge
	result := db.Where("points_required > ?", points).
		Order("points_required ASC").
		Find(&badges)
	if result.Error != nil {
		return nil, result.Error
	}

	return badges, nil
}
