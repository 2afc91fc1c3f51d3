// Package progression computes member points, levels and badge unlocks.
//
// Points are derived on every call from the evaluation notes and the
// attendance ledger; nothing is cached or stored, so a result always
// reflects the latest committed data. Levels and badges are pure functions
// of the points total and are likewise never persisted.
package progression

import (
	"errors"
	"math"

	"gorm.io/gorm"
)

// Weights of the two point sources.
const (
	ratingWeight     = 2
	attendanceWeight = 10
)

// levelStep is the divisor of the square-root level formula: a level spans
// from (level*10)^2 to ((level+1)*10)^2 points.
const levelStep = 10

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Points computes a member's total: twice the sum of their evaluation
// ratings plus ten per attended activity.
func Points(db *gorm.DB, userID uint64) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var ratingSum int64
	err := db.Table("user_notes").
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(rating), 0)").
		Scan(&ratingSum).Error
	if err != nil {
		return 0, err
	}

	var attended int64
	err = db.Table("attendance").
		Where("user_id = ?", userID).
		Count(&attended).Error
	if err != nil {
		return 0, err
	}

	return ratingWeight*int(ratingSum) + attendanceWeight*int(attended), nil
}

// Level computes the level for a points total: floor(sqrt(points)/10),
// never below level 1. 400 points reach level 2, 900 points level 3.
func Level(points int) int {
	if points < 0 {
		return 1
	}

	level := int(math.Sqrt(float64(points))) / levelStep
	if level < 1 {
		return 1
	}

	return level
}

// NextLevelProgress reports how far into the current level band a points
// total is, as a percentage from 0 to 100.
func NextLevelProgress(points int) float64 {
	level := Level(points)

	floor := (level * levelStep) * (level * levelStep)
	ceil := ((level + 1) * levelStep) * ((level + 1) * levelStep)

	if points <= floor {
		return 0
	}
	if points >= ceil {
		return 100
	}

	return float64(points-floor) / float64(ceil-floor) * 100
}
