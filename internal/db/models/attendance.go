package models

import "time"

// Attendance records one member's presence at one activity.
// The table is an append-only ledger: each row feeds 10 points into the
// progression engine, so rows are never rewritten once created.
type Attendance struct {
	ID uint64 `gorm:"primaryKey"`
	// ActivityID and UserID form a unique pair; a member checks in at most once.
	ActivityID uint64 `gorm:"column:activity_id;not null;uniqueIndex:idx_attendance_activity_user"`
	UserID     uint64 `gorm:"column:user_id;not null;uniqueIndex:idx_attendance_activity_user"`
	// CheckInTime is when the entry QR code was scanned.
	CheckInTime time.Time
	// CheckOutTime is when the exit QR code was scanned, nil while on site.
	CheckOutTime *time.Time
	// QRCodeData is the raw token presented at check-in.
	QRCodeData string `gorm:"size:64"`
	// Activity is the associated activity (loaded via foreign key).
	Activity Activity `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	// User is the associated member (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the Attendance model.
func (Attendance) TableName() string {
	return "attendance"
}
