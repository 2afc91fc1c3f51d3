package models

// UserRole represents the many-to-many relationship between users and roles.
// A user may hold several roles at once; their effective permissions are the
// union of the permissions of every assigned role.
type UserRole struct {
	// UserID is the ID of the user in this assignment.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// RoleID is the ID of the role in this assignment.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, all their role assignments are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Role is the associated role (loaded via foreign key).
	// Roles referenced here cannot be deleted until the assignments are removed.
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
}

// TableName specifies the database table name for the UserRole model.
// This overrides GORM's default pluralized table naming.
func (UserRole) TableName() string {
	return "user_roles"
}
