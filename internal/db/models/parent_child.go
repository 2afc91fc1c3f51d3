package models

// ParentChild links a parent account to a cadet account.
// Parents can view the progression of their linked children.
type ParentChild struct {
	// ParentID is the ID of the parent user.
	ParentID uint64 `gorm:"primaryKey;column:parent_id"`
	// ChildID is the ID of the cadet user.
	ChildID uint64 `gorm:"primaryKey;column:child_id"`
	// Parent is the associated parent user (loaded via foreign key).
	Parent User `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	// Child is the associated cadet user (loaded via foreign key).
	Child User `gorm:"foreignKey:ChildID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the ParentChild model.
func (ParentChild) TableName() string {
	return "parent_child"
}
