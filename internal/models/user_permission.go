package models

import "time"

// UserPermission is a per-user permission override. Granted=true adds the
// permission even when the role lacks it; Granted=false suppresses a
// role-derived grant. At most one row exists per (user, permission) pair;
// writes use upsert semantics so a new override replaces the previous one.
type UserPermission struct {
	UserID       string `gorm:"primaryKey;type:uuid" json:"user_id"`
	PermissionID string `gorm:"primaryKey;type:uuid" json:"permission_id"`

	Granted     bool      `gorm:"not null" json:"granted"`
	GrantedAt   time.Time `json:"granted_at"`
	GrantedByID *string   `gorm:"type:uuid;index" json:"granted_by_id"`

	Permission *Permission `gorm:"foreignKey:PermissionID" json:"permission,omitempty"`
}

// TableName overrides the default table name for GORM.
func (UserPermission) TableName() string {
	return "user_permissions"
}
