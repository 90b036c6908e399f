package models

import "time"

// User is an actor in the back office. A user holds at most one role; direct
// permission overrides live in UserPermission and survive role changes.
type User struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	IsActive bool    `gorm:"default:true" json:"is_active"`
	RoleID   *string `gorm:"type:uuid;index" json:"role_id"`
	Role     *Role   `json:"role,omitempty"`

	Overrides []UserPermission `gorm:"foreignKey:UserID" json:"overrides,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at"`
}
