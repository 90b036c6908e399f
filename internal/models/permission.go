package models

// Permission is a named capability, e.g. "edit_shifts". The name is a stable
// identifier and is never reused; only IsActive may change once the permission
// is referenced by roles or user overrides. Deactivating a permission removes
// its effect everywhere without deleting history.
type Permission struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Group       string `gorm:"column:permission_group;index" json:"group"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`
}
