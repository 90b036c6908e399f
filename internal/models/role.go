package models

// Role bundles permissions under a unique name. Level orders roles for
// listings only; permission resolution never consults it. Deactivating a role
// disables every grant it confers while keeping the associations intact.
type Role struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Level       int    `gorm:"default:0;index" json:"level"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}
