package models

// Brand is a product line employees work against.
type Brand struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Employees []Employee `gorm:"foreignKey:BrandID" json:"employees,omitempty"`
}
