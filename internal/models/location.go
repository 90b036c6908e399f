package models

// Location is a production site employees are attached to.
type Location struct {
	BaseModel

	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Employees []Employee `gorm:"foreignKey:LocationID" json:"employees,omitempty"`
}
