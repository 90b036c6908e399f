package models

import "time"

// Employee statuses.
const (
	EmployeeStatusActive     = "active"
	EmployeeStatusInactive   = "inactive"
	EmployeeStatusTerminated = "terminated"
	EmployeeStatusResigned   = "resigned"
)

// Employee is a workforce member. Employees are distinct from users: they are
// scheduled into shifts and tracked by presences but do not log in.
type Employee struct {
	BaseModel

	Code     string `gorm:"column:employee_code;uniqueIndex;not null" json:"employee_code"`
	Name     string `gorm:"not null;index" json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Position string `json:"position"`

	LocationID string    `gorm:"type:uuid;not null;index" json:"location_id"`
	Location   *Location `json:"location,omitempty"`
	BrandID    *string   `gorm:"type:uuid;index" json:"brand_id"`
	Brand      *Brand    `json:"brand,omitempty"`
	ContractID *string   `gorm:"type:uuid;index" json:"contract_id"`
	Contract   *EmployeeContract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`

	HireDate time.Time `json:"hire_date"`
	Status   string    `gorm:"type:varchar(16);default:active;index" json:"status"`
	Notes    string    `json:"notes"`

	Shifts    []Shift    `gorm:"many2many:employee_shifts;" json:"shifts,omitempty"`
	Presences []Presence `gorm:"foreignKey:EmployeeID" json:"-"`
}

// IsActive reports whether the employee can be scheduled.
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}
