package models

import "time"

// Contract types.
const (
	ContractTypePermanent  = "permanent"
	ContractTypeContract   = "contract"
	ContractTypeProbation  = "probation"
	ContractTypeInternship = "internship"
)

// EmployeeContract is an employment contract template employees reference.
// Deletion is blocked while employees point at it; contracts whose end date
// has passed are deactivated by the maintenance sweep.
type EmployeeContract struct {
	BaseModel

	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Type        string     `gorm:"type:varchar(16);not null" json:"type"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `gorm:"index" json:"end_date"`
	IsActive    bool       `gorm:"default:true;index" json:"is_active"`

	Employees []Employee `gorm:"foreignKey:ContractID" json:"employees,omitempty"`
}

// Expired reports whether the contract's end date lies strictly before now.
func (c *EmployeeContract) Expired(now time.Time) bool {
	return c.EndDate != nil && c.EndDate.Before(now)
}
