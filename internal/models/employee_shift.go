package models

import "time"

// EmployeeShift assigns an employee to a shift on a calendar date. The
// intended invariant is one shift assignment per employee per date; the
// conflict queries in the shift service surface violations and callers reject
// assignments whose conflict set is non-empty.
type EmployeeShift struct {
	EmployeeID string    `gorm:"primaryKey;type:uuid" json:"employee_id"`
	ShiftID    string    `gorm:"primaryKey;type:uuid" json:"shift_id"`
	Date       time.Time `gorm:"primaryKey;type:date" json:"date"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Shift    *Shift    `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
}

// TableName overrides the default table name for GORM.
func (EmployeeShift) TableName() string {
	return "employee_shifts"
}
