package models

import "time"

// Presence statuses. Status is recomputed from the raw timestamps on every
// change, never patched incrementally: absent before check-in, late when the
// check-in falls after the shift start, partial after an on-time check-in,
// present once checked out without being late.
const (
	PresenceStatusAbsent  = "absent"
	PresenceStatusPartial = "partial"
	PresenceStatusLate    = "late"
	PresenceStatusPresent = "present"
)

// Presence is one attendance record: a check-in and optional check-out
// against an assigned shift.
type Presence struct {
	BaseModel

	EmployeeID string    `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee `json:"employee,omitempty"`
	ShiftID    *string   `gorm:"type:uuid;index" json:"shift_id"`
	Shift      *Shift    `json:"shift,omitempty"`

	CheckIn  *time.Time `gorm:"index" json:"check_in"`
	CheckOut *time.Time `json:"check_out"`

	NotesCheckIn  string `json:"notes_checkin"`
	NotesCheckOut string `json:"notes_checkout"`

	WorkHours     float64 `gorm:"type:decimal(5,2)" json:"work_hours"`
	OvertimeHours float64 `gorm:"type:decimal(5,2)" json:"overtime_hours"`
	Status        string  `gorm:"type:varchar(16);default:absent;index" json:"status"`
	Notes         string  `json:"notes"`
}
