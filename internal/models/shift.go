package models

import (
	"fmt"
	"time"
)

// Shift type buckets derived from the start hour.
const (
	ShiftTypeMorning   = "morning"
	ShiftTypeAfternoon = "afternoon"
	ShiftTypeNight     = "night"
)

// Shift is a recurring work window described by wall-clock times. EndTime may
// precede StartTime, in which case the shift spans midnight.
type Shift struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	StartTime   string `gorm:"type:varchar(5);not null" json:"start_time"` // HH:MM
	EndTime     string `gorm:"type:varchar(5);not null" json:"end_time"`   // HH:MM
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true;index" json:"is_active"`

	Employees []Employee `gorm:"many2many:employee_shifts;" json:"employees,omitempty"`
}

// ParseClock converts an HH:MM string into minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Interval returns the shift window as half-open minutes [start, end), with
// overnight shifts normalised so end > start by adding 24h.
func (s *Shift) Interval() (start, end int, err error) {
	start, err = ParseClock(s.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClock(s.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		end += 24 * 60
	}
	return start, end, nil
}

// DurationHours returns the scheduled length of the shift in fractional hours.
func (s *Shift) DurationHours() (float64, error) {
	start, end, err := s.Interval()
	if err != nil {
		return 0, err
	}
	return float64(end-start) / 60, nil
}

// Type buckets the shift by its start hour: morning [06:00,14:00),
// afternoon [14:00,22:00), night otherwise.
func (s *Shift) Type() string {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return ""
	}
	hour := start / 60
	switch {
	case hour >= 6 && hour < 14:
		return ShiftTypeMorning
	case hour >= 14 && hour < 22:
		return ShiftTypeAfternoon
	default:
		return ShiftTypeNight
	}
}
