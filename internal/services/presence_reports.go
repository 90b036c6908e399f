package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

// DailyReport aggregates attendance for a single calendar date.
type DailyReport struct {
	Date            time.Time         `json:"date"`
	TotalEmployees  int64             `json:"total_employees"`
	PresentCount    int               `json:"present_count"`
	AbsentCount     int64             `json:"absent_count"`
	StatusBreakdown map[string]int    `json:"status_breakdown"`
	Presences       []models.Presence `json:"presences"`
}

// EmployeeMonthlySummary totals one employee's attendance over a month.
type EmployeeMonthlySummary struct {
	Employee       models.Employee `json:"employee"`
	TotalPresent   int             `json:"total_present"`
	TotalAbsent    int             `json:"total_absent"`
	TotalLate      int             `json:"total_late"`
	TotalWorkHours float64         `json:"total_work_hours"`
	TotalOvertime  float64         `json:"total_overtime"`
	AttendanceRate float64         `json:"attendance_rate"`
}

// MonthlySummary aggregates per-employee attendance for a month. Attendance
// rates are computed against the month's working days, weekends excluded.
type MonthlySummary struct {
	Year        int                      `json:"year"`
	Month       time.Month               `json:"month"`
	TotalDays   int                      `json:"total_days"`
	WorkingDays int                      `json:"working_days"`
	Employees   []EmployeeMonthlySummary `json:"employees"`
}

// DailyReport returns the attendance picture for one date: every presence
// recorded that day plus headcounts against the active employee roster.
func (s *PresenceService) DailyReport(ctx context.Context, date time.Time) (*DailyReport, error) {
	ctx = ensureContext(ctx)

	day := truncateToDate(date)
	next := day.AddDate(0, 0, 1)

	var presences []models.Presence
	if err := s.db.WithContext(ctx).
		Preload("Employee").
		Preload("Shift").
		Where("check_in >= ? AND check_in < ?", day, next).
		Order("check_in").
		Find(&presences).Error; err != nil {
		return nil, fmt.Errorf("presence service: daily report: %w", err)
	}

	var totalEmployees int64
	if err := s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("status = ?", models.EmployeeStatusActive).
		Count(&totalEmployees).Error; err != nil {
		return nil, fmt.Errorf("presence service: count employees: %w", err)
	}

	breakdown := make(map[string]int)
	for _, p := range presences {
		breakdown[p.Status]++
	}

	absent := totalEmployees - int64(len(presences))
	if absent < 0 {
		absent = 0
	}

	return &DailyReport{
		Date:            day,
		TotalEmployees:  totalEmployees,
		PresentCount:    len(presences),
		AbsentCount:     absent,
		StatusBreakdown: breakdown,
		Presences:       presences,
	}, nil
}

// MonthlySummary totals work hours, overtime, and attendance per employee for
// the given month.
func (s *PresenceService) MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	ctx = ensureContext(ctx)

	if month < time.January || month > time.December {
		return nil, apperrors.NewBadRequest("month must be between 1 and 12")
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	totalDays := end.AddDate(0, 0, -1).Day()
	workingDays := workingDaysInMonth(year, month)

	var presences []models.Presence
	if err := s.db.WithContext(ctx).
		Preload("Employee").
		Where("check_in >= ? AND check_in < ?", start, end).
		Order("check_in").
		Find(&presences).Error; err != nil {
		return nil, fmt.Errorf("presence service: monthly summary: %w", err)
	}

	byEmployee := make(map[string]*EmployeeMonthlySummary)
	var order []string
	for _, p := range presences {
		entry, ok := byEmployee[p.EmployeeID]
		if !ok {
			entry = &EmployeeMonthlySummary{}
			if p.Employee != nil {
				entry.Employee = *p.Employee
			}
			byEmployee[p.EmployeeID] = entry
			order = append(order, p.EmployeeID)
		}
		entry.TotalPresent++
		if p.Status == models.PresenceStatusLate {
			entry.TotalLate++
		}
		entry.TotalWorkHours += p.WorkHours
		entry.TotalOvertime += p.OvertimeHours
	}

	summary := &MonthlySummary{
		Year:        year,
		Month:       month,
		TotalDays:   totalDays,
		WorkingDays: workingDays,
	}
	for _, id := range order {
		entry := byEmployee[id]
		entry.TotalAbsent = workingDays - entry.TotalPresent
		if entry.TotalAbsent < 0 {
			entry.TotalAbsent = 0
		}
		if workingDays > 0 {
			entry.AttendanceRate = round2(float64(entry.TotalPresent) / float64(workingDays) * 100)
		}
		entry.TotalWorkHours = round2(entry.TotalWorkHours)
		entry.TotalOvertime = round2(entry.TotalOvertime)
		summary.Employees = append(summary.Employees, *entry)
	}

	return summary, nil
}

// workingDaysInMonth counts the month's days excluding Saturdays and Sundays.
func workingDaysInMonth(year int, month time.Month) int {
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for day.Month() == month {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}
