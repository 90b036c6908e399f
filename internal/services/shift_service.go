package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

var (
	// ErrShiftNotFound indicates the requested shift does not exist.
	ErrShiftNotFound = apperrors.New("SHIFT_NOT_FOUND", "Shift not found", http.StatusNotFound)
	// ErrShiftAssigned blocks deletion while assignments still reference the shift.
	ErrShiftAssigned = apperrors.New("SHIFT_ASSIGNED", "Cannot delete shift with active assignments", http.StatusConflict)
	// ErrShiftDateConflict rejects a second assignment for the same employee and date.
	ErrShiftDateConflict = apperrors.New("SHIFT_DATE_CONFLICT", "Employee already has a shift on this date", http.StatusConflict)
)

// ShiftInput describes the fields accepted when creating or updating a shift.
type ShiftInput struct {
	Name      string
	StartTime string
	EndTime   string
	IsActive  *bool
}

// ShiftService manages shift definitions and employee assignments, including
// the double-booking checks.
type ShiftService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewShiftService constructs a ShiftService.
func NewShiftService(db *gorm.DB, audit *AuditService) (*ShiftService, error) {
	if db == nil {
		return nil, errors.New("shift service: db is required")
	}
	return &ShiftService{db: db, auditService: audit}, nil
}

// CreateShift registers a shift after validating its clock times.
func (s *ShiftService) CreateShift(ctx context.Context, input ShiftInput) (*models.Shift, error) {
	ctx = ensureContext(ctx)

	if err := validateShiftTimes(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("shift name is required")
	}

	shift := &models.Shift{
		Name:      name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		IsActive:  true,
	}
	if input.IsActive != nil {
		shift.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(shift).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("shift name already exists")
		}
		return nil, fmt.Errorf("shift service: create shift: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "shift.create",
		Resource: shift.ID,
		Result:   "success",
		Metadata: map[string]any{"name": shift.Name, "start": shift.StartTime, "end": shift.EndTime},
	})
	return shift, nil
}

// UpdateShift modifies a shift definition.
func (s *ShiftService) UpdateShift(ctx context.Context, shiftID string, input ShiftInput) (*models.Shift, error) {
	ctx = ensureContext(ctx)

	var shift models.Shift
	if err := s.db.WithContext(ctx).First(&shift, "id = ?", shiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("shift service: load shift: %w", err)
	}

	if err := validateShiftTimes(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"start_time": input.StartTime,
		"end_time":   input.EndTime,
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Model(&shift).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("shift name already exists")
		}
		return nil, fmt.Errorf("shift service: update shift: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "shift.update",
		Resource: shiftID,
		Result:   "success",
	})
	return &shift, nil
}

// DeleteShift removes a shift. Deletion is blocked while any assignment
// references it.
func (s *ShiftService) DeleteShift(ctx context.Context, shiftID string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shift models.Shift
		if err := tx.First(&shift, "id = ?", shiftID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			return fmt.Errorf("shift service: load shift: %w", err)
		}

		var assignments int64
		if err := tx.Model(&models.EmployeeShift{}).Where("shift_id = ?", shiftID).Count(&assignments).Error; err != nil {
			return fmt.Errorf("shift service: count assignments: %w", err)
		}
		if assignments > 0 {
			return ErrShiftAssigned
		}

		if err := tx.Delete(&shift).Error; err != nil {
			return fmt.Errorf("shift service: delete shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "shift.delete",
		Resource: shiftID,
		Result:   "success",
	})
	return nil
}

// DuplicateShift creates a new shift copying the source's clock times. The
// copy starts active and carries no assignments.
func (s *ShiftService) DuplicateShift(ctx context.Context, sourceID, newName string) (*models.Shift, error) {
	ctx = ensureContext(ctx)

	source, err := s.GetShift(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	copyShift, err := s.CreateShift(ctx, ShiftInput{
		Name:      newName,
		StartTime: source.StartTime,
		EndTime:   source.EndTime,
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "shift.duplicate",
		Resource: copyShift.ID,
		Result:   "success",
		Metadata: map[string]any{"source_id": sourceID},
	})
	return copyShift, nil
}

// AvailableEmployees returns the active employees not yet booked onto the
// shift for the given date, ordered by name.
func (s *ShiftService) AvailableEmployees(ctx context.Context, shiftID string, date time.Time) ([]models.Employee, error) {
	ctx = ensureContext(ctx)
	day := truncateToDate(date)

	if _, err := s.GetShift(ctx, shiftID); err != nil {
		return nil, err
	}

	assigned := s.db.WithContext(ctx).
		Model(&models.EmployeeShift{}).
		Select("employee_id").
		Where("shift_id = ? AND date = ?", shiftID, day)

	var employees []models.Employee
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.EmployeeStatusActive).
		Where("id NOT IN (?)", assigned).
		Order("name").
		Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("shift service: available employees: %w", err)
	}
	return employees, nil
}

// GetShift loads a single shift.
func (s *ShiftService) GetShift(ctx context.Context, shiftID string) (*models.Shift, error) {
	ctx = ensureContext(ctx)

	var shift models.Shift
	if err := s.db.WithContext(ctx).First(&shift, "id = ?", shiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("shift service: get shift: %w", err)
	}
	return &shift, nil
}

// ListShifts returns all shifts ordered by start time.
func (s *ShiftService) ListShifts(ctx context.Context, activeOnly bool) ([]models.Shift, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Shift{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var shifts []models.Shift
	if err := query.Order("start_time").Find(&shifts).Error; err != nil {
		return nil, fmt.Errorf("shift service: list shifts: %w", err)
	}
	return shifts, nil
}

// AssignShift books an employee onto a shift for a calendar date. The
// assignment is rejected when the employee already holds any shift on that
// date; one shift per employee per date is the invariant.
func (s *ShiftService) AssignShift(ctx context.Context, employeeID, shiftID string, date time.Time, notes string) (*models.EmployeeShift, error) {
	ctx = ensureContext(ctx)
	day := truncateToDate(date)

	var assignment *models.EmployeeShift
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, "id = ?", employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return fmt.Errorf("shift service: load employee: %w", err)
		}

		var shift models.Shift
		if err := tx.First(&shift, "id = ?", shiftID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrShiftNotFound
			}
			return fmt.Errorf("shift service: load shift: %w", err)
		}

		conflicts, err := dateConflicts(tx, employeeID, day, "")
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrShiftDateConflict
		}

		assignment = &models.EmployeeShift{
			EmployeeID: employeeID,
			ShiftID:    shiftID,
			Date:       day,
			Notes:      strings.TrimSpace(notes),
		}
		if err := tx.Create(assignment).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrShiftDateConflict
			}
			return fmt.Errorf("shift service: create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "shift.assign",
		Resource: employeeID,
		Result:   "success",
		Metadata: map[string]any{"shift_id": shiftID, "date": day.Format("2006-01-02")},
	})
	return assignment, nil
}

// UnassignShift removes an employee's booking for a shift on a date.
func (s *ShiftService) UnassignShift(ctx context.Context, employeeID, shiftID string, date time.Time) error {
	ctx = ensureContext(ctx)
	day := truncateToDate(date)

	result := s.db.WithContext(ctx).
		Where("employee_id = ? AND shift_id = ? AND date = ?", employeeID, shiftID, day).
		Delete(&models.EmployeeShift{})
	if result.Error != nil {
		return fmt.Errorf("shift service: delete assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("shift assignment not found")
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "shift.unassign",
		Resource: employeeID,
		Result:   "success",
		Metadata: map[string]any{"shift_id": shiftID, "date": day.Format("2006-01-02")},
	})
	return nil
}

// DateConflicts returns the employee's other assignments on the given date.
// excludeShiftID skips a known assignment so updates do not conflict with
// themselves.
func (s *ShiftService) DateConflicts(ctx context.Context, employeeID string, date time.Time, excludeShiftID string) ([]models.EmployeeShift, error) {
	ctx = ensureContext(ctx)
	return dateConflicts(s.db.WithContext(ctx), employeeID, truncateToDate(date), excludeShiftID)
}

// TimeConflicts returns the active shifts assigned to the employee whose
// wall-clock intervals overlap the candidate shift's interval. Overnight
// shifts are treated as running into the next day before comparison.
func (s *ShiftService) TimeConflicts(ctx context.Context, employeeID string, candidate *models.Shift, excludeShiftID string) ([]models.Shift, error) {
	ctx = ensureContext(ctx)

	candStart, candEnd, err := candidate.Interval()
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}

	var assigned []models.Shift
	if err := s.db.WithContext(ctx).
		Joins("JOIN employee_shifts ON employee_shifts.shift_id = shifts.id").
		Where("employee_shifts.employee_id = ? AND shifts.is_active = ?", employeeID, true).
		Distinct("shifts.*").
		Find(&assigned).Error; err != nil {
		return nil, fmt.Errorf("shift service: load assigned shifts: %w", err)
	}

	var conflicts []models.Shift
	for _, other := range assigned {
		if other.ID == excludeShiftID || (candidate.ID != "" && other.ID == candidate.ID) {
			continue
		}
		otherStart, otherEnd, err := other.Interval()
		if err != nil {
			continue
		}
		if intervalsOverlap(candStart, candEnd, otherStart, otherEnd) {
			conflicts = append(conflicts, other)
		}
	}
	return conflicts, nil
}

func dateConflicts(db *gorm.DB, employeeID string, day time.Time, excludeShiftID string) ([]models.EmployeeShift, error) {
	query := db.
		Preload("Shift").
		Where("employee_id = ? AND date = ?", employeeID, day)
	if excludeShiftID != "" {
		query = query.Where("shift_id <> ?", excludeShiftID)
	}

	var assignments []models.EmployeeShift
	if err := query.Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("shift service: date conflicts: %w", err)
	}
	return assignments, nil
}

// intervalsOverlap reports whether two half-open minute intervals collide.
// Both intervals are already normalised so end > start (overnight shifts run
// past 1440); the comparison repeats with one side shifted by a day so a
// shift wrapping past midnight still meets an early-morning shift.
func intervalsOverlap(s1, e1, s2, e2 int) bool {
	const day = 24 * 60
	for _, offset := range []int{-day, 0, day} {
		if s1 < e2+offset && s2+offset < e1 {
			return true
		}
	}
	return false
}

func validateShiftTimes(start, end string) error {
	if _, err := models.ParseClock(start); err != nil {
		return apperrors.NewBadRequest("start_time must be in HH:MM format")
	}
	if _, err := models.ParseClock(end); err != nil {
		return apperrors.NewBadRequest("end_time must be in HH:MM format")
	}
	if start == end {
		return apperrors.NewBadRequest("start_time and end_time must differ")
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
