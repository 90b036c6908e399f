package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
	"github.com/ardiansyah/workforce/pkg/metrics"
)

var (
	// ErrPresenceNotFound indicates the requested attendance record does not exist.
	ErrPresenceNotFound = apperrors.New("PRESENCE_NOT_FOUND", "Presence record not found", http.StatusNotFound)
	// ErrAlreadyCheckedIn rejects a second check-in on the same record.
	ErrAlreadyCheckedIn = apperrors.New("PRESENCE_ALREADY_CHECKED_IN", "Employee is already checked in", http.StatusConflict)
	// ErrNotCheckedIn rejects a check-out without a prior check-in.
	ErrNotCheckedIn = apperrors.New("PRESENCE_NOT_CHECKED_IN", "Employee has not checked in", http.StatusBadRequest)
)

// PresenceFilters captures listing filters for attendance records.
type PresenceFilters struct {
	EmployeeID string
	ShiftID    string
	Status     string
	From       *time.Time
	To         *time.Time
}

// ListPresencesOptions controls pagination for presence listing.
type ListPresencesOptions struct {
	Page     int
	PageSize int
	Filters  PresenceFilters
}

// PresenceService records attendance and derives status, work hours, and
// overtime from the raw check-in/check-out timestamps.
type PresenceService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewPresenceService constructs a PresenceService.
func NewPresenceService(db *gorm.DB, audit *AuditService) (*PresenceService, error) {
	if db == nil {
		return nil, errors.New("presence service: db is required")
	}
	return &PresenceService{db: db, auditService: audit}, nil
}

// CheckIn opens an attendance record for the employee against the given
// shift. The status is derived immediately: late when the check-in falls
// after the shift's start, partial otherwise.
func (s *PresenceService) CheckIn(ctx context.Context, employeeID, shiftID string, at time.Time, notes string) (*models.Presence, error) {
	ctx = ensureContext(ctx)

	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, "id = ?", employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("presence service: load employee: %w", err)
	}
	if !employee.IsActive() {
		return nil, apperrors.NewBadRequest("employee is not active")
	}

	var shift models.Shift
	if err := s.db.WithContext(ctx).First(&shift, "id = ?", shiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("presence service: load shift: %w", err)
	}

	open, err := s.openRecord(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrAlreadyCheckedIn
	}

	checkIn := at.UTC()
	presence := &models.Presence{
		EmployeeID:   employeeID,
		ShiftID:      &shift.ID,
		CheckIn:      &checkIn,
		NotesCheckIn: strings.TrimSpace(notes),
	}
	recomputePresence(presence, &shift)

	if err := s.db.WithContext(ctx).Create(presence).Error; err != nil {
		return nil, fmt.Errorf("presence service: create presence: %w", err)
	}

	metrics.PresenceEvents.WithLabelValues("check_in").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "presence.check_in",
		Resource: employeeID,
		Result:   "success",
		Metadata: map[string]any{"shift_id": shift.ID, "status": presence.Status},
	})
	return presence, nil
}

// CheckOut closes the employee's open attendance record and derives the
// final status, work hours, and overtime.
func (s *PresenceService) CheckOut(ctx context.Context, employeeID string, at time.Time, notes string) (*models.Presence, error) {
	ctx = ensureContext(ctx)

	presence, err := s.openRecord(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if presence == nil {
		return nil, ErrNotCheckedIn
	}

	checkOut := at.UTC()
	if presence.CheckIn != nil && checkOut.Before(*presence.CheckIn) {
		return nil, apperrors.NewBadRequest("check-out cannot precede check-in")
	}
	presence.CheckOut = &checkOut
	presence.NotesCheckOut = strings.TrimSpace(notes)
	recomputePresence(presence, presence.Shift)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(presence).Error; err != nil {
		return nil, fmt.Errorf("presence service: save presence: %w", err)
	}

	metrics.PresenceEvents.WithLabelValues("check_out").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "presence.check_out",
		Resource: employeeID,
		Result:   "success",
		Metadata: map[string]any{"status": presence.Status, "work_hours": presence.WorkHours},
	})
	return presence, nil
}

// Amend replaces the raw timestamps on an existing record, for back-office
// corrections, and recomputes the derived fields from scratch.
func (s *PresenceService) Amend(ctx context.Context, presenceID string, checkIn, checkOut *time.Time) (*models.Presence, error) {
	ctx = ensureContext(ctx)

	var presence models.Presence
	if err := s.db.WithContext(ctx).Preload("Shift").First(&presence, "id = ?", presenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresenceNotFound
		}
		return nil, fmt.Errorf("presence service: load presence: %w", err)
	}

	if checkIn == nil && checkOut != nil {
		return nil, apperrors.NewBadRequest("check-out requires a check-in")
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return nil, apperrors.NewBadRequest("check-out cannot precede check-in")
	}

	presence.CheckIn = checkIn
	presence.CheckOut = checkOut
	recomputePresence(&presence, presence.Shift)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&presence).Error; err != nil {
		return nil, fmt.Errorf("presence service: save presence: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "presence.amend",
		Resource: presenceID,
		Result:   "success",
		Metadata: map[string]any{"status": presence.Status},
	})
	return &presence, nil
}

// Get loads one attendance record.
func (s *PresenceService) Get(ctx context.Context, presenceID string) (*models.Presence, error) {
	ctx = ensureContext(ctx)

	var presence models.Presence
	if err := s.db.WithContext(ctx).
		Preload("Employee").
		Preload("Shift").
		First(&presence, "id = ?", presenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresenceNotFound
		}
		return nil, fmt.Errorf("presence service: get presence: %w", err)
	}
	return &presence, nil
}

// Delete removes an attendance record entirely.
func (s *PresenceService) Delete(ctx context.Context, presenceID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Presence{}, "id = ?", presenceID)
	if result.Error != nil {
		return fmt.Errorf("presence service: delete presence: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPresenceNotFound
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "presence.delete",
		Resource: presenceID,
		Result:   "success",
	})
	return nil
}

// List returns paginated attendance records newest first.
func (s *PresenceService) List(ctx context.Context, opts ListPresencesOptions) ([]models.Presence, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := clampPage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Presence{})
	if opts.Filters.EmployeeID != "" {
		query = query.Where("employee_id = ?", opts.Filters.EmployeeID)
	}
	if opts.Filters.ShiftID != "" {
		query = query.Where("shift_id = ?", opts.Filters.ShiftID)
	}
	if opts.Filters.Status != "" {
		query = query.Where("status = ?", opts.Filters.Status)
	}
	if opts.Filters.From != nil {
		query = query.Where("check_in >= ?", opts.Filters.From.UTC())
	}
	if opts.Filters.To != nil {
		query = query.Where("check_in < ?", opts.Filters.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("presence service: count presences: %w", err)
	}

	var presences []models.Presence
	if err := query.
		Preload("Employee").
		Preload("Shift").
		Order("check_in DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&presences).Error; err != nil {
		return nil, 0, fmt.Errorf("presence service: list presences: %w", err)
	}
	return presences, total, nil
}

func (s *PresenceService) openRecord(ctx context.Context, employeeID string) (*models.Presence, error) {
	var presence models.Presence
	err := s.db.WithContext(ctx).
		Preload("Shift").
		Where("employee_id = ? AND check_in IS NOT NULL AND check_out IS NULL", employeeID).
		Order("check_in DESC").
		First(&presence).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("presence service: find open record: %w", err)
	}
	return &presence, nil
}

// recomputePresence rebuilds status, work hours, and overtime from the raw
// timestamps. Late wins over present: a late check-in stays late even after
// checking out.
func recomputePresence(p *models.Presence, shift *models.Shift) {
	p.WorkHours = 0
	p.OvertimeHours = 0

	if p.CheckIn == nil {
		p.Status = models.PresenceStatusAbsent
		return
	}

	late := false
	if shift != nil {
		if startMin, err := models.ParseClock(shift.StartTime); err == nil {
			in := p.CheckIn.UTC()
			checkInMin := in.Hour()*60 + in.Minute()
			late = checkInMin > startMin
		}
	}

	if p.CheckOut == nil {
		if late {
			p.Status = models.PresenceStatusLate
		} else {
			p.Status = models.PresenceStatusPartial
		}
		return
	}

	p.WorkHours = round2(p.CheckOut.Sub(*p.CheckIn).Hours())
	if shift != nil {
		if scheduled, err := shift.DurationHours(); err == nil {
			p.OvertimeHours = round2(math.Max(0, p.WorkHours-scheduled))
		}
	}

	if late {
		p.Status = models.PresenceStatusLate
	} else {
		p.Status = models.PresenceStatusPresent
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
