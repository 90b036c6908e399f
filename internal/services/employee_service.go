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

// ErrEmployeeNotFound indicates the requested employee does not exist.
var ErrEmployeeNotFound = apperrors.New("EMPLOYEE_NOT_FOUND", "Employee not found", http.StatusNotFound)

var employeeStatuses = map[string]bool{
	models.EmployeeStatusActive:     true,
	models.EmployeeStatusInactive:   true,
	models.EmployeeStatusTerminated: true,
	models.EmployeeStatusResigned:   true,
}

// EmployeeInput describes the fields accepted when creating or updating an
// employee.
type EmployeeInput struct {
	Code       string
	Name       string
	Email      string
	Phone      string
	Position   string
	LocationID string
	BrandID    *string
	ContractID *string
	HireDate   *time.Time
	Status     string
	Notes      string
}

// EmployeeFilters captures listing filters.
type EmployeeFilters struct {
	Status     string
	LocationID string
	BrandID    string
	Query      string
}

// ListEmployeesOptions controls pagination for employee listing.
type ListEmployeesOptions struct {
	Page     int
	PageSize int
	Filters  EmployeeFilters
}

// EmployeeService manages the employee roster.
type EmployeeService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(db *gorm.DB, audit *AuditService) (*EmployeeService, error) {
	if db == nil {
		return nil, errors.New("employee service: db is required")
	}
	return &EmployeeService{db: db, auditService: audit}, nil
}

// Create registers a new employee.
func (s *EmployeeService) Create(ctx context.Context, input EmployeeInput) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" {
		return nil, apperrors.NewBadRequest("employee code is required")
	}
	if name == "" {
		return nil, apperrors.NewBadRequest("employee name is required")
	}

	status := input.Status
	if status == "" {
		status = models.EmployeeStatusActive
	}
	if !employeeStatuses[status] {
		return nil, apperrors.NewBadRequest("invalid employee status")
	}

	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	employee := &models.Employee{
		Code:       code,
		Name:       name,
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      strings.TrimSpace(input.Phone),
		Position:   strings.TrimSpace(input.Position),
		LocationID: strings.TrimSpace(input.LocationID),
		BrandID:    input.BrandID,
		ContractID: input.ContractID,
		Status:     status,
		Notes:      strings.TrimSpace(input.Notes),
	}
	if input.HireDate != nil {
		employee.HireDate = truncateToDate(*input.HireDate)
	}

	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("employee code already exists")
		}
		return nil, fmt.Errorf("employee service: create employee: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "employee.create",
		Resource: employee.ID,
		Result:   "success",
		Metadata: map[string]any{"code": employee.Code},
	})
	return s.GetByID(ctx, employee.ID)
}

// GetByID loads an employee with their location, brand, and contract.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	var employee models.Employee
	err := s.db.WithContext(ctx).
		Preload("Location").
		Preload("Brand").
		Preload("Contract").
		First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("employee service: get employee: %w", err)
	}
	return &employee, nil
}

// List retrieves employees matching the filters with pagination.
func (s *EmployeeService) List(ctx context.Context, opts ListEmployeesOptions) ([]models.Employee, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := clampPage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Employee{})
	if status := strings.TrimSpace(opts.Filters.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if locationID := strings.TrimSpace(opts.Filters.LocationID); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}
	if brandID := strings.TrimSpace(opts.Filters.BrandID); brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}
	if q := strings.TrimSpace(opts.Filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(employee_code) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("employee service: count employees: %w", err)
	}

	var employees []models.Employee
	if err := query.
		Preload("Location").
		Preload("Brand").
		Order("name").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&employees).Error; err != nil {
		return nil, 0, fmt.Errorf("employee service: list employees: %w", err)
	}
	return employees, total, nil
}

// Update persists mutable attributes for an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id string, input EmployeeInput) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	var employee models.Employee
	err := s.db.WithContext(ctx).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("employee service: load employee: %w", err)
	}

	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if code := strings.TrimSpace(input.Code); code != "" {
		updates["employee_code"] = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		updates["email"] = email
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		updates["phone"] = phone
	}
	if position := strings.TrimSpace(input.Position); position != "" {
		updates["position"] = position
	}
	if locationID := strings.TrimSpace(input.LocationID); locationID != "" {
		updates["location_id"] = locationID
	}
	if input.BrandID != nil {
		updates["brand_id"] = *input.BrandID
	}
	if input.ContractID != nil {
		updates["contract_id"] = *input.ContractID
	}
	if input.HireDate != nil {
		updates["hire_date"] = truncateToDate(*input.HireDate)
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if !employeeStatuses[status] {
			return nil, apperrors.NewBadRequest("invalid employee status")
		}
		updates["status"] = status
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		updates["notes"] = notes
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&employee).Updates(updates).Error; err != nil {
			if isUniqueConstraintError(err) {
				return nil, apperrors.NewBadRequest("employee code already exists")
			}
			return nil, fmt.Errorf("employee service: update employee: %w", err)
		}
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "employee.update",
		Resource: id,
		Result:   "success",
	})
	return s.GetByID(ctx, id)
}

// SetStatus transitions the employee to a new status. Non-active employees
// cannot check in; existing shift assignments are left in place for the
// schedule history.
func (s *EmployeeService) SetStatus(ctx context.Context, id, status string) error {
	ctx = ensureContext(ctx)

	if !employeeStatuses[status] {
		return apperrors.NewBadRequest("invalid employee status")
	}

	result := s.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("employee service: set status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEmployeeNotFound
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "employee.set_status",
		Resource: id,
		Result:   "success",
		Metadata: map[string]any{"status": status},
	})
	return nil
}

// Delete removes an employee along with their shift assignments. Attendance
// history stays for reporting.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			return fmt.Errorf("employee service: load employee: %w", err)
		}
		if err := tx.Where("employee_id = ?", id).Delete(&models.EmployeeShift{}).Error; err != nil {
			return fmt.Errorf("employee service: delete assignments: %w", err)
		}
		if err := tx.Delete(&employee).Error; err != nil {
			return fmt.Errorf("employee service: delete employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "employee.delete",
		Resource: id,
		Result:   "success",
	})
	return nil
}

func (s *EmployeeService) checkReferences(ctx context.Context, input EmployeeInput) error {
	db := s.db.WithContext(ctx)

	if locationID := strings.TrimSpace(input.LocationID); locationID != "" {
		var count int64
		if err := db.Model(&models.Location{}).Where("id = ?", locationID).Count(&count).Error; err != nil {
			return fmt.Errorf("employee service: check location: %w", err)
		}
		if count == 0 {
			return ErrLocationNotFound
		}
	}
	if input.BrandID != nil && *input.BrandID != "" {
		var count int64
		if err := db.Model(&models.Brand{}).Where("id = ?", *input.BrandID).Count(&count).Error; err != nil {
			return fmt.Errorf("employee service: check brand: %w", err)
		}
		if count == 0 {
			return ErrBrandNotFound
		}
	}
	if input.ContractID != nil && *input.ContractID != "" {
		var count int64
		if err := db.Model(&models.EmployeeContract{}).Where("id = ?", *input.ContractID).Count(&count).Error; err != nil {
			return fmt.Errorf("employee service: check contract: %w", err)
		}
		if count == 0 {
			return ErrContractNotFound
		}
	}
	return nil
}
