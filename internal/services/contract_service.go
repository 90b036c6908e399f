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
	// ErrContractNotFound indicates the requested contract does not exist.
	ErrContractNotFound = apperrors.New("CONTRACT_NOT_FOUND", "Contract not found", http.StatusNotFound)
	// ErrContractHasEmployees blocks deletion while employees reference the contract.
	ErrContractHasEmployees = apperrors.New("CONTRACT_HAS_EMPLOYEES", "Cannot delete contract with assigned employees", http.StatusConflict)
)

var contractTypes = map[string]bool{
	models.ContractTypePermanent:  true,
	models.ContractTypeContract:   true,
	models.ContractTypeProbation:  true,
	models.ContractTypeInternship: true,
}

// ContractInput describes the fields accepted for an employment contract.
type ContractInput struct {
	Name        string
	Description string
	Type        string
	StartDate   *time.Time
	EndDate     *time.Time
	IsActive    *bool
}

// ContractService manages employment contract templates.
type ContractService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewContractService constructs a ContractService.
func NewContractService(db *gorm.DB, audit *AuditService) (*ContractService, error) {
	if db == nil {
		return nil, errors.New("contract service: db is required")
	}
	return &ContractService{db: db, auditService: audit}, nil
}

// Create registers a new contract template.
func (s *ContractService) Create(ctx context.Context, input ContractInput) (*models.EmployeeContract, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("contract name is required")
	}
	if !contractTypes[input.Type] {
		return nil, apperrors.NewBadRequest("invalid contract type")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apperrors.NewBadRequest("end date cannot precede start date")
	}

	contract := &models.EmployeeContract{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Type:        input.Type,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
	}
	if input.IsActive != nil {
		contract.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, fmt.Errorf("contract service: create contract: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "contract.create",
		Resource: contract.ID,
		Result:   "success",
		Metadata: map[string]any{"name": contract.Name, "type": contract.Type},
	})
	return contract, nil
}

// Update modifies an existing contract template.
func (s *ContractService) Update(ctx context.Context, id string, input ContractInput) (*models.EmployeeContract, error) {
	ctx = ensureContext(ctx)

	var contract models.EmployeeContract
	if err := s.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("contract service: load contract: %w", err)
	}

	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apperrors.NewBadRequest("end date cannot precede start date")
	}

	updates := map[string]any{
		"description": strings.TrimSpace(input.Description),
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.Type != "" {
		if !contractTypes[input.Type] {
			return nil, apperrors.NewBadRequest("invalid contract type")
		}
		updates["type"] = input.Type
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Model(&contract).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("contract service: update contract: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "contract.update",
		Resource: id,
		Result:   "success",
	})
	return &contract, nil
}

// Delete removes a contract template. Blocked while any employee references
// it, mirroring role deletion.
func (s *ContractService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contract models.EmployeeContract
		if err := tx.First(&contract, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContractNotFound
			}
			return fmt.Errorf("contract service: load contract: %w", err)
		}

		var employees int64
		if err := tx.Model(&models.Employee{}).Where("contract_id = ?", id).Count(&employees).Error; err != nil {
			return fmt.Errorf("contract service: count employees: %w", err)
		}
		if employees > 0 {
			return ErrContractHasEmployees
		}

		if err := tx.Delete(&contract).Error; err != nil {
			return fmt.Errorf("contract service: delete contract: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "contract.delete",
		Resource: id,
		Result:   "success",
	})
	return nil
}

// GetByID loads a single contract.
func (s *ContractService) GetByID(ctx context.Context, id string) (*models.EmployeeContract, error) {
	ctx = ensureContext(ctx)

	var contract models.EmployeeContract
	if err := s.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("contract service: get contract: %w", err)
	}
	return &contract, nil
}

// List returns all contract templates ordered by name.
func (s *ContractService) List(ctx context.Context, activeOnly bool) ([]models.EmployeeContract, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.EmployeeContract{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var contracts []models.EmployeeContract
	if err := query.Order("name").Find(&contracts).Error; err != nil {
		return nil, fmt.Errorf("contract service: list contracts: %w", err)
	}
	return contracts, nil
}

// DeactivateExpired flips is_active off on contracts whose end date lies
// strictly before now. Returns the number of contracts touched; the
// maintenance sweep calls this on a schedule.
func (s *ContractService) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Model(&models.EmployeeContract{}).
		Where("is_active = ? AND end_date IS NOT NULL AND end_date < ?", true, now.UTC()).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("contract service: deactivate expired: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		recordAudit(s.auditService, ctx, AuditEntry{
			Action:   "contract.deactivate_expired",
			Result:   "success",
			Metadata: map[string]any{"count": result.RowsAffected},
		})
	}
	return result.RowsAffected, nil
}
