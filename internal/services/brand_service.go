package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

var (
	// ErrBrandNotFound indicates the requested brand does not exist.
	ErrBrandNotFound = apperrors.New("BRAND_NOT_FOUND", "Brand not found", http.StatusNotFound)
	// ErrBrandHasEmployees blocks deletion while employees reference the brand.
	ErrBrandHasEmployees = apperrors.New("BRAND_HAS_EMPLOYEES", "Cannot delete brand with assigned employees", http.StatusConflict)
)

// BrandInput describes the fields accepted for a brand.
type BrandInput struct {
	Name        string
	Description string
	IsActive    *bool
}

// BrandService manages the product lines employees work against.
type BrandService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewBrandService constructs a BrandService.
func NewBrandService(db *gorm.DB, audit *AuditService) (*BrandService, error) {
	if db == nil {
		return nil, errors.New("brand service: db is required")
	}
	return &BrandService{db: db, auditService: audit}, nil
}

// Create registers a new brand.
func (s *BrandService) Create(ctx context.Context, input BrandInput) (*models.Brand, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("brand name is required")
	}

	brand := &models.Brand{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsActive:    true,
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(brand).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("brand name already exists")
		}
		return nil, fmt.Errorf("brand service: create brand: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "brand.create",
		Resource: brand.ID,
		Result:   "success",
		Metadata: map[string]any{"name": brand.Name},
	})
	return brand, nil
}

// Update modifies an existing brand.
func (s *BrandService) Update(ctx context.Context, id string, input BrandInput) (*models.Brand, error) {
	ctx = ensureContext(ctx)

	var brand models.Brand
	if err := s.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("brand service: load brand: %w", err)
	}

	updates := map[string]any{
		"description": strings.TrimSpace(input.Description),
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Model(&brand).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("brand name already exists")
		}
		return nil, fmt.Errorf("brand service: update brand: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "brand.update",
		Resource: id,
		Result:   "success",
	})
	return &brand, nil
}

// Delete removes a brand. Blocked while any employee references it.
func (s *BrandService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var brand models.Brand
		if err := tx.First(&brand, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBrandNotFound
			}
			return fmt.Errorf("brand service: load brand: %w", err)
		}

		var employees int64
		if err := tx.Model(&models.Employee{}).Where("brand_id = ?", id).Count(&employees).Error; err != nil {
			return fmt.Errorf("brand service: count employees: %w", err)
		}
		if employees > 0 {
			return ErrBrandHasEmployees
		}

		if err := tx.Delete(&brand).Error; err != nil {
			return fmt.Errorf("brand service: delete brand: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "brand.delete",
		Resource: id,
		Result:   "success",
	})
	return nil
}

// GetByID loads a single brand.
func (s *BrandService) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	ctx = ensureContext(ctx)

	var brand models.Brand
	if err := s.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("brand service: get brand: %w", err)
	}
	return &brand, nil
}

// List returns all brands ordered by name.
func (s *BrandService) List(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Brand{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var brands []models.Brand
	if err := query.Order("name").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("brand service: list brands: %w", err)
	}
	return brands, nil
}
