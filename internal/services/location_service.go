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
	// ErrLocationNotFound indicates the requested location does not exist.
	ErrLocationNotFound = apperrors.New("LOCATION_NOT_FOUND", "Location not found", http.StatusNotFound)
	// ErrLocationHasEmployees blocks deletion while employees reference the location.
	ErrLocationHasEmployees = apperrors.New("LOCATION_HAS_EMPLOYEES", "Cannot delete location with assigned employees", http.StatusConflict)
)

// LocationInput describes the fields accepted for a location.
type LocationInput struct {
	Name     string
	Address  string
	City     string
	IsActive *bool
}

// LocationService manages the production sites employees are attached to.
type LocationService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewLocationService constructs a LocationService.
func NewLocationService(db *gorm.DB, audit *AuditService) (*LocationService, error) {
	if db == nil {
		return nil, errors.New("location service: db is required")
	}
	return &LocationService{db: db, auditService: audit}, nil
}

// Create registers a new location.
func (s *LocationService) Create(ctx context.Context, input LocationInput) (*models.Location, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("location name is required")
	}

	location := &models.Location{
		Name:     name,
		Address:  strings.TrimSpace(input.Address),
		City:     strings.TrimSpace(input.City),
		IsActive: true,
	}
	if input.IsActive != nil {
		location.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Create(location).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("location name already exists")
		}
		return nil, fmt.Errorf("location service: create location: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "location.create",
		Resource: location.ID,
		Result:   "success",
		Metadata: map[string]any{"name": location.Name},
	})
	return location, nil
}

// Update modifies an existing location.
func (s *LocationService) Update(ctx context.Context, id string, input LocationInput) (*models.Location, error) {
	ctx = ensureContext(ctx)

	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("location service: load location: %w", err)
	}

	updates := map[string]any{
		"address": strings.TrimSpace(input.Address),
		"city":    strings.TrimSpace(input.City),
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Model(&location).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("location name already exists")
		}
		return nil, fmt.Errorf("location service: update location: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "location.update",
		Resource: id,
		Result:   "success",
	})
	return &location, nil
}

// Delete removes a location. Blocked while any employee references it.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var location models.Location
		if err := tx.First(&location, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("location service: load location: %w", err)
		}

		var employees int64
		if err := tx.Model(&models.Employee{}).Where("location_id = ?", id).Count(&employees).Error; err != nil {
			return fmt.Errorf("location service: count employees: %w", err)
		}
		if employees > 0 {
			return ErrLocationHasEmployees
		}

		if err := tx.Delete(&location).Error; err != nil {
			return fmt.Errorf("location service: delete location: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "location.delete",
		Resource: id,
		Result:   "success",
	})
	return nil
}

// GetByID loads a single location.
func (s *LocationService) GetByID(ctx context.Context, id string) (*models.Location, error) {
	ctx = ensureContext(ctx)

	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("location service: get location: %w", err)
	}
	return &location, nil
}

// List returns all locations ordered by name.
func (s *LocationService) List(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Location{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var locations []models.Location
	if err := query.Order("name").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("location service: list locations: %w", err)
	}
	return locations, nil
}
