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
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = apperrors.New("ROLE_NOT_FOUND", "Role not found", http.StatusNotFound)
	// ErrRoleHasUsers blocks deletion of roles that users still reference.
	ErrRoleHasUsers = apperrors.New("ROLE_HAS_USERS", "Cannot delete role that has assigned users", http.StatusConflict)
)

// RoleService manages roles and their permission sets.
type RoleService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewRoleService constructs a RoleService using the provided database handle.
func NewRoleService(db *gorm.DB, audit *AuditService) (*RoleService, error) {
	if db == nil {
		return nil, errors.New("role service: db is required")
	}
	return &RoleService{db: db, auditService: audit}, nil
}

// RoleInput describes the scalar fields accepted when creating or updating a role.
type RoleInput struct {
	Name        string
	DisplayName string
	Description string
	Level       int
	IsActive    *bool
}

// RoleFilters captures listing filters.
type RoleFilters struct {
	Query    string
	IsActive *bool
}

// ListRolesOptions controls pagination for role listing.
type ListRolesOptions struct {
	Page     int
	PageSize int
	Filters  RoleFilters
}

// CreateRole registers a new role and sets its permission set to exactly
// permissionIDs. Creation and permission sync happen in one transaction.
func (s *RoleService) CreateRole(ctx context.Context, input RoleInput, permissionIDs []string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	role := &models.Role{
		Name:        name,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Description: strings.TrimSpace(input.Description),
		Level:       input.Level,
		IsActive:    true,
	}
	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewBadRequest("role name already exists")
			}
			return fmt.Errorf("role service: create role: %w", err)
		}
		return s.replacePermissions(tx, role, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.create",
		Resource: role.ID,
		Result:   "success",
		Metadata: map[string]any{"name": role.Name, "level": role.Level},
	})

	return s.loadRole(ctx, role.ID)
}

// UpdateRole modifies scalar fields and replaces the role's permission set
// with exactly permissionIDs. Last writer wins on concurrent syncs; the
// replace runs inside a transaction so no partial set is ever visible.
func (s *RoleService) UpdateRole(ctx context.Context, roleID string, input RoleInput, permissionIDs []string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, "id = ?", roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("role service: load role: %w", err)
		}

		updates := map[string]any{
			"display_name": strings.TrimSpace(input.DisplayName),
			"description":  strings.TrimSpace(input.Description),
			"level":        input.Level,
		}
		if name := strings.TrimSpace(input.Name); name != "" {
			updates["name"] = name
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		if err := tx.Model(&role).Updates(updates).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewBadRequest("role name already exists")
			}
			return fmt.Errorf("role service: update role: %w", err)
		}

		return s.replacePermissions(tx, &role, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.update",
		Resource: roleID,
		Result:   "success",
		Metadata: map[string]any{"permission_ids": normaliseIDs(permissionIDs)},
	})

	return s.loadRole(ctx, roleID)
}

// DeleteRole removes a role. Deletion is blocked, not cascaded, while any
// user still references the role, so nobody silently loses access.
func (s *RoleService) DeleteRole(ctx context.Context, roleID string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, "id = ?", roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("role service: load role: %w", err)
		}

		var userCount int64
		if err := tx.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&userCount).Error; err != nil {
			return fmt.Errorf("role service: count users: %w", err)
		}
		if userCount > 0 {
			return ErrRoleHasUsers
		}

		if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
			return fmt.Errorf("role service: clear role permissions: %w", err)
		}
		if err := tx.Delete(&role).Error; err != nil {
			return fmt.Errorf("role service: delete role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.delete",
		Resource: roleID,
		Result:   "success",
	})
	return nil
}

// DuplicateRole creates a new role copying the source's level and permission
// set at duplication time. The copy always starts active; later changes to
// the source's permission set do not propagate.
func (s *RoleService) DuplicateRole(ctx context.Context, sourceID, newName, newDisplayName string) (*models.Role, error) {
	ctx = ensureContext(ctx)

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperrors.NewBadRequest("role name is required")
	}

	var copyID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source models.Role
		if err := tx.Preload("Permissions").First(&source, "id = ?", sourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("role service: load role: %w", err)
		}

		duplicate := models.Role{
			Name:        newName,
			DisplayName: strings.TrimSpace(newDisplayName),
			Description: source.Description,
			Level:       source.Level,
			IsActive:    true,
		}
		if err := tx.Create(&duplicate).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewBadRequest("role name already exists")
			}
			return fmt.Errorf("role service: create duplicate: %w", err)
		}

		if len(source.Permissions) > 0 {
			if err := tx.Model(&duplicate).Association("Permissions").Replace(source.Permissions); err != nil {
				return fmt.Errorf("role service: copy permissions: %w", err)
			}
		}
		copyID = duplicate.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.duplicate",
		Resource: copyID,
		Result:   "success",
		Metadata: map[string]any{"source_id": sourceID},
	})

	return s.loadRole(ctx, copyID)
}

// AssignRoleToUser points the user at the given role. Permission overrides
// are untouched; they persist across role changes.
func (s *RoleService) AssignRoleToUser(ctx context.Context, userID, roleID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var role models.Role
	if err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: load role: %w", err)
	}

	user, err := s.setUserRole(ctx, userID, &role.ID)
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.assign",
		Resource: userID,
		Result:   "success",
		Metadata: map[string]any{"role_id": roleID},
	})
	return user, nil
}

// RemoveRoleFromUser clears the user's role reference.
func (s *RoleService) RemoveRoleFromUser(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.setUserRole(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "role.unassign",
		Resource: userID,
		Result:   "success",
	})
	return user, nil
}

// ListRoles returns paginated roles ordered by level descending.
func (s *RoleService) ListRoles(ctx context.Context, opts ListRolesOptions) ([]models.Role, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := clampPage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Role{})
	if q := strings.TrimSpace(opts.Filters.Query); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR display_name LIKE ? OR description LIKE ?", like, like, like)
	}
	if opts.Filters.IsActive != nil {
		query = query.Where("is_active = ?", *opts.Filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("role service: count roles: %w", err)
	}

	var roles []models.Role
	if err := query.
		Preload("Permissions").
		Order("level DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&roles).Error; err != nil {
		return nil, 0, fmt.Errorf("role service: list roles: %w", err)
	}
	return roles, total, nil
}

// GetRole loads a role with its permission set.
func (s *RoleService) GetRole(ctx context.Context, roleID string) (*models.Role, error) {
	return s.loadRole(ensureContext(ctx), roleID)
}

// ListPermissionsByGroup returns the active permission catalog keyed by group.
func (s *RoleService) ListPermissionsByGroup(ctx context.Context) (map[string][]models.Permission, error) {
	ctx = ensureContext(ctx)

	var perms []models.Permission
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("permission_group, name").
		Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("role service: list permissions: %w", err)
	}

	grouped := make(map[string][]models.Permission)
	for _, perm := range perms {
		grouped[perm.Group] = append(grouped[perm.Group], perm)
	}
	return grouped, nil
}

// SetPermissionActive flips a permission's global active flag. Deactivating
// a permission suppresses it everywhere, including explicit per-user grants.
func (s *RoleService) SetPermissionActive(ctx context.Context, permissionID string, active bool) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.Permission{}).Where("id = ?", permissionID).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("role service: set permission active: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("permission not found")
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		Action:   "permission.set_active",
		Resource: permissionID,
		Result:   "success",
		Metadata: map[string]any{"is_active": active},
	})
	return nil
}

// RoleStatistics summarises role and permission counts for dashboards.
type RoleStatistics struct {
	TotalRoles        int64 `json:"total_roles"`
	ActiveRoles       int64 `json:"active_roles"`
	TotalPermissions  int64 `json:"total_permissions"`
	ActivePermissions int64 `json:"active_permissions"`
	UsersWithRoles    int64 `json:"users_with_roles"`
	UsersWithoutRoles int64 `json:"users_without_roles"`
}

// Statistics computes aggregate counts across roles, permissions, and users.
func (s *RoleService) Statistics(ctx context.Context) (*RoleStatistics, error) {
	ctx = ensureContext(ctx)

	stats := &RoleStatistics{}
	db := s.db.WithContext(ctx)

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalRoles, db.Model(&models.Role{})},
		{&stats.ActiveRoles, db.Model(&models.Role{}).Where("is_active = ?", true)},
		{&stats.TotalPermissions, db.Model(&models.Permission{})},
		{&stats.ActivePermissions, db.Model(&models.Permission{}).Where("is_active = ?", true)},
		{&stats.UsersWithRoles, db.Model(&models.User{}).Where("role_id IS NOT NULL")},
		{&stats.UsersWithoutRoles, db.Model(&models.User{}).Where("role_id IS NULL")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("role service: statistics: %w", err)
		}
	}
	return stats, nil
}

func (s *RoleService) replacePermissions(tx *gorm.DB, role *models.Role, permissionIDs []string) error {
	ids := normaliseIDs(permissionIDs)
	if len(ids) == 0 {
		if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
			return fmt.Errorf("role service: clear permissions: %w", err)
		}
		return nil
	}

	var perms []models.Permission
	if err := tx.Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return fmt.Errorf("role service: load permissions: %w", err)
	}
	if len(perms) != len(ids) {
		return apperrors.NewNotFound("one or more permissions do not exist")
	}

	if err := tx.Model(role).Association("Permissions").Replace(perms); err != nil {
		return fmt.Errorf("role service: replace permissions: %w", err)
	}
	return nil
}

func (s *RoleService) loadRole(ctx context.Context, roleID string) (*models.Role, error) {
	var role models.Role
	if err := s.db.WithContext(ctx).Preload("Permissions").First(&role, "id = ?", roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("role service: reload role: %w", err)
	}
	return &role, nil
}

func (s *RoleService) setUserRole(ctx context.Context, userID string, roleID *string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("role service: load user: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("role_id", roleID).Error; err != nil {
		return nil, fmt.Errorf("role service: update user role: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("Role").First(&user, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("role service: reload user: %w", err)
	}
	return &user, nil
}
