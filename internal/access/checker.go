package access

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

// Checker resolves effective permissions for users. Resolution order: a
// deactivated user holds nothing; an active role supplies its active
// permissions unless a per-user revoke suppresses them; a per-user grant
// supplies a permission regardless of role, as long as the permission itself
// is active. A globally deactivated permission is never effective, even
// through an explicit grant.
type Checker struct {
	db *gorm.DB
}

// NewChecker constructs a permission checker backed by the provided database.
func NewChecker(db *gorm.DB) (*Checker, error) {
	if db == nil {
		return nil, errors.New("access checker: db is required")
	}
	return &Checker{db: db}, nil
}

// HasPermission reports whether the user may perform the named permission.
// Missing roles and missing overrides are "no grant", never an error.
func (c *Checker) HasPermission(ctx context.Context, userID, permissionName string) (bool, error) {
	ctx = ensureContext(ctx)

	permissionName = strings.TrimSpace(permissionName)
	if permissionName == "" {
		return false, errors.New("access checker: permission name is required")
	}

	user, err := c.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}

	return resolve(user, permissionName), nil
}

// HasAnyPermission reports whether at least one of the named permissions
// resolves, evaluating left to right and short-circuiting on the first hit.
func (c *Checker) HasAnyPermission(ctx context.Context, userID string, permissionNames []string) (bool, error) {
	ctx = ensureContext(ctx)

	user, err := c.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, name := range permissionNames {
		if resolve(user, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPermissions reports whether every named permission resolves,
// short-circuiting on the first miss.
func (c *Checker) HasAllPermissions(ctx context.Context, userID string, permissionNames []string) (bool, error) {
	ctx = ensureContext(ctx)

	user, err := c.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, name := range permissionNames {
		if !resolve(user, strings.TrimSpace(name)) {
			return false, nil
		}
	}
	return true, nil
}

// Authorize returns ErrForbidden when the user lacks the named permission.
func (c *Checker) Authorize(ctx context.Context, userID, permissionName string) error {
	allowed, err := c.HasPermission(ctx, userID, permissionName)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrForbidden.WithInternal(fmt.Errorf("missing permission %s", permissionName))
	}
	return nil
}

// GetUserPermissions returns the user's effective permission set for display
// and auditing: active role permissions minus explicit revokes, plus explicit
// grants, restricted to globally active permissions. The result is a set —
// deduplicated and sorted by name, independent of storage order.
func (c *Checker) GetUserPermissions(ctx context.Context, userID string) ([]models.Permission, error) {
	ctx = ensureContext(ctx)

	user, err := c.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	effective := make(map[string]models.Permission)

	if user.IsActive {
		revoked := make(map[string]struct{})
		for _, override := range user.Overrides {
			if !override.Granted {
				revoked[override.PermissionID] = struct{}{}
			}
		}

		if user.Role != nil && user.Role.IsActive {
			for _, perm := range user.Role.Permissions {
				if !perm.IsActive {
					continue
				}
				if _, isRevoked := revoked[perm.ID]; isRevoked {
					continue
				}
				effective[perm.ID] = perm
			}
		}

		for _, override := range user.Overrides {
			if !override.Granted || override.Permission == nil || !override.Permission.IsActive {
				continue
			}
			effective[override.PermissionID] = *override.Permission
		}
	}

	perms := make([]models.Permission, 0, len(effective))
	for _, perm := range effective {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })
	return perms, nil
}

func (c *Checker) loadUser(ctx context.Context, userID string) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("access checker: user id is required")
	}

	var user models.User
	err := c.db.WithContext(ctx).
		Preload("Role.Permissions").
		Preload("Overrides.Permission").
		First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("access checker: load user: %w", err)
	}
	return &user, nil
}

// resolve applies the ordered, short-circuiting algorithm for a single name
// against a fully loaded user.
func resolve(user *models.User, permissionName string) bool {
	if !user.IsActive || permissionName == "" {
		return false
	}

	if user.Role != nil && user.Role.IsActive {
		if roleConfers(user.Role, permissionName) && !explicitlyRevoked(user, permissionName) {
			return true
		}
	}

	for _, override := range user.Overrides {
		if override.Granted && override.Permission != nil &&
			override.Permission.Name == permissionName && override.Permission.IsActive {
			return true
		}
	}
	return false
}

func roleConfers(role *models.Role, permissionName string) bool {
	for _, perm := range role.Permissions {
		if perm.Name == permissionName && perm.IsActive {
			return true
		}
	}
	return false
}

func explicitlyRevoked(user *models.User, permissionName string) bool {
	for _, override := range user.Overrides {
		if !override.Granted && override.Permission != nil && override.Permission.Name == permissionName {
			return true
		}
	}
	return false
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
