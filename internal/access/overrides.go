package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

// Grant upserts an explicit grant override for (user, permission). Granting an
// already granted permission refreshes the audit metadata without creating a
// second row.
func (c *Checker) Grant(ctx context.Context, userID, permissionName, grantedByID string) error {
	return c.writeOverride(ctx, userID, permissionName, grantedByID, true)
}

// Revoke upserts an explicit revoke override for (user, permission),
// suppressing any role-derived grant of that permission.
func (c *Checker) Revoke(ctx context.Context, userID, permissionName, revokedByID string) error {
	return c.writeOverride(ctx, userID, permissionName, revokedByID, false)
}

func (c *Checker) writeOverride(ctx context.Context, userID, permissionName, actorID string, granted bool) error {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("access checker: user id is required")
	}
	permissionName = strings.TrimSpace(permissionName)
	if permissionName == "" {
		return errors.New("access checker: permission name is required")
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("user not found")
			}
			return fmt.Errorf("access checker: load user: %w", err)
		}

		var perm models.Permission
		if err := tx.First(&perm, "name = ?", permissionName).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound(fmt.Sprintf("permission %s not found", permissionName))
			}
			return fmt.Errorf("access checker: load permission: %w", err)
		}

		override := models.UserPermission{
			UserID:       user.ID,
			PermissionID: perm.ID,
			Granted:      granted,
			GrantedAt:    time.Now().UTC(),
		}
		if actorID = strings.TrimSpace(actorID); actorID != "" {
			override.GrantedByID = &actorID
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "permission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"granted", "granted_at", "granted_by_id"}),
		}).Create(&override).Error
		if err != nil {
			return fmt.Errorf("access checker: write override: %w", err)
		}
		return nil
	})
}
