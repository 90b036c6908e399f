package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/database/testutil"
	"github.com/ardiansyah/workforce/internal/models"
	apperrors "github.com/ardiansyah/workforce/pkg/errors"
)

func setupChecker(t *testing.T) (*gorm.DB, *Checker) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	checker, err := NewChecker(db)
	require.NoError(t, err)
	return db, checker
}

func createPermission(t *testing.T, db *gorm.DB, name string, active bool) models.Permission {
	t.Helper()

	perm := models.Permission{Name: name, DisplayName: name, Group: "test", IsActive: active}
	require.NoError(t, db.Create(&perm).Error)
	return perm
}

func createRole(t *testing.T, db *gorm.DB, name string, level int, active bool, perms ...models.Permission) models.Role {
	t.Helper()

	role := models.Role{Name: name, DisplayName: name, Level: level, IsActive: active}
	require.NoError(t, db.Create(&role).Error)
	if len(perms) > 0 {
		require.NoError(t, db.Model(&role).Association("Permissions").Replace(perms))
	}
	return role
}

func createUser(t *testing.T, db *gorm.DB, email string, active bool, roleID *string) models.User {
	t.Helper()

	user := models.User{Name: email, Email: email, Password: "x", IsActive: active, RoleID: roleID}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestDeactivatedUserHasNoPermissions(t *testing.T) {
	db, checker := setupChecker(t)

	view := createPermission(t, db, "view_shifts", true)
	role := createRole(t, db, "supervisor", 40, true, view)
	user := createUser(t, db, "inactive@example.com", false, &role.ID)
	require.NoError(t, checker.Grant(context.Background(), user.ID, "view_shifts", ""))

	allowed, err := checker.HasPermission(context.Background(), user.ID, "view_shifts")
	require.NoError(t, err)
	require.False(t, allowed, "deactivation dominates role and overrides")
}

func TestInactivePermissionIsNeverEffective(t *testing.T) {
	db, checker := setupChecker(t)

	edit := createPermission(t, db, "edit_shifts", true)
	role := createRole(t, db, "manager", 60, true, edit)
	user := createUser(t, db, "manager@example.com", true, &role.ID)
	require.NoError(t, checker.Grant(context.Background(), user.ID, "edit_shifts", ""))

	require.NoError(t, db.Model(&models.Permission{}).Where("id = ?", edit.ID).Update("is_active", false).Error)

	allowed, err := checker.HasPermission(context.Background(), user.ID, "edit_shifts")
	require.NoError(t, err)
	require.False(t, allowed, "deactivated permission is a hard kill switch")

	perms, err := checker.GetUserPermissions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, perms)
}

func TestExplicitRevokeSuppressesRoleGrant(t *testing.T) {
	db, checker := setupChecker(t)

	view := createPermission(t, db, "view_employees", true)
	role := createRole(t, db, "supervisor", 40, true, view)
	user := createUser(t, db, "revoked@example.com", true, &role.ID)

	allowed, err := checker.HasPermission(context.Background(), user.ID, "view_employees")
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, checker.Revoke(context.Background(), user.ID, "view_employees", ""))

	allowed, err = checker.HasPermission(context.Background(), user.ID, "view_employees")
	require.NoError(t, err)
	require.False(t, allowed, "explicit revoke wins over role grant")
}

func TestExplicitGrantWorksWithoutRole(t *testing.T) {
	db, checker := setupChecker(t)

	createPermission(t, db, "view_presences", true)
	user := createUser(t, db, "norole@example.com", true, nil)
	require.NoError(t, checker.Grant(context.Background(), user.ID, "view_presences", ""))

	allowed, err := checker.HasPermission(context.Background(), user.ID, "view_presences")
	require.NoError(t, err)
	require.True(t, allowed, "direct grant compensates for having no role")
}

func TestInactiveRoleConfersNothing(t *testing.T) {
	db, checker := setupChecker(t)

	view := createPermission(t, db, "view_brands", true)
	role := createRole(t, db, "dormant", 10, false, view)
	user := createUser(t, db, "dormant@example.com", true, &role.ID)

	allowed, err := checker.HasPermission(context.Background(), user.ID, "view_brands")
	require.NoError(t, err)
	require.False(t, allowed)

	// A direct grant still works while the role is inactive.
	require.NoError(t, checker.Grant(context.Background(), user.ID, "view_brands", ""))
	allowed, err = checker.HasPermission(context.Background(), user.ID, "view_brands")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestGetUserPermissionsMergesRoleAndOverrides(t *testing.T) {
	db, checker := setupChecker(t)

	viewEmployees := createPermission(t, db, "view_employees", true)
	viewShifts := createPermission(t, db, "view_shifts", true)
	createPermission(t, db, "edit_shifts", true)

	role := createRole(t, db, "supervisor", 40, true, viewEmployees, viewShifts)
	user := createUser(t, db, "supervisor@example.com", true, &role.ID)
	require.NoError(t, checker.Grant(context.Background(), user.ID, "edit_shifts", ""))

	perms, err := checker.GetUserPermissions(context.Background(), user.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(perms))
	for _, perm := range perms {
		names = append(names, perm.Name)
	}
	require.ElementsMatch(t, []string{"view_employees", "view_shifts", "edit_shifts"}, names)

	// Idempotent: a second call over unchanged data yields the same set.
	again, err := checker.GetUserPermissions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, perms, again)
}

func TestGetUserPermissionsDeduplicatesGrantOverlappingRole(t *testing.T) {
	db, checker := setupChecker(t)

	view := createPermission(t, db, "view_locations", true)
	role := createRole(t, db, "viewer", 20, true, view)
	user := createUser(t, db, "viewer@example.com", true, &role.ID)
	require.NoError(t, checker.Grant(context.Background(), user.ID, "view_locations", ""))

	perms, err := checker.GetUserPermissions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	db, checker := setupChecker(t)

	view := createPermission(t, db, "view_shifts", true)
	createPermission(t, db, "delete_shifts", true)
	role := createRole(t, db, "viewer", 20, true, view)
	user := createUser(t, db, "any@example.com", true, &role.ID)

	any, err := checker.HasAnyPermission(context.Background(), user.ID, []string{"delete_shifts", "view_shifts"})
	require.NoError(t, err)
	require.True(t, any)

	all, err := checker.HasAllPermissions(context.Background(), user.ID, []string{"view_shifts", "delete_shifts"})
	require.NoError(t, err)
	require.False(t, all)

	all, err = checker.HasAllPermissions(context.Background(), user.ID, []string{"view_shifts"})
	require.NoError(t, err)
	require.True(t, all)
}

func TestAuthorizeReturnsForbidden(t *testing.T) {
	db, checker := setupChecker(t)

	createPermission(t, db, "system_settings", true)
	user := createUser(t, db, "plain@example.com", true, nil)

	err := checker.Authorize(context.Background(), user.ID, "system_settings")
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	require.Equal(t, apperrors.ErrForbidden.Code, appErr.Code)
	require.Contains(t, appErr.Error(), "system_settings")
}

func TestGrantThenRevokeUpserts(t *testing.T) {
	db, checker := setupChecker(t)

	perm := createPermission(t, db, "export_data", true)
	actor := createUser(t, db, "actor@example.com", true, nil)
	user := createUser(t, db, "target@example.com", true, nil)

	require.NoError(t, checker.Grant(context.Background(), user.ID, "export_data", actor.ID))
	require.NoError(t, checker.Revoke(context.Background(), user.ID, "export_data", actor.ID))

	var overrides []models.UserPermission
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&overrides).Error)
	require.Len(t, overrides, 1, "upsert must not accumulate rows")
	require.False(t, overrides[0].Granted)
	require.Equal(t, perm.ID, overrides[0].PermissionID)
	require.NotNil(t, overrides[0].GrantedByID)
	require.Equal(t, actor.ID, *overrides[0].GrantedByID)
}

func TestGrantUnknownPermissionIsNotFound(t *testing.T) {
	db, checker := setupChecker(t)

	user := createUser(t, db, "nf@example.com", true, nil)

	err := checker.Grant(context.Background(), user.ID, "does_not_exist", "")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrNotFound.Code, apperrors.FromError(err).Code)
}

func TestOverridesSurviveRoleChanges(t *testing.T) {
	db, checker := setupChecker(t)

	view := createPermission(t, db, "view_contracts", true)
	role := createRole(t, db, "clerk", 10, true, view)
	user := createUser(t, db, "mobile@example.com", true, &role.ID)
	require.NoError(t, checker.Grant(context.Background(), user.ID, "view_contracts", ""))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("role_id", nil).Error)

	allowed, err := checker.HasPermission(context.Background(), user.ID, "view_contracts")
	require.NoError(t, err)
	require.True(t, allowed, "overrides are independent of role assignment")
}
