package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/models"
)

func openMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func TestSeedDataCreatesCatalogAndRoles(t *testing.T) {
	db := openMigratedDB(t)
	require.NoError(t, SeedData(db))

	var permCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	require.EqualValues(t, len(permissionCatalog()), permCount)

	var roles []models.Role
	require.NoError(t, db.Preload("Permissions").Order("level DESC").Find(&roles).Error)
	require.Len(t, roles, 5)

	require.Equal(t, "superadmin", roles[0].Name)
	require.Len(t, roles[0].Permissions, int(permCount))

	var viewer models.Role
	require.NoError(t, db.Preload("Permissions").First(&viewer, "name = ?", "viewer").Error)
	for _, perm := range viewer.Permissions {
		require.Contains(t, perm.Name, "view_")
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db := openMigratedDB(t)
	require.NoError(t, SeedData(db))

	// Simulate an admin trimming a seeded role before the next boot.
	var admin models.Role
	require.NoError(t, db.First(&admin, "name = ?", "admin").Error)
	require.NoError(t, db.Model(&admin).Association("Permissions").Clear())

	require.NoError(t, SeedData(db))

	var permCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	require.EqualValues(t, len(permissionCatalog()), permCount)

	count := db.Model(&admin).Association("Permissions").Count()
	require.Zero(t, count, "re-seeding must not restore a manually edited role")
}

func TestAdminRoleExcludesSystemGroup(t *testing.T) {
	db := openMigratedDB(t)
	require.NoError(t, SeedData(db))

	var admin models.Role
	require.NoError(t, db.Preload("Permissions").First(&admin, "name = ?", "admin").Error)
	require.NotEmpty(t, admin.Permissions)
	for _, perm := range admin.Permissions {
		require.NotEqual(t, "system", perm.Group)
	}
}
