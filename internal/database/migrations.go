package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ardiansyah/workforce/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.UserPermission{},
		&models.Location{},
		&models.Brand{},
		&models.EmployeeContract{},
		&models.Employee{},
		&models.Shift{},
		&models.EmployeeShift{},
		&models.Presence{},
		&models.AuditLog{},
	)
}

type seedPermission struct {
	Name        string
	DisplayName string
	Description string
	Group       string
}

func permissionCatalog() []seedPermission {
	groups := map[string]string{
		"users":     "user",
		"employees": "employee",
		"locations": "location",
		"brands":    "brand",
		"shifts":    "shift",
		"presences": "presence record",
		"contracts": "employment contract",
	}
	order := []string{"users", "employees", "locations", "brands", "shifts", "presences", "contracts"}
	verbs := []string{"view", "create", "edit", "delete"}

	var perms []seedPermission
	for _, group := range order {
		noun := groups[group]
		for _, verb := range verbs {
			perms = append(perms, seedPermission{
				Name:        fmt.Sprintf("%s_%s", verb, group),
				DisplayName: fmt.Sprintf("%s %s", title(verb), title(group)),
				Description: fmt.Sprintf("Can %s %s records", verb, noun),
				Group:       group,
			})
		}
	}

	perms = append(perms,
		seedPermission{Name: "manage_user_permissions", DisplayName: "Manage User Permissions", Description: "Can grant and revoke permissions for users", Group: "users"},
		seedPermission{Name: "view_reports", DisplayName: "View Reports", Description: "Can view attendance reports and summaries", Group: "reports"},
		seedPermission{Name: "export_data", DisplayName: "Export Data", Description: "Can export data in various formats", Group: "reports"},
		seedPermission{Name: "system_settings", DisplayName: "System Settings", Description: "Can access and modify system settings", Group: "system"},
		seedPermission{Name: "audit_logs", DisplayName: "Audit Logs", Description: "Can view system audit logs", Group: "system"},
	)
	return perms
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type seedRole struct {
	Name        string
	DisplayName string
	Description string
	Level       int
	// grants selects the role's permission set from the catalog.
	grants func(p seedPermission) bool
}

func roleLadder() []seedRole {
	return []seedRole{
		{
			Name: "superadmin", DisplayName: "Super Administrator", Level: 100,
			Description: "Has access to all system functions",
			grants:      func(seedPermission) bool { return true },
		},
		{
			Name: "admin", DisplayName: "Administrator", Level: 80,
			Description: "Has access to most system functions",
			grants:      func(p seedPermission) bool { return p.Group != "system" },
		},
		{
			Name: "manager", DisplayName: "Manager", Level: 60,
			Description: "Can manage employees and daily operations",
			grants: func(p seedPermission) bool {
				switch p.Group {
				case "employees", "locations", "brands", "shifts", "presences", "contracts", "reports":
					return !strings.HasPrefix(p.Name, "delete_") || p.Group == "shifts" || p.Group == "presences"
				}
				return false
			},
		},
		{
			Name: "supervisor", DisplayName: "Supervisor", Level: 40,
			Description: "Can supervise daily operations",
			grants: func(p seedPermission) bool {
				switch p.Group {
				case "presences":
					return true
				case "employees", "shifts":
					return strings.HasPrefix(p.Name, "view_")
				}
				return false
			},
		},
		{
			Name: "viewer", DisplayName: "Viewer", Level: 20,
			Description: "Can only view data",
			grants:      func(p seedPermission) bool { return strings.HasPrefix(p.Name, "view_") },
		},
	}
}

// SeedData populates the permission catalog and the default role ladder.
// Seeding is idempotent: existing rows are kept, role permission sets are
// only written when the role is first created.
func SeedData(db *gorm.DB) error {
	catalog := permissionCatalog()

	byName := make(map[string]models.Permission, len(catalog))
	for _, seed := range catalog {
		perm := models.Permission{
			Name:        seed.Name,
			DisplayName: seed.DisplayName,
			Description: seed.Description,
			Group:       seed.Group,
			IsActive:    true,
		}
		var stored models.Permission
		if err := db.Where(models.Permission{Name: seed.Name}).Attrs(perm).FirstOrCreate(&stored).Error; err != nil {
			return fmt.Errorf("seed permission %s: %w", seed.Name, err)
		}
		byName[seed.Name] = stored
	}

	for _, seed := range roleLadder() {
		role := models.Role{
			Name:        seed.Name,
			DisplayName: seed.DisplayName,
			Description: seed.Description,
			Level:       seed.Level,
			IsActive:    true,
		}

		var stored models.Role
		result := db.Where(models.Role{Name: seed.Name}).Attrs(role).FirstOrCreate(&stored)
		if result.Error != nil {
			return fmt.Errorf("seed role %s: %w", seed.Name, result.Error)
		}
		if result.RowsAffected == 0 {
			continue // role existed, leave its permission set alone
		}

		var grants []models.Permission
		for _, p := range catalog {
			if seed.grants(p) {
				grants = append(grants, byName[p.Name])
			}
		}
		if err := db.Model(&stored).Association("Permissions").Replace(grants); err != nil {
			return fmt.Errorf("seed role %s permissions: %w", seed.Name, err)
		}
	}

	return nil
}
