package access

import (
	"errors"
	"fmt"

	"farmadmin/internal/models"

	"gorm.io/gorm"
)

type menuEntry struct {
	menu    string
	submenu string
	label   string
	types   []string
}

var crudTypes = []string{"view", "create", "update"}

// menuTree is the grantable action list, in menu display order.
var menuTree = []menuEntry{
	{"general", "", "Dashboard", []string{"view"}},
	{"general", "farms", "Farms", crudTypes},
	{"general", "site-types", "Site Types", crudTypes},
	{"general", "sites", "Sites", crudTypes},
	{"general", "farm-zones", "Farm Zones", crudTypes},
	{"general", "seasons", "Seasons", crudTypes},
	{"general", "crops", "Crops", crudTypes},
	{"general", "products", "Products", crudTypes},
	{"general", "customers", "Customers", crudTypes},
	{"general", "asset-categories", "Asset Categories", crudTypes},
	{"general", "assets", "Assets", crudTypes},
	{"general", "scale-devices", "Scale Devices", crudTypes},
	{"general", "harvest-lots", "Harvest Lots", crudTypes},
	{"general", "staff-assignments", "Staff Assignments", crudTypes},
	{"gari", "production-batches", "Production Batches", crudTypes},
	{"gari", "inventory", "Inventory", crudTypes},
	{"gari", "waste-losses", "Waste & Losses", crudTypes},
	{"gari", "sales", "Sales", crudTypes},
	{"gari", "kpis", "KPIs", []string{"view"}},
	{"admin", "roles", "Roles", crudTypes},
	{"admin", "users", "Users", crudTypes},
	{"admin", "audit-logs", "Audit Logs", []string{"view", "update"}},
}

// MenuPermissions expands menuTree into rows.
func MenuPermissions() []models.MenuPermission {
	var out []models.MenuPermission
	order := 0
	for _, e := range menuTree {
		for _, t := range e.types {
			order++
			mp := models.MenuPermission{
				MenuKey:        e.menu,
				PermissionType: t,
				Name:           e.label,
				Description:    fmt.Sprintf("%s %s", t, e.label),
				SortOrder:      order,
			}
			if e.submenu != "" {
				sub := e.submenu
				mp.SubmenuKey = &sub
			}
			out = append(out, mp)
		}
	}
	return out
}

// Seed installs the menu permissions, one Permission per entry and an ADMIN
// role holding all of them. It is idempotent.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, mp := range MenuPermissions() {
			name := mp.PermissionName()

			var existing models.MenuPermission
			q := tx.Where("menu_key = ? AND permission_type = ?", mp.MenuKey, mp.PermissionType)
			if mp.SubmenuKey != nil {
				q = q.Where("submenu_key = ?", *mp.SubmenuKey)
			} else {
				q = q.Where("submenu_key IS NULL")
			}
			err := q.First(&existing).Error
			switch {
			case err == nil:
				mp.ID = existing.ID
				if err := tx.Save(&mp).Error; err != nil {
					return fmt.Errorf("update menu permission %s: %w", name, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&mp).Error; err != nil {
					return fmt.Errorf("create menu permission %s: %w", name, err)
				}
			default:
				return err
			}

			perm := models.Permission{Name: name}
			if err := tx.Where(models.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
				return fmt.Errorf("create permission %s: %w", name, err)
			}
		}

		admin := models.Role{Name: models.AdminRole}
		if err := tx.Where(models.Role{Name: models.AdminRole}).FirstOrCreate(&admin).Error; err != nil {
			return fmt.Errorf("create admin role: %w", err)
		}
		return syncAll(tx, &admin)
	})
}

// syncAll grants every permission to role.
func syncAll(tx *gorm.DB, role *models.Role) error {
	var all []models.Permission
	if err := tx.Find(&all).Error; err != nil {
		return err
	}
	return tx.Model(role).Association("Permissions").Replace(all)
}
