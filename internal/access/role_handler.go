package access

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"farmadmin/internal/auth"
	"farmadmin/internal/crud"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Permissions *[]string `json:"permissions"`
}

type PermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

// Routes mounts role and permission management. All of it is ADMIN only.
func Routes(r fiber.Router) {
	admin := auth.RequireRole(models.AdminRole)

	r.Get("/roles/menu-permissions", admin, MenuPermissionsHandler())
	r.Get("/roles", admin, ListRolesHandler())
	r.Get("/roles/:id", admin, GetRoleHandler())
	r.Post("/roles", admin, CreateRoleHandler())
	r.Put("/roles/:id", admin, UpdateRoleHandler())
	r.Patch("/roles/:id", admin, UpdateRoleHandler())
	r.Delete("/roles/:id", admin, DeleteRoleHandler())

	r.Get("/permissions", admin, ListPermissionsHandler())
	r.Get("/users/:id/permissions", admin, UserPermissionsHandler())
	r.Post("/users/:id/permissions", admin, GrantUserPermissionsHandler())
	r.Delete("/users/:id/permissions", admin, RevokeUserPermissionsHandler())
}

// IsAdmin reports whether name is the all-permissions role.
func IsAdmin(name string) bool {
	return name == models.AdminRole
}

// findPermissions resolves names and reports unknown ones per index.
func findPermissions(tx *gorm.DB, names []string) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(names))
	if len(names) == 0 {
		return perms, nil
	}
	if err := tx.Where("name IN ?", names).Find(&perms).Error; err != nil {
		return nil, err
	}
	found := map[string]bool{}
	for _, p := range perms {
		found[p.Name] = true
	}
	verr := respond.NewValidationError()
	for i, n := range names {
		if !found[n] {
			field := fmt.Sprintf("permissions.%d", i)
			verr.Add(field, "The selected "+field+" is invalid.")
		}
	}
	if !verr.Empty() {
		return nil, verr
	}
	return perms, nil
}

func loadRole(id uint) (*models.Role, error) {
	var role models.Role
	if err := database.DB.Preload("Permissions").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Role not found")
		}
		return nil, err
	}
	return &role, nil
}

// GroupedMenu is menu_key -> submenu_key ("main" when absent) -> entries.
type GroupedMenu map[string]map[string][]models.MenuPermission

func groupMenu(rows []models.MenuPermission) GroupedMenu {
	grouped := GroupedMenu{}
	for _, mp := range rows {
		sub := "main"
		if mp.SubmenuKey != nil && *mp.SubmenuKey != "" {
			sub = *mp.SubmenuKey
		}
		if grouped[mp.MenuKey] == nil {
			grouped[mp.MenuKey] = map[string][]models.MenuPermission{}
		}
		grouped[mp.MenuKey][sub] = append(grouped[mp.MenuKey][sub], mp)
	}
	return grouped
}

// GET /api/v1/roles/menu-permissions
func MenuPermissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []models.MenuPermission
		if err := database.DB.Order("menu_key").Order("sort_order").Find(&rows).Error; err != nil {
			return fmt.Errorf("list menu permissions: %w", err)
		}
		all := make([]string, 0, len(rows))
		for _, mp := range rows {
			all = append(all, mp.PermissionName())
		}
		sort.Strings(all)
		return c.JSON(fiber.Map{
			"data":            groupMenu(rows),
			"all_permissions": all,
		})
	}
}

// GET /api/v1/roles
func ListRolesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles := make([]models.Role, 0)
		if err := database.DB.Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		return respond.Data(c, roles)
	}
}

// GET /api/v1/roles/:id
func GetRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		role, err := loadRole(id)
		if err != nil {
			return err
		}
		return respond.Data(c, role)
	}
}

// POST /api/v1/roles
// A role named ADMIN always receives every permission.
func CreateRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := respond.Validate(&body); err != nil {
			return err
		}
		if err := crud.Unique(database.DB, &models.Role{}, "name", body.Name, 0); err != nil {
			return err
		}
		perms, err := findPermissions(database.DB, body.Permissions)
		if err != nil {
			return err
		}

		role := models.Role{Name: body.Name}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Permissions").Create(&role).Error; err != nil {
				return err
			}
			if IsAdmin(role.Name) {
				return syncAll(tx, &role)
			}
			return tx.Model(&role).Association("Permissions").Replace(perms)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Role could not be created")
		}

		saved, err := loadRole(role.ID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Role created successfully",
			"data":    saved,
		})
	}
}

// PUT|PATCH /api/v1/roles/:id
// ADMIN keeps its name and always ends with every permission.
func UpdateRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		role, err := loadRole(id)
		if err != nil {
			return err
		}

		var body UpdateRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := respond.Validate(&body); err != nil {
			return err
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if IsAdmin(role.Name) && name != role.Name {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Cannot rename ADMIN role")
			}
			if err := crud.Unique(database.DB, &models.Role{}, "name", name, role.ID); err != nil {
				return err
			}
			role.Name = name
		}

		var perms []models.Permission
		if body.Permissions != nil && !IsAdmin(role.Name) {
			if perms, err = findPermissions(database.DB, *body.Permissions); err != nil {
				return err
			}
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(role).Omit("Permissions").Update("name", role.Name).Error; err != nil {
				return err
			}
			if IsAdmin(role.Name) {
				return syncAll(tx, role)
			}
			if body.Permissions != nil {
				return tx.Model(role).Association("Permissions").Replace(perms)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Role could not be updated")
		}

		saved, err := loadRole(id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message": "Role updated successfully",
			"data":    saved,
		})
	}
}

// DELETE /api/v1/roles/:id
func DeleteRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		role, err := loadRole(id)
		if err != nil {
			return err
		}
		if IsAdmin(role.Name) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Cannot delete ADMIN role")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(role).Association("Permissions").Clear(); err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM user_roles WHERE role_id = ?", role.ID).Error; err != nil {
				return err
			}
			return tx.Delete(role).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Role could not be deleted")
		}
		return c.JSON(fiber.Map{"message": "Role deleted successfully"})
	}
}

// GET /api/v1/permissions
func ListPermissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		perms := make([]models.Permission, 0)
		if err := database.DB.Order("name").Find(&perms).Error; err != nil {
			return fmt.Errorf("list permissions: %w", err)
		}
		return respond.Data(c, perms)
	}
}
