package staff

import (
	"errors"
	"fmt"
	"strings"

	"farmadmin/internal/audit"
	"farmadmin/internal/auth"
	"farmadmin/internal/crud"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Phone    string   `json:"phone" validate:"max=50"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles"`
	// Farms are the user's farm memberships.
	Farms []models.UserFarm `json:"farms"`
}

// Absent fields keep their stored values; an empty password is ignored.
type UpdateUserRequest struct {
	Name     *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string   `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string   `json:"phone" validate:"omitempty,max=50"`
	Password string    `json:"password" validate:"omitempty,min=8"`
	Roles    *[]string `json:"roles"`
	// Farms, when present, replaces every membership of the user.
	Farms *[]models.UserFarm `json:"farms"`
}

// Routes mounts user management, which is ADMIN only: whoever edits users
// can hand out any role, ADMIN included.
func Routes(r fiber.Router, log *zap.Logger) {
	admin := auth.RequireRole(models.AdminRole)

	r.Get("/users", admin, ListUsersHandler())
	r.Get("/users/:id", admin, GetUserHandler())
	r.Post("/users", admin, CreateUserHandler(log))
	r.Put("/users/:id", admin, UpdateUserHandler(log))
	r.Patch("/users/:id", admin, UpdateUserHandler(log))
	r.Delete("/users/:id", admin, DeleteUserHandler(log))

	r.Post("/users/:id/farms", admin, AddMembershipHandler(log))
	r.Put("/users/:id/farms/:farmId", admin, UpdateMembershipHandler(log))
	r.Patch("/users/:id/farms/:farmId", admin, UpdateMembershipHandler(log))
	r.Delete("/users/:id/farms/:farmId", admin, RemoveMembershipHandler(log))

	crud.Mount(r, "/staff-assignments", "general.staff-assignments", AssignmentHandlers(log))
}

func loadUser(id uint) (*models.User, error) {
	var u models.User
	if err := database.DB.Preload("Roles").Preload("Farms.Farm").First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, err
	}
	return &u, nil
}

// findRoles resolves role names, failing on any unknown name.
func findRoles(tx *gorm.DB, names []string) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	if len(names) == 0 {
		return roles, nil
	}
	if err := tx.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	found := map[string]bool{}
	for _, r := range roles {
		found[r.Name] = true
	}
	verr := respond.NewValidationError()
	for i, n := range names {
		if !found[n] {
			verr.Add(fmt.Sprintf("roles.%d", i), "The selected roles."+fmt.Sprint(i)+" is invalid.")
		}
	}
	if !verr.Empty() {
		return nil, verr
	}
	return roles, nil
}

func recordUser(c *fiber.Ctx, log *zap.Logger, u *models.User, action models.AuditAction, before, after any) {
	desc := fmt.Sprintf("User %s %sd", u.Email, action)
	if err := audit.Record(c, "user", u.ID, action, desc, before, after); err != nil {
		log.Warn("audit log not written", zap.String("entity", "user"), zap.Error(err))
	}
}

// GET /api/v1/users?search=ada
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := crud.ApplyFilters(c, database.DB.Model(&models.User{}), nil, "", []string{"name", "email"})
		if err != nil {
			return err
		}
		users := make([]models.User, 0)
		if err := q.Preload("Roles").Preload("Farms.Farm").Order("name ASC").Find(&users).Error; err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return respond.Data(c, users)
	}
}

// GET /api/v1/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		u, err := loadUser(id)
		if err != nil {
			return err
		}
		return respond.Data(c, u)
	}
}

// POST /api/v1/users
func CreateUserHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := respond.Validate(&body); err != nil {
			return err
		}
		if err := crud.Unique(database.DB, &models.User{}, "email", body.Email, 0); err != nil {
			return err
		}
		roles, err := findRoles(database.DB, body.Roles)
		if err != nil {
			return err
		}
		if err := checkMemberships(database.DB, body.Farms); err != nil {
			return err
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}
		u := models.User{Name: body.Name, Email: body.Email, Phone: body.Phone, PasswordHash: hash}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Create(&u).Error; err != nil {
				return err
			}
			if err := syncMemberships(tx, u.ID, body.Farms); err != nil {
				return err
			}
			return tx.Model(&u).Association("Roles").Replace(roles)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be created")
		}

		saved, err := loadUser(u.ID)
		if err != nil {
			return err
		}
		recordUser(c, log, saved, models.AuditActionCreate, nil, saved)
		return respond.Created(c, saved)
	}
}

// PUT|PATCH /api/v1/users/:id
func UpdateUserHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		u, err := loadUser(id)
		if err != nil {
			return err
		}
		before := *u

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := respond.Validate(&body); err != nil {
			return err
		}

		if body.Name != nil {
			u.Name = *body.Name
		}
		if body.Phone != nil {
			u.Phone = *body.Phone
		}
		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if err := crud.Unique(database.DB, &models.User{}, "email", email, u.ID); err != nil {
				return err
			}
			u.Email = email
		}
		if body.Password != "" {
			hash, err := auth.HashPassword(body.Password)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
			}
			u.PasswordHash = hash
		}
		var roles []models.Role
		if body.Roles != nil {
			if roles, err = findRoles(database.DB, *body.Roles); err != nil {
				return err
			}
		}
		if body.Farms != nil {
			if err := checkMemberships(database.DB, *body.Farms); err != nil {
				return err
			}
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations, "created_at").Save(u).Error; err != nil {
				return err
			}
			if body.Farms != nil {
				if err := syncMemberships(tx, u.ID, *body.Farms); err != nil {
					return err
				}
			}
			if body.Roles != nil {
				return tx.Model(u).Association("Roles").Replace(roles)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be updated")
		}

		saved, err := loadUser(id)
		if err != nil {
			return err
		}
		recordUser(c, log, saved, models.AuditActionUpdate, before, saved)
		return respond.Data(c, saved)
	}
}

// DELETE /api/v1/users/:id
// Soft-deletes the account; the user can no longer authenticate.
func DeleteUserHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := crud.ParseID(c)
		if err != nil {
			return err
		}
		if me := auth.CurrentUser(c); me != nil && me.ID == id {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "You cannot delete your own account")
		}
		u, err := loadUser(id)
		if err != nil {
			return err
		}
		if err := database.DB.Delete(u).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be deleted")
		}
		recordUser(c, log, u, models.AuditActionDelete, u, nil)
		return respond.NoContent(c)
	}
}
