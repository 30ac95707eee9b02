package access

import (
	"errors"

	"farmadmin/internal/auth"
	"farmadmin/internal/crud"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func targetUser(c *fiber.Ctx) (*models.User, error) {
	id, err := crud.ParseID(c)
	if err != nil {
		return nil, err
	}
	u, err := auth.LoadUser(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, err
	}
	return u, nil
}

// GET /api/v1/users/:id/permissions
func UserPermissionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := targetUser(c)
		if err != nil {
			return err
		}
		return respond.Data(c, auth.NewUserResponse(u))
	}
}

func changeUserPermissions(grant bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := targetUser(c)
		if err != nil {
			return err
		}
		var body PermissionsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := respond.Validate(&body); err != nil {
			return err
		}
		perms, err := findPermissions(database.DB, body.Permissions)
		if err != nil {
			return err
		}

		assoc := database.DB.Model(u).Association("Permissions")
		if grant {
			err = assoc.Append(perms)
		} else {
			err = assoc.Delete(perms)
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Permissions could not be changed")
		}

		saved, err := auth.LoadUser(u.ID)
		if err != nil {
			return err
		}
		return respond.Data(c, auth.NewUserResponse(saved))
	}
}

// POST /api/v1/users/:id/permissions
func GrantUserPermissionsHandler() fiber.Handler {
	return changeUserPermissions(true)
}

// DELETE /api/v1/users/:id/permissions
func RevokeUserPermissionsHandler() fiber.Handler {
	return changeUserPermissions(false)
}
