package auth

import (
	"errors"
	"strings"

	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Phone                string `json:"phone" validate:"max=50"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is a user with its effective permission names.
type UserResponse struct {
	*models.User
	PermissionNames []string `json:"permission_names"`
}

func NewUserResponse(u *models.User) UserResponse {
	names := u.PermissionNames()
	if names == nil {
		names = []string{}
	}
	return UserResponse{User: u, PermissionNames: names}
}

// HashPassword bcrypt-hashes a plain password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// POST /api/v1/register
// The first account ever registered receives the ADMIN role.
func RegisterHandler(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := respond.Validate(&body); err != nil {
			return err
		}

		var existing int64
		database.DB.Unscoped().Model(&models.User{}).Where("email = ?", body.Email).Count(&existing)
		if existing > 0 {
			return respond.Invalid("email", "The email has already been taken.")
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: hash,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var userCount int64
			if err := tx.Unscoped().Model(&models.User{}).Count(&userCount).Error; err != nil {
				return err
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			if userCount > 0 {
				return nil
			}
			var admin models.Role
			if err := tx.Where("name = ?", models.AdminRole).First(&admin).Error; err != nil {
				return err
			}
			return tx.Model(&user).Association("Roles").Append(&admin)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be created")
		}

		loaded, err := LoadUser(user.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be loaded")
		}
		token, err := GenerateToken(secret, loaded)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":  NewUserResponse(loaded),
			"token": token,
		})
	}
}

// POST /api/v1/login
func LoginHandler(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := respond.Validate(&body); err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
			}
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		loaded, err := LoadUser(user.ID)
		if err != nil {
			return err
		}
		token, err := GenerateToken(secret, loaded)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be created")
		}

		return c.JSON(fiber.Map{
			"user":  NewUserResponse(loaded),
			"token": token,
		})
	}
}

// GET /api/v1/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated.")
		}
		return respond.Data(c, NewUserResponse(u))
	}
}

// POST /api/v1/logout
// Tokens are stateless; the client drops its copy.
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	}
}
