package auth

import (
	"errors"
	"strings"

	"farmadmin/internal/database"
	"farmadmin/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserNameKey = "user_name"
	CtxUserKey     = "user"
	CtxFarmIDsKey  = "farm_ids"
)

// JWTMiddleware authenticates the bearer token and loads the user together
// with roles and permissions, so a deleted user loses access immediately.
func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated.")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		claims := &JWTCustomClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated.")
		}

		user, err := LoadUser(claims.UserID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated.")
		}

		c.Locals(CtxUserIDKey, user.ID)
		c.Locals(CtxUserNameKey, user.Name)
		c.Locals(CtxUserKey, user)
		if !user.HasRole(models.AdminRole) {
			c.Locals(CtxFarmIDsKey, user.ActiveFarmIDs())
		}

		return c.Next()
	}
}

// LoadUser fetches a user with direct and role permissions.
func LoadUser(id uint) (*models.User, error) {
	var user models.User
	err := database.DB.
		Preload("Roles.Permissions").
		Preload("Permissions").
		Preload("Farms").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the authenticated user, or nil outside JWTMiddleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(CtxUserKey).(*models.User)
	return u
}

// MemberFarms returns the farms the current user is limited to. scoped is
// false for ADMIN users, who reach every farm.
func MemberFarms(c *fiber.Ctx) (ids []uint, scoped bool) {
	ids, scoped = c.Locals(CtxFarmIDsKey).([]uint)
	return ids, scoped
}

// RequirePermission lets ADMIN users and holders of the permission through.
func RequirePermission(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated.")
		}
		if !u.Can(name) {
			return fiber.NewError(fiber.StatusForbidden, "This action is unauthorized.")
		}
		return c.Next()
	}
}

func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated.")
		}
		for _, r := range roles {
			if u.HasRole(r) {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Unauthorized. Admin access required.")
	}
}
