package crud

import (
	"farmadmin/internal/auth"
	"farmadmin/internal/database"
	"farmadmin/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Scope narrows a query to the rows the current user may reach.
type Scope func(c *fiber.Ctx, tx *gorm.DB) *gorm.DB

var errOutsideScope = fiber.NewError(fiber.StatusForbidden, "You do not have access to this farm.")

// ByFarm limits non-ADMIN users to rows whose column holds one of their
// active farms. A user without memberships sees nothing.
func ByFarm(column string) Scope {
	return func(c *fiber.Ctx, tx *gorm.DB) *gorm.DB {
		ids, scoped := auth.MemberFarms(c)
		if !scoped {
			return tx
		}
		if len(ids) == 0 {
			return tx.Where("1 = 0")
		}
		return tx.Where(column+" IN ?", ids)
	}
}

// BySiteFarm is ByFarm for rows that reach their farm through site_id.
func BySiteFarm() Scope {
	return func(c *fiber.Ctx, tx *gorm.DB) *gorm.DB {
		ids, scoped := auth.MemberFarms(c)
		if !scoped {
			return tx
		}
		if len(ids) == 0 {
			return tx.Where("1 = 0")
		}
		sites := database.DB.Model(&models.Site{}).Select("id").Where("farm_id IN ?", ids)
		return tx.Where("site_id IN (?)", sites)
	}
}

func (r resource[T, PT]) scoped(c *fiber.Ctx, tx *gorm.DB) *gorm.DB {
	if r.opts.Scope == nil {
		return tx
	}
	return r.opts.Scope(c, tx)
}

// visible fails with 403 when a written row falls outside the user's farms.
func (r resource[T, PT]) visible(c *fiber.Ctx, tx *gorm.DB, id uint) error {
	if r.opts.Scope == nil {
		return nil
	}
	var n int64
	if err := r.opts.Scope(c, tx.Model(PT(new(T)))).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errOutsideScope
	}
	return nil
}
