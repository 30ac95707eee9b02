package catalog

import (
	"strings"

	"farmadmin/internal/crud"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Routes(r fiber.Router, log *zap.Logger) {
	crud.Mount(r, "/crops", "general.crops", CropHandlers(log))
	crud.Mount(r, "/products", "general.products", ProductHandlers(log))
	crud.Mount(r, "/customers", "general.customers", CustomerHandlers(log))
}

func CropHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Crop]{
		Name:          "Crop",
		EntityType:    "crop",
		Order:         "name ASC",
		Filters:       map[string]string{"category": "category"},
		SearchColumns: []string{"name"},
		Logger:        log,
	})
}

func ProductHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Product]{
		Name:          "Product",
		Scope:         crud.ByFarm("farm_id"),
		EntityType:    "product",
		Preloads:      []string{"Farm"},
		Order:         "name ASC",
		Filters:       map[string]string{"farm_id": "farm_id", "category": "category"},
		SearchColumns: []string{"name", "code"},
		Logger:        log,
		Prepare: func(tx *gorm.DB, p *models.Product, creating bool) error {
			p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
			return nil
		},
		Check: func(tx *gorm.DB, p *models.Product) error {
			if err := crud.CheckRefs(tx, crud.ToOptional("farm_id", &models.Farm{}, p.FarmID)); err != nil {
				return err
			}
			if p.Code == "" {
				return nil
			}
			// codes are unique within a farm
			q := tx.Model(&models.Product{}).Where("code = ? AND id <> ?", p.Code, p.ID)
			if p.FarmID != nil {
				q = q.Where("farm_id = ?", *p.FarmID)
			} else {
				q = q.Where("farm_id IS NULL")
			}
			var n int64
			if err := q.Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return respond.Invalid("code", "The code has already been taken.")
			}
			return nil
		},
	})
}

func CustomerHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Customer]{
		Name:          "Customer",
		EntityType:    "customer",
		Order:         "name ASC",
		Filters:       map[string]string{"farm_id": "farm_id", "customer_type": "customer_type"},
		SearchColumns: []string{"name", "email", "phone"},
		Logger:        log,
		Check: func(tx *gorm.DB, c *models.Customer) error {
			return crud.CheckRefs(tx, crud.ToOptional("farm_id", &models.Farm{}, c.FarmID))
		},
	})
}
