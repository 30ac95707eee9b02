package asset

import (
	"fmt"
	"time"

	"farmadmin/internal/crud"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Routes(r fiber.Router, log *zap.Logger) {
	crud.Mount(r, "/asset-categories", "general.asset-categories", CategoryHandlers(log))
	crud.Mount(r, "/assets", "general.assets", AssetHandlers(log))
	crud.Mount(r, "/scale-devices", "general.scale-devices", ScaleDeviceHandlers(log))
}

func CategoryHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.AssetCategory]{
		Name:          "Asset category",
		EntityType:    "asset_category",
		Preloads:      []string{"Parent"},
		Order:         "name ASC",
		Filters:       map[string]string{"farm_id": "farm_id", "parent_id": "parent_id"},
		SearchColumns: []string{"name", "code"},
		Logger:        log,
		Check: func(tx *gorm.DB, cat *models.AssetCategory) error {
			if err := crud.CheckRefs(tx,
				crud.ToOptional("farm_id", &models.Farm{}, cat.FarmID),
				crud.ToOptional("parent_id", &models.AssetCategory{}, cat.ParentID),
			); err != nil {
				return err
			}
			return checkNoCycle(tx, cat)
		},
	})
}

// checkNoCycle rejects a parent that is the category itself or one of its
// descendants.
func checkNoCycle(tx *gorm.DB, cat *models.AssetCategory) error {
	if cat.ID == 0 || cat.ParentID == nil {
		return nil
	}
	seen := map[uint]bool{}
	for id := cat.ParentID; id != nil; {
		if *id == cat.ID {
			return respond.Invalid("parent_id", "A category cannot be its own ancestor.")
		}
		if seen[*id] {
			return nil
		}
		seen[*id] = true
		var parent models.AssetCategory
		if err := tx.Select("id", "parent_id").First(&parent, *id).Error; err != nil {
			return nil
		}
		id = parent.ParentID
	}
	return nil
}

func AssetHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.Asset]{
		Name:          "Asset",
		Scope:         crud.ByFarm("farm_id"),
		EntityType:    "asset",
		Preloads:      []string{"Farm", "AssetCategory"},
		Filters:       map[string]string{"farm_id": "farm_id", "status": "status", "asset_category_id": "asset_category_id"},
		DateColumn:    "purchase_date",
		SearchColumns: []string{"name", "asset_code", "serial_number"},
		Logger:        log,
		Prepare: func(tx *gorm.DB, a *models.Asset, creating bool) error {
			if a.Status == "" {
				a.Status = "ACTIVE"
			}
			if a.AssetCode == "" {
				code, err := crud.NextSequence(tx, &models.Asset{}, "asset_code", fmt.Sprintf("AST-%d-", time.Now().Year()), 4)
				if err != nil {
					return err
				}
				a.AssetCode = code
			}
			return nil
		},
		Check: func(tx *gorm.DB, a *models.Asset) error {
			if err := crud.CheckRefs(tx,
				crud.To("farm_id", &models.Farm{}, a.FarmID),
				crud.ToOptional("asset_category_id", &models.AssetCategory{}, a.AssetCategoryID),
			); err != nil {
				return err
			}
			return crud.Unique(tx, &models.Asset{}, "asset_code", a.AssetCode, a.ID)
		},
	})
}

func ScaleDeviceHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.ScaleDevice]{
		Name:       "Scale device",
		Scope:      crud.ByFarm("farm_id"),
		EntityType: "scale_device",
		Preloads:   []string{"Farm"},
		Order:      "name ASC",
		Filters:    map[string]string{"farm_id": "farm_id", "connection_type": "connection_type"},
		Logger:     log,
		Prepare: func(tx *gorm.DB, d *models.ScaleDevice, creating bool) error {
			if d.ConnectionType == "" {
				d.ConnectionType = "MOCK"
			}
			return nil
		},
		Check: func(tx *gorm.DB, d *models.ScaleDevice) error {
			return crud.CheckRefs(tx, crud.To("farm_id", &models.Farm{}, d.FarmID))
		},
	})
}
