package gari

import (
	"farmadmin/internal/auth"
	"farmadmin/internal/crud"
	"farmadmin/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Routes mounts the gari processing resources and their summaries. The
// summary routes are registered first so ":id" does not capture them.
func Routes(r fiber.Router, log *zap.Logger) {
	r.Get("/gari-inventory/summary", auth.RequirePermission("gari.inventory.view"), InventorySummaryHandler())
	r.Get("/gari-sales/summary", auth.RequirePermission("gari.sales.view"), SalesSummaryHandler())
	r.Get("/kpis/gari", auth.RequirePermission("gari.kpis.view"), KPIHandler())

	crud.Mount(r, "/gari-production-batches", "gari.production-batches", BatchHandlers(log))
	crud.Mount(r, "/gari-inventory", "gari.inventory", InventoryHandlers(log))
	crud.Mount(r, "/gari-waste-losses", "gari.waste-losses", WasteLossHandlers(log))
	crud.Mount(r, "/gari-sales", "gari.sales", SaleHandlers(log))
}

func BatchHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.ProductionBatch]{
		Name:          "Production batch",
		Scope:         crud.ByFarm("farm_id"),
		EntityType:    "gari_production_batch",
		Preloads:      []string{"Farm"},
		Order:         "processing_date DESC",
		Filters:       map[string]string{"farm_id": "farm_id", "status": "status", "gari_type": "gari_type"},
		DateColumn:    "processing_date",
		SearchColumns: []string{"batch_code"},
		Logger:        log,
		Prepare: func(tx *gorm.DB, b *models.ProductionBatch, creating bool) error {
			if b.BatchCode == "" {
				b.BatchCode = "GARI-" + crud.RandomCode(8)
			}
			if b.Status == "" {
				b.Status = models.BatchPlanned
			}
			b.Derive()
			return nil
		},
		Check: func(tx *gorm.DB, b *models.ProductionBatch) error {
			return crud.CheckRefs(tx,
				crud.To("farm_id", &models.Farm{}, b.FarmID),
				crud.ToOptional("harvest_lot_id", &models.HarvestLot{}, b.HarvestLotID),
			)
		},
	})
}

func InventoryHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.InventoryItem]{
		Name:       "Inventory item",
		Scope:      crud.ByFarm("farm_id"),
		EntityType: "gari_inventory",
		Preloads:   []string{"Farm", "ProductionBatch"},
		Order:      "production_date DESC, id DESC",
		Filters: map[string]string{
			"farm_id":                  "farm_id",
			"status":                   "status",
			"gari_type":                "gari_type",
			"gari_grade":               "gari_grade",
			"packaging_type":           "packaging_type",
			"gari_production_batch_id": "production_batch_id",
		},
		DateColumn: "production_date",
		Logger:     log,
		Prepare: func(tx *gorm.DB, item *models.InventoryItem, creating bool) error {
			if item.Status == "" {
				item.Status = models.InventoryInStock
			}
			if item.CostPerKg == nil && item.ProductionBatchID != nil {
				var batch models.ProductionBatch
				if err := tx.First(&batch, *item.ProductionBatchID).Error; err == nil && batch.CostPerKgGari > 0 {
					cost := batch.CostPerKgGari
					item.CostPerKg = &cost
				}
			}
			item.Derive()
			return nil
		},
		Check: func(tx *gorm.DB, item *models.InventoryItem) error {
			return crud.CheckRefs(tx,
				crud.To("farm_id", &models.Farm{}, item.FarmID),
				crud.ToOptional("gari_production_batch_id", &models.ProductionBatch{}, item.ProductionBatchID),
			)
		},
	})
}

func WasteLossHandlers(log *zap.Logger) crud.Handlers {
	return crud.New(crud.Options[models.WasteLoss]{
		Name:       "Waste loss",
		Scope:      crud.ByFarm("farm_id"),
		EntityType: "gari_waste_loss",
		Preloads:   []string{"Farm", "InventoryItem"},
		Order:      "loss_date DESC",
		Filters:    map[string]string{"farm_id": "farm_id", "loss_type": "loss_type"},
		DateColumn: "loss_date",
		Logger:     log,
		Prepare: func(tx *gorm.DB, w *models.WasteLoss, creating bool) error {
			if w.LossType == "" {
				w.LossType = "SPOILAGE"
			}
			if w.CostPerKg == nil && w.InventoryItemID != nil {
				var item models.InventoryItem
				if err := tx.First(&item, *w.InventoryItemID).Error; err == nil && item.CostPerKg != nil {
					cost := *item.CostPerKg
					w.CostPerKg = &cost
				}
			}
			w.Derive()
			return nil
		},
		Check: func(tx *gorm.DB, w *models.WasteLoss) error {
			return crud.CheckRefs(tx,
				crud.To("farm_id", &models.Farm{}, w.FarmID),
				crud.ToOptional("gari_production_batch_id", &models.ProductionBatch{}, w.ProductionBatchID),
				crud.ToOptional("gari_inventory_id", &models.InventoryItem{}, w.InventoryItemID),
			)
		},
	})
}
