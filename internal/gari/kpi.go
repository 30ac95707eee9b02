package gari

import (
	"farmadmin/internal/crud"
	"farmadmin/internal/database"
	"farmadmin/internal/kpi"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
)

var byFarm = crud.ByFarm("farm_id")

// GET /api/v1/kpis/gari?farm_id=1&date_from=2026-01-01&date_to=2026-03-31
// Batches and sales are limited to the date range; stock is current.
func KPIHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		farm := map[string]string{"farm_id": "farm_id"}

		bq, err := crud.ApplyFilters(c, byFarm(c, database.DB.Model(&models.ProductionBatch{})), farm, "processing_date", nil)
		if err != nil {
			return err
		}
		var batches []models.ProductionBatch
		if err := bq.Find(&batches).Error; err != nil {
			return err
		}

		sq, err := crud.ApplyFilters(c, byFarm(c, database.DB.Model(&models.Sale{})), farm, "sale_date", nil)
		if err != nil {
			return err
		}
		var sales []models.Sale
		if err := sq.Find(&sales).Error; err != nil {
			return err
		}

		iq, err := crud.ApplyFilters(c,
			byFarm(c, database.DB.Model(&models.InventoryItem{})).Where("status = ?", models.InventoryInStock),
			farm, "", nil)
		if err != nil {
			return err
		}
		var stock []float64
		if err := iq.Pluck("quantity_kg", &stock).Error; err != nil {
			return err
		}

		rows := make([]kpi.Batch, len(batches))
		for i, b := range batches {
			rows[i] = kpi.Batch{CassavaKg: b.CassavaQuantityKg, GariKg: b.GariProducedKg, CostPerKg: b.CostPerKgGari}
		}
		saleRows := make([]kpi.Sale, len(sales))
		for i, s := range sales {
			saleRows[i] = kpi.Sale{QuantityKg: s.QuantityKg, UnitPrice: s.UnitPrice, FinalAmount: s.FinalAmount, GrossMargin: s.GrossMargin}
		}

		return respond.Data(c, kpi.Compute(rows, stock, saleRows, nil))
	}
}
