package gari

import (
	"farmadmin/internal/crud"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InventoryGroup struct {
	GariType       string  `json:"gari_type"`
	GariGrade      string  `json:"gari_grade"`
	PackagingType  string  `json:"packaging_type"`
	TotalKg        float64 `json:"total_kg"`
	TotalUnits     int64   `json:"total_units"`
	TotalCostValue float64 `json:"total_cost_value"`
}

// GET /api/v1/gari-inventory/summary?farm_id=1
// In-stock quantities grouped by type, grade and packaging.
func InventorySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := crud.ApplyFilters(c,
			byFarm(c, database.DB.Model(&models.InventoryItem{})).Where("status = ?", models.InventoryInStock),
			map[string]string{"farm_id": "farm_id"}, "", nil)
		if err != nil {
			return err
		}

		groups := make([]InventoryGroup, 0)
		err = q.Select(`gari_type, gari_grade, packaging_type,
				COALESCE(SUM(quantity_kg), 0) AS total_kg,
				COALESCE(SUM(quantity_units), 0) AS total_units,
				COALESCE(SUM(total_cost), 0) AS total_cost_value`).
			Group("gari_type, gari_grade, packaging_type").
			Order("gari_type, gari_grade, packaging_type").
			Scan(&groups).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Inventory summary could not be computed")
		}
		return respond.Data(c, groups)
	}
}

type SalesGroup struct {
	CustomerType  string  `json:"customer_type"`
	PackagingType string  `json:"packaging_type"`
	TotalKgSold   float64 `json:"total_kg_sold"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalCost     float64 `json:"total_cost"`
	TotalMargin   float64 `json:"total_margin"`
	AvgPricePerKg float64 `json:"avg_price_per_kg"`
	TotalSales    int64   `json:"total_sales"`
}

type SalesOverall struct {
	TotalKgSold      float64 `json:"total_kg_sold"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalCost        float64 `json:"total_cost"`
	TotalMargin      float64 `json:"total_margin"`
	TotalOutstanding float64 `json:"total_outstanding"`
	TotalSales       int64   `json:"total_sales"`
}

const salesTotals = `COALESCE(SUM(quantity_kg), 0) AS total_kg_sold,
	COALESCE(SUM(final_amount), 0) AS total_revenue,
	COALESCE(SUM(total_cost), 0) AS total_cost,
	COALESCE(SUM(gross_margin), 0) AS total_margin,
	COUNT(*) AS total_sales`

// GET /api/v1/gari-sales/summary?farm_id=1&date_from=2026-01-01&date_to=2026-01-31
func SalesSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := crud.ApplyFilters(c, byFarm(c, database.DB.Model(&models.Sale{})),
			map[string]string{"farm_id": "farm_id"}, "sale_date", nil)
		if err != nil {
			return err
		}

		groups := make([]SalesGroup, 0)
		err = q.Session(&gorm.Session{}).
			Select(salesTotals + `, customer_type, packaging_type, COALESCE(AVG(unit_price), 0) AS avg_price_per_kg`).
			Group("customer_type, packaging_type").
			Order("customer_type, packaging_type").
			Scan(&groups).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sales summary could not be computed")
		}

		var overall SalesOverall
		err = q.Session(&gorm.Session{}).
			Select(salesTotals + `, COALESCE(SUM(amount_outstanding), 0) AS total_outstanding`).
			Scan(&overall).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sales summary could not be computed")
		}

		return c.JSON(fiber.Map{"data": groups, "overall": overall})
	}
}
