package schemas

import (
	"context"
	"net/url"

	"farmadmin/internal/client"
	"farmadmin/internal/kpi"
	"farmadmin/internal/metrics"
	"farmadmin/internal/page"

	"go.uber.org/zap"
)

var (
	gariTypes  = []string{"WHITE", "YELLOW"}
	gariGrades = []string{"FINE", "COARSE", "MIXED"}
	packaging  = []string{"1KG_POUCH", "2KG_POUCH", "5KG_PACK", "50KG_BAG", "BULK"}
)

func init() {
	register(page.Schema{
		Entity:       "batch",
		Title:        "Gari Production Batches",
		Path:         "/gari-production-batches",
		EmptyMessage: "No production batches found.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			date("processing_date", true),
			choice("cassava_source", "HARVESTED", "HARVESTED", "PURCHASED", "MIXED"),
			ref("harvest_lot_id", "/harvest-lots", false),
			number("cassava_quantity_kg"),
			number("cassava_cost_per_kg"),
			number("gari_produced_kg"),
			choice("gari_type", "WHITE", gariTypes...),
			choice("gari_grade", "FINE", gariGrades...),
			number("labour_cost"),
			number("fuel_cost"),
			number("equipment_cost"),
			number("water_cost"),
			number("transport_cost"),
			number("other_costs"),
			number("waste_kg"),
			choice("status", "PLANNED", "PLANNED", "IN_PROGRESS", "COMPLETED", "CANCELLED"),
			area("notes"),
		},
		Columns: []page.Column{
			col("Batch", "batch_code"),
			col("Date", "processing_date"),
			qty("Cassava", "cassava_quantity_kg", "kg"),
			qty("Gari", "gari_produced_kg", "kg"),
			qty("Yield", "conversion_yield_percent", "%"),
			col("Cost/kg", "cost_per_kg_gari"),
			badge("Status", "status"),
		},
	})

	register(page.Schema{
		Entity:       "inventory item",
		Title:        "Gari Inventory",
		Path:         "/gari-inventory",
		EmptyMessage: "No inventory items found.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			ref("gari_production_batch_id", "/gari-production-batches", false),
			choice("gari_type", "WHITE", gariTypes...),
			choice("gari_grade", "FINE", gariGrades...),
			choice("packaging_type", "1KG_POUCH", packaging...),
			number("quantity_kg"),
			{Name: "quantity_units", Kind: page.Integer},
			number("cost_per_kg"),
			choice("status", "IN_STOCK", "IN_STOCK", "RESERVED", "SOLD", "SPOILED", "DAMAGED"),
			date("production_date", false),
			date("expiry_date", false),
			area("notes"),
		},
		Columns: []page.Column{
			col("Batch", "gari_production_batch.batch_code"),
			col("Type", "gari_type"),
			col("Grade", "gari_grade"),
			col("Packaging", "packaging_type"),
			qty("Quantity", "quantity_kg", "kg"),
			col("Value", "total_cost"),
			badge("Status", "status"),
		},
	})

	register(page.Schema{
		Entity:       "waste loss",
		Title:        "Gari Waste & Losses",
		Path:         "/gari-waste-losses",
		EmptyMessage: "No waste or losses recorded.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			ref("gari_production_batch_id", "/gari-production-batches", false),
			ref("gari_inventory_id", "/gari-inventory", false),
			date("loss_date", true),
			choice("loss_type", "SPOILAGE", "SPOILAGE", "MOISTURE_DAMAGE", "SPILLAGE", "REJECTED_BATCH", "CUSTOMER_RETURN", "THEFT", "OTHER"),
			choice("gari_type", "", gariTypes...),
			choice("packaging_type", "", packaging...),
			number("quantity_kg"),
			{Name: "quantity_units", Kind: page.Integer},
			number("cost_per_kg"),
			area("description"),
			area("notes"),
		},
		Columns: []page.Column{
			col("Date", "loss_date"),
			col("Type", "loss_type"),
			qty("Quantity", "quantity_kg", "kg"),
			col("Loss Value", "total_loss_value"),
			col("Description", "description"),
		},
	})

	register(page.Schema{
		Entity:       "sale",
		Title:        "Gari Sales",
		Path:         "/gari-sales",
		EmptyMessage: "No sales recorded.",
		Fields: []page.Field{
			ref("farm_id", "/farms", true),
			ref("gari_production_batch_id", "/gari-production-batches", false),
			ref("gari_inventory_id", "/gari-inventory", false),
			date("sale_date", true),
			ref("customer_id", "/customers", false),
			text("customer_name", false),
			choice("customer_type", "RETAIL", "RETAIL", "BULK_BUYER", "DISTRIBUTOR", "CATERING", "HOTEL", "OTHER"),
			choice("gari_type", "WHITE", gariTypes...),
			choice("gari_grade", "FINE", gariGrades...),
			choice("packaging_type", "1KG_POUCH", packaging...),
			number("quantity_kg"),
			{Name: "quantity_units", Kind: page.Integer},
			number("unit_price"),
			number("discount"),
			choice("payment_method", "CASH", "CASH", "TRANSFER", "POS", "CHEQUE", "CREDIT"),
			number("amount_paid"),
			text("sales_channel", false),
			area("notes"),
		},
		Columns: []page.Column{
			col("Sale", "sale_code"),
			col("Date", "sale_date"),
			{Header: "Customer", Key: "customer_name", Format: customerName},
			qty("Quantity", "quantity_kg", "kg"),
			col("Amount", "final_amount"),
			col("Margin", "gross_margin"),
			badge("Payment", "payment_status"),
		},
	})
}

func customerName(r client.Record) string {
	if name := r.String("customer_name"); name != "" {
		return name
	}
	if name := r.String("customer.name"); name != "" {
		return name
	}
	return "Walk-in"
}

// InventoryTotals sums the weight and value of inventory rows; a missing
// field counts as zero.
func InventoryTotals(items []client.Record) (kg, value float64) {
	kg = metrics.Sum(items, func(r client.Record) float64 { return r.Float("quantity_kg") })
	value = metrics.Sum(items, func(r client.Record) float64 { return r.Float("total_cost") })
	return kg, value
}

const salesPageSize = 1000

// GariDashboard reads batches, in-stock inventory and sales for the date
// range in parallel and folds them into the gari KPIs. An empty farm covers
// every farm the user can reach. Server-side sales totals are preferred over
// the fold of the sales rows, which are read page by page.
func GariDashboard(c *client.Client, farm, from, to string, log *zap.Logger) *page.Dashboard[kpi.Gari] {
	period := url.Values{}
	if farm != "" {
		period.Set("farm_id", farm)
	}
	if from != "" {
		period.Set("date_from", from)
	}
	if to != "" {
		period.Set("date_to", to)
	}
	withPeriod := func(extra ...string) url.Values {
		q := url.Values{}
		for k, v := range period {
			q[k] = v
		}
		for i := 0; i+1 < len(extra); i += 2 {
			q.Set(extra[i], extra[i+1])
		}
		return q
	}

	batches := client.NewResource[client.Record](c, "/gari-production-batches")
	inventory := client.NewResource[client.Record](c, "/gari-inventory")
	sales := client.NewResource[client.Record](c, "/gari-sales")

	var (
		batchRows, stockRows, saleRows []client.Record
		summary                        struct {
			Overall *kpi.Overall `json:"overall"`
		}
	)

	fold := func() kpi.Gari {
		b := make([]kpi.Batch, len(batchRows))
		for i, r := range batchRows {
			b[i] = kpi.Batch{
				CassavaKg: r.Float("cassava_quantity_kg"),
				GariKg:    r.Float("gari_produced_kg"),
				CostPerKg: r.Float("cost_per_kg_gari"),
			}
		}
		stock := make([]float64, len(stockRows))
		for i, r := range stockRows {
			stock[i] = r.Float("quantity_kg")
		}
		s := make([]kpi.Sale, len(saleRows))
		for i, r := range saleRows {
			s[i] = kpi.Sale{
				QuantityKg:  r.Float("quantity_kg"),
				UnitPrice:   r.Float("unit_price"),
				FinalAmount: r.Float("final_amount"),
				GrossMargin: r.Float("gross_margin"),
			}
		}
		return kpi.Compute(b, stock, s, summary.Overall)
	}

	return page.NewDashboard("gari", fold, log).
		Read("batches", func(ctx context.Context) (err error) {
			batchRows, err = batches.List(ctx, withPeriod())
			return err
		}).
		Read("inventory", func(ctx context.Context) (err error) {
			q := url.Values{"status": {"IN_STOCK"}}
			if farm != "" {
				q.Set("farm_id", farm)
			}
			stockRows, err = inventory.List(ctx, q)
			return err
		}).
		Read("sales", func(ctx context.Context) (err error) {
			saleRows, err = sales.All(ctx, withPeriod(), salesPageSize)
			return err
		}).
		Read("sales summary", func(ctx context.Context) error {
			summary.Overall = nil
			return sales.Summary(ctx, "summary", withPeriod(), &summary)
		})
}
