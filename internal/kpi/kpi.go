// Package kpi folds production, stock and sales rows into the gari
// dashboard figures. The API and the terminal dashboard share it.
package kpi

import "farmadmin/internal/metrics"

type Batch struct {
	CassavaKg float64
	GariKg    float64
	CostPerKg float64
}

type Sale struct {
	QuantityKg  float64
	UnitPrice   float64
	FinalAmount float64
	GrossMargin float64
}

// Overall carries server-side sales totals; when present they win over the
// fold of the (possibly paginated) sales rows.
type Overall struct {
	TotalKgSold  float64 `json:"total_kg_sold"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalMargin  float64 `json:"total_margin"`
	TotalSales   int64   `json:"total_sales"`
}

type Gari struct {
	TotalCassavaKg     float64 `json:"total_cassava_kg"`
	TotalGariKg        float64 `json:"total_gari_kg"`
	AvgYieldPercent    float64 `json:"avg_yield_percent"`
	AvgCostPerKg       float64 `json:"avg_cost_per_kg"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalMargin        float64 `json:"total_margin"`
	MarginPercent      float64 `json:"margin_percent"`
	TotalSalesVolumeKg float64 `json:"total_sales_volume_kg"`
	AvgPricePerKg      float64 `json:"avg_price_per_kg"`
	TotalStockKg       float64 `json:"total_stock_kg"`
	TotalBatches       int     `json:"total_batches"`
	TotalSales         int64   `json:"total_sales"`
}

func Compute(batches []Batch, stockKg []float64, sales []Sale, overall *Overall) Gari {
	g := Gari{
		TotalCassavaKg: metrics.Sum(batches, func(b Batch) float64 { return b.CassavaKg }),
		TotalGariKg:    metrics.Sum(batches, func(b Batch) float64 { return b.GariKg }),
		AvgCostPerKg:   metrics.Avg(batches, func(b Batch) float64 { return b.CostPerKg }),
		TotalStockKg:   metrics.Sum(stockKg, func(v float64) float64 { return v }),
		AvgPricePerKg: metrics.WeightedAvg(sales,
			func(s Sale) float64 { return s.UnitPrice },
			func(s Sale) float64 { return s.QuantityKg }),
		TotalBatches: len(batches),
	}
	g.AvgYieldPercent = metrics.Percent(g.TotalGariKg, g.TotalCassavaKg)

	if overall != nil {
		g.TotalRevenue = overall.TotalRevenue
		g.TotalMargin = overall.TotalMargin
		g.TotalSalesVolumeKg = overall.TotalKgSold
		g.TotalSales = overall.TotalSales
	} else {
		g.TotalRevenue = metrics.Sum(sales, func(s Sale) float64 { return s.FinalAmount })
		g.TotalMargin = metrics.Sum(sales, func(s Sale) float64 { return s.GrossMargin })
		g.TotalSalesVolumeKg = metrics.Sum(sales, func(s Sale) float64 { return s.QuantityKg })
		g.TotalSales = int64(len(sales))
	}
	g.MarginPercent = metrics.Percent(g.TotalMargin, g.TotalRevenue)
	return g
}
