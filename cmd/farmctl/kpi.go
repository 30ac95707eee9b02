package main

import (
	"fmt"
	"time"

	"farmadmin/internal/client"
	"farmadmin/internal/metrics"
	"farmadmin/internal/render"
	"farmadmin/internal/schemas"

	"github.com/spf13/cobra"
)

func (a *app) kpiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpi",
		Short: "Key performance indicators",
	}

	var farm, from, to string
	gari := &cobra.Command{
		Use:   "gari",
		Short: "Gari production, stock and sales KPIs for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := schemas.GariDashboard(a.client, farm, from, to, a.log)
			g, err := d.Load(cmd.Context())
			if err != nil {
				a.Alert(client.Message(err))
				return &alertedError{err}
			}
			fmt.Fprint(a.out, render.Card(fmt.Sprintf("Gari KPIs %s to %s", from, to), []render.Stat{
				{Label: "Cassava processed", Value: kg(g.TotalCassavaKg)},
				{Label: "Gari produced", Value: kg(g.TotalGariKg)},
				{Label: "Average yield", Value: pct(g.AvgYieldPercent)},
				{Label: "Average cost/kg", Value: money(g.AvgCostPerKg)},
				{Label: "Batches", Value: fmt.Sprint(g.TotalBatches)},
				{Label: "Stock on hand", Value: kg(g.TotalStockKg)},
				{Label: "Sales", Value: fmt.Sprint(g.TotalSales)},
				{Label: "Volume sold", Value: kg(g.TotalSalesVolumeKg)},
				{Label: "Revenue", Value: money(g.TotalRevenue)},
				{Label: "Gross margin", Value: money(g.TotalMargin) + " (" + pct(g.MarginPercent) + ")"},
				{Label: "Average price/kg", Value: money(g.AvgPricePerKg)},
			}))
			return nil
		},
	}
	now := time.Now()
	gari.Flags().StringVar(&from, "from", now.AddDate(0, 0, -30).Format("2006-01-02"), "start date YYYY-MM-DD")
	gari.Flags().StringVar(&to, "to", now.Format("2006-01-02"), "end date YYYY-MM-DD")
	gari.Flags().StringVar(&farm, "farm", "", "farm id; all reachable farms when empty")

	cmd.AddCommand(gari)
	return cmd
}

func (a *app) inventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Gari stock reports",
	}
	var filters []string
	totals := &cobra.Command{
		Use:   "totals",
		Short: "Total weight and value of the listed gari inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schemas.Lookup("gari-inventory")
			if err != nil {
				return err
			}
			p, err := a.newPage(s, filters)
			if err != nil {
				return err
			}
			loadErr := p.Load(cmd.Context())
			weight, value := schemas.InventoryTotals(p.Items())
			fmt.Fprint(a.out, render.Card("Gari Inventory", []render.Stat{
				{Label: "Items", Value: fmt.Sprint(len(p.Items()))},
				{Label: "Total stock", Value: kg(weight)},
				{Label: "Total value", Value: money(value)},
			}))
			return loadErr
		},
	}
	totals.Flags().StringArrayVarP(&filters, "filter", "f", nil, "query filter key=value, e.g. status=IN_STOCK (repeatable)")
	cmd.AddCommand(totals)
	return cmd
}

func kg(v float64) string    { return fmt.Sprintf("%.2f kg", metrics.Round2(v)) }
func pct(v float64) string   { return fmt.Sprintf("%.2f%%", metrics.Round2(v)) }
func money(v float64) string { return fmt.Sprintf("%.2f", metrics.Round2(v)) }
