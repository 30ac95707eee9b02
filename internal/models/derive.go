package models

import (
	"time"

	"farmadmin/internal/metrics"

	"github.com/shopspring/decimal"
)

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// percent returns part/whole*100, or 0 when whole is not positive.
func percent(part, whole float64) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return round2(decimal.NewFromFloat(part).Div(decimal.NewFromFloat(whole)).Mul(decimal.NewFromInt(100)).InexactFloat64())
}

func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

func mul(a, b float64) float64 {
	return round2(decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).InexactFloat64())
}

// Derive fills the yield, cost and waste columns from the inputs.
func (b *ProductionBatch) Derive() {
	if b.CassavaCostPerKg != nil {
		b.TotalCassavaCost = mul(b.CassavaQuantityKg, *b.CassavaCostPerKg)
	}
	b.TotalProcessingCost = round2(sum(b.LabourCost, b.FuelCost, b.EquipmentCost, b.WaterCost, b.TransportCost, b.OtherCosts))
	b.TotalCost = round2(sum(b.TotalCassavaCost, b.TotalProcessingCost))
	b.ConversionYieldPercent = percent(b.GariProducedKg, b.CassavaQuantityKg)
	b.WastePercent = percent(b.WasteKg, b.CassavaQuantityKg)
	b.CostPerKgGari = 0
	if b.GariProducedKg > 0 {
		b.CostPerKgGari = round2(decimal.NewFromFloat(b.TotalCost).Div(decimal.NewFromFloat(b.GariProducedKg)).InexactFloat64())
	}
}

func (i *InventoryItem) Derive() {
	i.TotalCost = 0
	if i.CostPerKg != nil {
		i.TotalCost = mul(i.QuantityKg, *i.CostPerKg)
	}
}

func (w *WasteLoss) Derive() {
	w.TotalLossValue = 0
	if w.CostPerKg != nil {
		w.TotalLossValue = mul(w.QuantityKg, *w.CostPerKg)
	}
}

// Derive computes amounts, margin and payment status.
func (s *Sale) Derive() {
	s.TotalAmount = mul(s.QuantityKg, s.UnitPrice)
	s.FinalAmount = round2(s.TotalAmount - s.Discount)
	s.TotalCost = mul(s.CostPerKg, s.QuantityKg)
	s.GrossMargin = round2(s.FinalAmount - s.TotalCost)
	s.GrossMarginPercent = 0
	if s.FinalAmount > 0 {
		s.GrossMarginPercent = round2(decimal.NewFromFloat(s.GrossMargin).Div(decimal.NewFromFloat(s.FinalAmount)).Mul(decimal.NewFromInt(100)).InexactFloat64())
	}
	s.AmountOutstanding = round2(s.FinalAmount - s.AmountPaid)
	switch {
	case s.AmountOutstanding <= 0:
		s.PaymentStatus = PaymentPaid
	case s.AmountPaid > 0:
		s.PaymentStatus = PaymentPartial
	default:
		s.PaymentStatus = PaymentOutstanding
	}
}

// Derive marks the assignment current while its end date has not passed.
func (a *StaffAssignment) Derive(now time.Time) {
	a.IsCurrent = a.AssignedTo == nil || !a.AssignedTo.Before(NewDate(now).Time)
}

// DefaultEndDate sets the season end six months after its start when unset.
func (s *Season) DefaultEndDate() {
	if s.EndDate == nil && !s.StartDate.IsZero() {
		end := Date{metrics.AddMonths(s.StartDate.Time, 6)}
		s.EndDate = &end
	}
}
