// Package metrics holds the stateless folds behind the dashboard numbers.
// Every fold is a single pass; a value extractor returning 0 for a missing
// field makes that record count as zero.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sum adds value(item) across items.
func Sum[T any](items []T, value func(T) float64) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(value(it)))
	}
	return total.InexactFloat64()
}

// Avg is the arithmetic mean, 0 for no items.
func Avg[T any](items []T, value func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return decimal.NewFromFloat(Sum(items, value)).
		Div(decimal.NewFromInt(int64(len(items)))).
		InexactFloat64()
}

// Percent is part/whole*100, 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}

// WeightedAvg averages value weighted by weight over items where both are
// positive.
func WeightedAvg[T any](items []T, value, weight func(T) float64) float64 {
	num, den := decimal.Zero, decimal.Zero
	for _, it := range items {
		v, w := value(it), weight(it)
		if v <= 0 || w <= 0 {
			continue
		}
		dw := decimal.NewFromFloat(w)
		num = num.Add(decimal.NewFromFloat(v).Mul(dw))
		den = den.Add(dw)
	}
	if den.IsZero() {
		return 0
	}
	return num.Div(den).InexactFloat64()
}

func Count[T any](items []T, match func(T) bool) int {
	n := 0
	for _, it := range items {
		if match(it) {
			n++
		}
	}
	return n
}

func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// AddMonths moves t by n calendar months; an overflowing day rolls into the
// following month.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// StatusColor maps a record status to its badge color.
func StatusColor(status string) string {
	switch status {
	case "PLANNED", "RESERVED":
		return "blue"
	case "ACTIVE", "IN_STOCK", "PAID":
		return "green"
	case "IN_PROGRESS", "PARTIAL", "UNDER_REPAIR":
		return "yellow"
	case "CANCELLED", "OUTSTANDING", "SPOILED", "DAMAGED", "LOST":
		return "red"
	default:
		return "gray"
	}
}
