package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	qty   float64
	price float64
}

func qty(r row) float64   { return r.qty }
func price(r row) float64 { return r.price }

func TestSumCountsMissingAsZero(t *testing.T) {
	rows := []row{{qty: 10}, {}, {qty: 5.5}}
	assert.Equal(t, 15.5, Sum(rows, qty))
	assert.Equal(t, 0.0, Sum([]row(nil), qty))
}

func TestSumIsExactForMoney(t *testing.T) {
	rows := []row{{qty: 0.1}, {qty: 0.2}}
	assert.Equal(t, 0.3, Sum(rows, qty))
}

func TestAvg(t *testing.T) {
	assert.Equal(t, 0.0, Avg([]row{}, qty))
	assert.Equal(t, 5.0, Avg([]row{{qty: 10}, {qty: 0}}, qty))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 25.0, Percent(250, 1000))
	assert.Equal(t, 0.0, Percent(250, 0))
	assert.Equal(t, 0.0, Percent(250, -3))
}

func TestWeightedAvgSkipsNonPositive(t *testing.T) {
	rows := []row{
		{qty: 10, price: 100},
		{qty: 30, price: 200},
		{qty: 0, price: 999},
		{qty: 50, price: 0},
	}
	assert.Equal(t, 175.0, WeightedAvg(rows, price, qty))
	assert.Equal(t, 0.0, WeightedAvg([]row{{qty: 0, price: 5}}, price, qty))
}

func TestCount(t *testing.T) {
	rows := []row{{qty: 1}, {qty: 0}, {qty: 3}}
	assert.Equal(t, 2, Count(rows, func(r row) bool { return r.qty > 0 }))
}

func TestAddMonths(t *testing.T) {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), AddMonths(start, 6))

	// Aug 31 + 6 months has no Feb 31st and rolls into March.
	end := AddMonths(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), 6)
	assert.Equal(t, time.Date(2027, 3, 3, 0, 0, 0, 0, time.UTC), end)
}

func TestStatusColor(t *testing.T) {
	tests := map[string]string{
		"PLANNED":   "blue",
		"ACTIVE":    "green",
		"COMPLETED": "gray",
		"CANCELLED": "red",
		"":          "gray",
	}
	for status, want := range tests {
		assert.Equal(t, want, StatusColor(status), status)
	}
}
