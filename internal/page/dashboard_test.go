package page

import (
	"context"
	"errors"
	"testing"

	"farmadmin/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardFoldsParallelReads(t *testing.T) {
	var weights []float64
	var batches int
	d := NewDashboard("stock", func() float64 {
		return metrics.Sum(weights, func(w float64) float64 { return w }) + float64(batches)
	}, nil)
	d.Read("inventory", func(context.Context) error {
		weights = []float64{10, 0, 5.5}
		return nil
	}).Read("batches", func(context.Context) error {
		batches = 0
		return nil
	})

	require.True(t, d.Loading())
	total, err := d.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15.5, total)
	assert.Equal(t, 15.5, d.Summary())
	assert.False(t, d.Loading())
}

func TestDashboardFailureResetsSummary(t *testing.T) {
	fail := false
	d := NewDashboard("kpi", func() int { return 7 }, nil)
	d.Read("sales", func(context.Context) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	})

	got, err := d.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	fail = true
	_, err = d.Load(context.Background())
	assert.EqualError(t, err, "sales: boom")
	assert.Equal(t, 0, d.Summary())
}
