package harvest_test

import (
	"net/http"
	"testing"

	"farmadmin/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarvestLotDefaults(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")

	resp := env.Do(http.MethodPost, "/api/v1/harvest-lots", map[string]any{
		"farm_id":      farmID,
		"harvested_at": "2026-02-14T08:30:00Z",
		"gross_weight": 1250.5,
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var lot struct {
		ID             uint     `json:"id"`
		Code           string   `json:"code"`
		TraceabilityID string   `json:"traceability_id"`
		NetWeight      *float64 `json:"net_weight"`
		WeightUnit     string   `json:"weight_unit"`
	}
	resp.Data(t, &lot)
	assert.Regexp(t, `^HL-20260214-[0-9A-F]{6}$`, lot.Code)
	assert.Regexp(t, `^HL-[0-9A-F]{12}$`, lot.TraceabilityID)
	require.NotNil(t, lot.NetWeight)
	assert.Equal(t, 1250.5, *lot.NetWeight)
	assert.Equal(t, "kg", lot.WeightUnit)

	code := lot.Code
	resp = env.Do(http.MethodPatch, apitest.Path("/harvest-lots/%d", lot.ID), map[string]any{"net_weight": 1200})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp.Data(t, &lot)
	assert.Equal(t, code, lot.Code)
	assert.Equal(t, 1200.0, *lot.NetWeight)

	resp = env.Do(http.MethodGet, "/api/v1/harvest-lots?date_from=2026-02-14&date_to=2026-02-14", nil)
	var list []struct {
		Code string `json:"code"`
	}
	resp.Data(t, &list)
	assert.Len(t, list, 1)

	resp = env.Do(http.MethodPost, "/api/v1/harvest-lots", map[string]any{"farm_id": farmID})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "harvested_at")
}
