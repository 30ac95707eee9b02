package asset_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"farmadmin/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetCodes(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")
	catID := env.Create("/api/v1/asset-categories", map[string]any{"name": "Machinery"})

	prefix := fmt.Sprintf("AST-%d-", time.Now().Year())
	for i := 1; i <= 2; i++ {
		resp := env.Do(http.MethodPost, "/api/v1/assets", map[string]any{"farm_id": farmID, "asset_category_id": catID, "name": "Grater"})
		require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
		var a struct {
			AssetCode     string `json:"asset_code"`
			Status        string `json:"status"`
			AssetCategory struct {
				Name string `json:"name"`
			} `json:"asset_category"`
		}
		resp.Data(t, &a)
		assert.Equal(t, fmt.Sprintf("%s%04d", prefix, i), a.AssetCode)
		assert.Equal(t, "ACTIVE", a.Status)
		assert.Equal(t, "Machinery", a.AssetCategory.Name)
	}

	resp := env.Do(http.MethodPost, "/api/v1/assets", map[string]any{"farm_id": farmID, "name": "Dup", "asset_code": prefix + "0001"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
}

func TestCategoryCannotBeItsOwnAncestor(t *testing.T) {
	env := apitest.New(t)
	root := env.Create("/api/v1/asset-categories", map[string]any{"name": "Equipment"})
	child := env.Create("/api/v1/asset-categories", map[string]any{"name": "Processing", "parent_id": root})
	leaf := env.Create("/api/v1/asset-categories", map[string]any{"name": "Fryers", "parent_id": child})

	resp := env.Do(http.MethodPatch, apitest.Path("/asset-categories/%d", root), map[string]any{"parent_id": leaf})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "A category cannot be its own ancestor.")

	resp = env.Do(http.MethodPatch, apitest.Path("/asset-categories/%d", child), map[string]any{"parent_id": child})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = env.Do(http.MethodGet, apitest.Path("/asset-categories?parent_id=%d", root), nil)
	var list []struct {
		Name string `json:"name"`
	}
	resp.Data(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Processing", list[0].Name)
}

func TestScaleDeviceDefaultsToMock(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")

	resp := env.Do(http.MethodPost, "/api/v1/scale-devices", map[string]any{"farm_id": farmID, "name": "Bench scale"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var d struct {
		ConnectionType string `json:"connection_type"`
	}
	resp.Data(t, &d)
	assert.Equal(t, "MOCK", d.ConnectionType)

	resp = env.Do(http.MethodPost, "/api/v1/scale-devices", map[string]any{"farm_id": farmID, "name": "Radio", "connection_type": "PIGEON"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
}
