package farm_test

import (
	"net/http"
	"testing"

	"farmadmin/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type farmJSON struct {
	ID              uint     `json:"id"`
	FarmCode        string   `json:"farm_code"`
	Name            string   `json:"name"`
	Town            string   `json:"town"`
	Status          string   `json:"status"`
	DefaultCurrency string   `json:"default_currency"`
	TotalArea       *float64 `json:"total_area"`
}

func TestFarmLifecycle(t *testing.T) {
	env := apitest.New(t)

	resp := env.Do(http.MethodPost, "/api/v1/farms", map[string]any{"name": "Ogun Farm", "town": "Abeokuta", "total_area": 12.5})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var created farmJSON
	resp.Data(t, &created)
	assert.Equal(t, "FARM-0001", created.FarmCode)
	assert.Equal(t, "ACTIVE", created.Status)
	assert.Equal(t, "NGN", created.DefaultCurrency)

	second := env.Farm("Oyo Farm")

	resp = env.Do(http.MethodGet, "/api/v1/farms", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var list []farmJSON
	resp.Data(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Ogun Farm", list[0].Name)

	// partial update keeps the untouched fields
	resp = env.Do(http.MethodPatch, apitest.Path("/farms/%d", created.ID), map[string]any{"status": "INACTIVE"})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	var updated farmJSON
	resp.Data(t, &updated)
	assert.Equal(t, "INACTIVE", updated.Status)
	assert.Equal(t, "Abeokuta", updated.Town)
	assert.Equal(t, "FARM-0001", updated.FarmCode)
	require.NotNil(t, updated.TotalArea)
	assert.Equal(t, 12.5, *updated.TotalArea)

	resp = env.Do(http.MethodDelete, apitest.Path("/farms/%d", second), nil)
	require.Equal(t, http.StatusNoContent, resp.Status)

	resp = env.Do(http.MethodGet, apitest.Path("/farms/%d", second), nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.JSONEq(t, `{"message":"Farm not found"}`, string(resp.Body))

	resp = env.Do(http.MethodGet, "/api/v1/farms", nil)
	resp.Data(t, &list)
	assert.Len(t, list, 1)

	// soft-deleted codes are not reused
	third := env.Do(http.MethodPost, "/api/v1/farms", map[string]any{"name": "Kwara Farm"})
	var thirdFarm farmJSON
	third.Data(t, &thirdFarm)
	assert.Equal(t, "FARM-0003", thirdFarm.FarmCode)
}

func TestFarmValidation(t *testing.T) {
	env := apitest.New(t)

	resp := env.Do(http.MethodPost, "/api/v1/farms", map[string]any{"status": "SOMETIMES"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	resp.JSON(t, &body)
	assert.Equal(t, "The name field is required. (and 1 more error)", body.Message)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "status")

	env.Create("/api/v1/farms", map[string]any{"name": "A", "farm_code": "FARM-0100"})
	resp = env.Do(http.MethodPost, "/api/v1/farms", map[string]any{"name": "B", "farm_code": "FARM-0100"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "The farm code has already been taken.")

	resp = env.Do(http.MethodGet, "/api/v1/farms/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestFarmListFiltersAndPagination(t *testing.T) {
	env := apitest.New(t)
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		env.Farm(name)
	}
	env.Create("/api/v1/farms", map[string]any{"name": "Delta", "status": "INACTIVE"})

	resp := env.Do(http.MethodGet, "/api/v1/farms?status=INACTIVE", nil)
	var list []farmJSON
	resp.Data(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Delta", list[0].Name)

	resp = env.Do(http.MethodGet, "/api/v1/farms?search=rav", nil)
	resp.Data(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Bravo", list[0].Name)

	resp = env.Do(http.MethodGet, "/api/v1/farms?page=2&per_page=3", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var page struct {
		Data        []farmJSON `json:"data"`
		CurrentPage int        `json:"current_page"`
		PerPage     int        `json:"per_page"`
		Total       int64      `json:"total"`
		LastPage    int        `json:"last_page"`
	}
	resp.JSON(t, &page)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Delta", page.Data[0].Name)
}

func TestSeasonDefaultsAndDateRules(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")

	resp := env.Do(http.MethodPost, "/api/v1/seasons", map[string]any{
		"farm_id":    farmID,
		"name":       "Season 1 - 2026",
		"start_date": "2026-01-15",
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var season struct {
		EndDate string `json:"end_date"`
		Status  string `json:"status"`
		Farm    struct {
			Name string `json:"name"`
		} `json:"farm"`
	}
	resp.Data(t, &season)
	assert.Equal(t, "2026-07-15", season.EndDate)
	assert.Equal(t, "PLANNED", season.Status)
	assert.Equal(t, "Ogun Farm", season.Farm.Name)

	resp = env.Do(http.MethodPost, "/api/v1/seasons", map[string]any{
		"farm_id":    farmID,
		"name":       "Backwards",
		"start_date": "2026-05-01",
		"end_date":   "2026-04-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "end_date")

	resp = env.Do(http.MethodPost, "/api/v1/seasons", map[string]any{
		"farm_id":    9999,
		"name":       "Nowhere",
		"start_date": "2026-05-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "The selected farm id is invalid.")

	env.Create("/api/v1/seasons", map[string]any{"farm_id": farmID, "name": "Season 2", "start_date": "2026-08-01"})
	resp = env.Do(http.MethodGet, "/api/v1/seasons?date_from=2026-06-01&date_to=2026-12-31", nil)
	var seasons []struct {
		Name string `json:"name"`
	}
	resp.Data(t, &seasons)
	require.Len(t, seasons, 1)
	assert.Equal(t, "Season 2", seasons[0].Name)

	resp = env.Do(http.MethodGet, "/api/v1/seasons?date_from=yesterday", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
}

func TestSiteCodeFromSiteType(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")
	env.Create("/api/v1/site-types", map[string]any{"code": "factory", "name": "Factory", "code_prefix": "fac"})

	var codes []string
	for _, name := range []string{"Mill A", "Mill B"} {
		resp := env.Do(http.MethodPost, "/api/v1/sites", map[string]any{"farm_id": farmID, "name": name, "type": "factory"})
		require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
		var site struct {
			Code string `json:"code"`
		}
		resp.Data(t, &site)
		codes = append(codes, site.Code)
	}
	assert.Equal(t, []string{"FAC-001", "FAC-002"}, codes)

	resp := env.Do(http.MethodPost, "/api/v1/sites", map[string]any{"farm_id": farmID, "name": "Odd", "type": "spaceport"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "The selected type is invalid.")
}

func TestZonePreloadsSiteAndCrop(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")
	env.Create("/api/v1/site-types", map[string]any{"code": "farmland", "name": "Farmland"})
	siteID := env.Create("/api/v1/sites", map[string]any{"farm_id": farmID, "name": "North", "type": "farmland"})
	cropID := env.Create("/api/v1/crops", map[string]any{"name": "Cassava"})

	resp := env.Do(http.MethodPost, "/api/v1/farm-zones", map[string]any{"site_id": siteID, "crop_id": cropID, "name": "Block 1"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var zone struct {
		Site struct {
			Name string `json:"name"`
			Farm struct {
				Name string `json:"name"`
			} `json:"farm"`
		} `json:"site"`
		Crop struct {
			Name string `json:"name"`
		} `json:"crop"`
	}
	resp.Data(t, &zone)
	assert.Equal(t, "North", zone.Site.Name)
	assert.Equal(t, "Ogun Farm", zone.Site.Farm.Name)
	assert.Equal(t, "Cassava", zone.Crop.Name)
}

func TestPermissionGates(t *testing.T) {
	env := apitest.New(t)

	resp := env.DoAs("", http.MethodGet, "/api/v1/farms", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	env.RoleWith("VIEWER", "general.farms.view")
	_, token := env.UserWithRoles("viewer@farm.test", "VIEWER")

	resp = env.DoAs(token, http.MethodGet, "/api/v1/farms", nil)
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = env.DoAs(token, http.MethodPost, "/api/v1/farms", map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = env.DoAs(token, http.MethodGet, "/api/v1/seasons", nil)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}
