package farm_test

import (
	"net/http"
	"testing"

	"farmadmin/internal/apitest"
	"farmadmin/internal/database"
	"farmadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type siteJSON struct {
	ID     uint   `json:"id"`
	FarmID uint   `json:"farm_id"`
	Name   string `json:"name"`
}

func TestMemberReachesOnlyTheirFarms(t *testing.T) {
	env := apitest.New(t)
	ogun := env.Farm("Ogun Farm")
	oyo := env.Farm("Oyo Farm")
	env.Create("/api/v1/site-types", map[string]any{"code": "farmland", "name": "Farmland"})
	north := env.Create("/api/v1/sites", map[string]any{"farm_id": ogun, "name": "North", "type": "farmland"})
	south := env.Create("/api/v1/sites", map[string]any{"farm_id": oyo, "name": "South", "type": "farmland"})
	cropID := env.Create("/api/v1/crops", map[string]any{"name": "Cassava"})
	env.Create("/api/v1/farm-zones", map[string]any{"site_id": north, "crop_id": cropID, "name": "Block 1"})
	env.Create("/api/v1/farm-zones", map[string]any{"site_id": south, "crop_id": cropID, "name": "Block 9"})

	env.RoleWith("SUPERVISOR", "general.farms.view", "general.sites.view", "general.sites.create",
		"general.sites.update", "general.farm-zones.view")
	user, token := env.UserWithRoles("supervisor@farm.test", "SUPERVISOR")
	env.Member(user.ID, ogun)

	resp := env.DoAs(token, http.MethodGet, "/api/v1/farms", nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	var farms []farmJSON
	resp.Data(t, &farms)
	require.Len(t, farms, 1)
	assert.Equal(t, ogun, farms[0].ID)

	var sites []siteJSON
	resp = env.DoAs(token, http.MethodGet, "/api/v1/sites?per_page=10", nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp.Data(t, &sites)
	require.Len(t, sites, 1)
	assert.Equal(t, "North", sites[0].Name)

	var zones []struct {
		Name string `json:"name"`
	}
	resp = env.DoAs(token, http.MethodGet, "/api/v1/farm-zones", nil)
	resp.Data(t, &zones)
	require.Len(t, zones, 1)
	assert.Equal(t, "Block 1", zones[0].Name)

	resp = env.DoAs(token, http.MethodGet, apitest.Path("/sites/%d", south), nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.JSONEq(t, `{"message":"Site not found"}`, string(resp.Body))

	resp = env.DoAs(token, http.MethodPatch, apitest.Path("/sites/%d", south), map[string]any{"name": "Mine"})
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = env.DoAs(token, http.MethodPost, "/api/v1/sites", map[string]any{"farm_id": oyo, "name": "East", "type": "farmland"})
	assert.Equal(t, http.StatusForbidden, resp.Status)
	assert.JSONEq(t, `{"message":"You do not have access to this farm."}`, string(resp.Body))

	resp = env.DoAs(token, http.MethodPatch, apitest.Path("/sites/%d", north), map[string]any{"farm_id": oyo})
	assert.Equal(t, http.StatusForbidden, resp.Status)

	resp = env.DoAs(token, http.MethodPatch, apitest.Path("/sites/%d", north), map[string]any{"name": "North Field"})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))

	// the refused writes left nothing behind
	resp = env.Do(http.MethodGet, "/api/v1/sites", nil)
	resp.Data(t, &sites)
	require.Len(t, sites, 2)
	for _, s := range sites {
		if s.ID == north {
			assert.Equal(t, ogun, s.FarmID)
			assert.Equal(t, "North Field", s.Name)
		}
	}

	// leaving the farm closes it off
	resp = env.Do(http.MethodDelete, apitest.Path("/users/%d/farms/%d", user.ID, ogun), nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp = env.DoAs(token, http.MethodGet, "/api/v1/sites", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"data":[]}`, string(resp.Body))
}

func TestUserWithoutFarmsSeesNone(t *testing.T) {
	env := apitest.New(t)
	env.Farm("Ogun Farm")

	env.RoleWith("VIEWER", "general.farms.view")
	_, token := env.UserWithRoles("viewer@farm.test", "VIEWER")

	resp := env.DoAs(token, http.MethodGet, "/api/v1/farms", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"data":[]}`, string(resp.Body))

	resp = env.DoAs(token, http.MethodGet, "/api/v1/farms?page=1", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var page struct {
		Data  []farmJSON `json:"data"`
		Total int64      `json:"total"`
	}
	resp.JSON(t, &page)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.Total)
}

// stealFarmCode makes the next n farm inserts lose their generated code to a
// rival row written just before them in the same transaction.
func stealFarmCode(t *testing.T, n int) {
	t.Helper()
	err := database.DB.Callback().Create().Before("gorm:create").Register("test:steal_farm_code", func(db *gorm.DB) {
		f, ok := db.Statement.Dest.(*models.Farm)
		if !ok || n == 0 || f.FarmCode == "" || f.Name == "Rival" {
			return
		}
		n--
		rival := models.Farm{FarmCode: f.FarmCode, Name: "Rival", Status: models.FarmStatusActive}
		if err := db.Session(&gorm.Session{NewDB: true}).Omit(clause.Associations).Create(&rival).Error; err != nil {
			t.Errorf("insert rival: %v", err)
		}
	})
	require.NoError(t, err)
}

func TestFarmCodeRetriedOnceWhenTaken(t *testing.T) {
	env := apitest.New(t)
	stealFarmCode(t, 1)

	resp := env.Do(http.MethodPost, "/api/v1/farms", map[string]any{"name": "Ogun Farm"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var created farmJSON
	resp.Data(t, &created)
	assert.Equal(t, "FARM-0001", created.FarmCode)

	var count int64
	require.NoError(t, database.DB.Model(&models.Farm{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFarmCodeTakenTwice(t *testing.T) {
	env := apitest.New(t)
	stealFarmCode(t, 2)

	resp := env.Do(http.MethodPost, "/api/v1/farms", map[string]any{"name": "Ogun Farm"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.JSONEq(t, `{"message":"Farm could not be saved: a record with the same code already exists."}`, string(resp.Body))

	var count int64
	require.NoError(t, database.DB.Model(&models.Farm{}).Count(&count).Error)
	assert.Zero(t, count)
}
