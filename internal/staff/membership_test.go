package staff_test

import (
	"net/http"
	"testing"

	"farmadmin/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memberJSON struct {
	FarmID             uint     `json:"farm_id"`
	MembershipStatus   string   `json:"membership_status"`
	EmploymentCategory string   `json:"employment_category"`
	PayType            string   `json:"pay_type"`
	PayRate            *float64 `json:"pay_rate"`
	StartDate          string   `json:"start_date"`
	Farm               struct {
		Name string `json:"name"`
	} `json:"farm"`
}

type memberUserJSON struct {
	ID    uint         `json:"id"`
	Farms []memberJSON `json:"farms"`
}

func TestUserFarmsPayload(t *testing.T) {
	env := apitest.New(t)
	ogun := env.Farm("Ogun Farm")
	oyo := env.Farm("Oyo Farm")

	resp := env.Do(http.MethodPost, "/api/v1/users", map[string]any{
		"name": "Bola", "email": "bola@farm.test", "password": "password123",
		"farms": []map[string]any{{
			"farm_id": ogun, "employment_category": "CASUAL", "pay_type": "DAILY",
			"pay_rate": 3500, "start_date": "2026-02-01",
		}},
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var u memberUserJSON
	resp.Data(t, &u)
	require.Len(t, u.Farms, 1)
	m := u.Farms[0]
	assert.Equal(t, ogun, m.FarmID)
	assert.Equal(t, "ACTIVE", m.MembershipStatus)
	assert.Equal(t, "CASUAL", m.EmploymentCategory)
	require.NotNil(t, m.PayRate)
	assert.Equal(t, 3500.0, *m.PayRate)
	assert.Equal(t, "2026-02-01", m.StartDate)
	assert.Equal(t, "Ogun Farm", m.Farm.Name)

	// a PATCH without farms keeps them
	resp = env.Do(http.MethodPatch, apitest.Path("/users/%d", u.ID), map[string]any{"name": "Bola A."})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp.Data(t, &u)
	assert.Len(t, u.Farms, 1)

	// farms replaces the whole list
	resp = env.Do(http.MethodPatch, apitest.Path("/users/%d", u.ID), map[string]any{
		"farms": []map[string]any{{"farm_id": oyo, "employment_category": "PERMANENT", "pay_type": "MONTHLY"}},
	})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp.Data(t, &u)
	require.Len(t, u.Farms, 1)
	assert.Equal(t, oyo, u.Farms[0].FarmID)

	resp = env.Do(http.MethodGet, apitest.Path("/users/%d", u.ID), nil)
	resp.Data(t, &u)
	require.Len(t, u.Farms, 1)
	assert.Equal(t, "Oyo Farm", u.Farms[0].Farm.Name)
}

func TestUserFarmsValidation(t *testing.T) {
	env := apitest.New(t)
	ogun := env.Farm("Ogun Farm")

	resp := env.Do(http.MethodPost, "/api/v1/users", map[string]any{
		"name": "Bola", "email": "bola@farm.test", "password": "password123",
		"farms": []map[string]any{
			{"farm_id": ogun, "start_date": "2026-03-01", "end_date": "2026-02-01"},
			{"farm_id": 999, "pay_type": "WEEKLY"},
			{"farm_id": ogun},
			{"pay_rate": -1},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Status, string(resp.Body))
	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	resp.JSON(t, &body)
	for _, key := range []string{
		"farms.0.end_date",
		"farms.1.farm_id",
		"farms.1.pay_type",
		"farms.2.farm_id",
		"farms.3.farm_id",
		"farms.3.pay_rate",
	} {
		assert.Contains(t, body.Errors, key)
	}
	assert.NotContains(t, body.Errors, "farms.0.farm_id")
	assert.Equal(t, []string{"The selected farms.1.farm id is invalid."}, body.Errors["farms.1.farm_id"])

	resp = env.Do(http.MethodGet, "/api/v1/users?search=bola", nil)
	assert.JSONEq(t, `{"data":[]}`, string(resp.Body))
}

func TestMembershipEndpoints(t *testing.T) {
	env := apitest.New(t)
	ogun := env.Farm("Ogun Farm")
	user, _ := env.UserWithRoles("worker@farm.test")

	join := func() apitest.Response {
		return env.Do(http.MethodPost, apitest.Path("/users/%d/farms", user.ID), map[string]any{
			"farm_id": ogun, "role": "Supervisor", "pay_type": "HOURLY", "pay_rate": 800,
		})
	}

	resp := join()
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var u memberUserJSON
	resp.Data(t, &u)
	require.Len(t, u.Farms, 1)
	assert.Equal(t, "HOURLY", u.Farms[0].PayType)

	resp = join()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "already a member")

	resp = env.Do(http.MethodPatch, apitest.Path("/users/%d/farms/%d", user.ID, ogun), map[string]any{"pay_rate": 950})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp.Data(t, &u)
	require.NotNil(t, u.Farms[0].PayRate)
	assert.Equal(t, 950.0, *u.Farms[0].PayRate)
	assert.Equal(t, "HOURLY", u.Farms[0].PayType)

	resp = env.Do(http.MethodDelete, apitest.Path("/users/%d/farms/%d", user.ID, ogun), nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	resp.Data(t, &u)
	require.Len(t, u.Farms, 1)
	assert.Equal(t, "INACTIVE", u.Farms[0].MembershipStatus)

	// joining again reactivates the same membership
	resp = join()
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	resp.Data(t, &u)
	require.Len(t, u.Farms, 1)
	assert.Equal(t, "ACTIVE", u.Farms[0].MembershipStatus)

	resp = env.Do(http.MethodPatch, apitest.Path("/users/%d/farms/%d", user.ID, ogun+1), map[string]any{"pay_rate": 1})
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.JSONEq(t, `{"message":"Membership not found"}`, string(resp.Body))
}
