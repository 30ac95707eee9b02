package catalog_test

import (
	"net/http"
	"testing"

	"farmadmin/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCodeUniquePerFarm(t *testing.T) {
	env := apitest.New(t)
	ogun := env.Farm("Ogun Farm")
	oyo := env.Farm("Oyo Farm")

	resp := env.Do(http.MethodPost, "/api/v1/products", map[string]any{"farm_id": ogun, "name": "White gari", "code": " gw-1 "})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var p struct {
		Code string `json:"code"`
		Farm struct {
			Name string `json:"name"`
		} `json:"farm"`
	}
	resp.Data(t, &p)
	assert.Equal(t, "GW-1", p.Code)
	assert.Equal(t, "Ogun Farm", p.Farm.Name)

	resp = env.Do(http.MethodPost, "/api/v1/products", map[string]any{"farm_id": ogun, "name": "Other", "code": "GW-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "The code has already been taken.")

	resp = env.Do(http.MethodPost, "/api/v1/products", map[string]any{"farm_id": oyo, "name": "White gari", "code": "GW-1"})
	assert.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
}

func TestCustomerValidation(t *testing.T) {
	env := apitest.New(t)

	resp := env.Do(http.MethodPost, "/api/v1/customers", map[string]any{"name": "Iya Basira", "customer_type": "FRIEND", "email": "nope"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	resp.JSON(t, &body)
	assert.Equal(t, []string{"The selected customer type is invalid."}, body.Errors["customer_type"])
	assert.Equal(t, []string{"The email field must be a valid email address."}, body.Errors["email"])

	env.Create("/api/v1/customers", map[string]any{"name": "Iya Basira", "customer_type": "RETAILER", "phone": "0803"})
	env.Create("/api/v1/customers", map[string]any{"name": "Lagos Foods", "customer_type": "DISTRIBUTOR"})

	resp = env.Do(http.MethodGet, "/api/v1/customers?customer_type=DISTRIBUTOR", nil)
	var list []struct {
		Name string `json:"name"`
	}
	resp.Data(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Lagos Foods", list[0].Name)

	resp = env.Do(http.MethodGet, "/api/v1/customers?search=0803", nil)
	resp.Data(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Iya Basira", list[0].Name)
}
