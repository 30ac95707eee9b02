package auth_test

import (
	"net/http"
	"testing"

	"farmadmin/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	User struct {
		ID              uint     `json:"id"`
		Email           string   `json:"email"`
		PermissionNames []string `json:"permission_names"`
		Roles           []struct {
			Name string `json:"name"`
		} `json:"roles"`
	} `json:"user"`
	Token string `json:"token"`
}

func register(t *testing.T, env *apitest.Env, email string) session {
	t.Helper()
	resp := env.DoAs("", http.MethodPost, "/api/v1/register", map[string]any{
		"name":                  "Ada",
		"email":                 email,
		"password":              "password123",
		"password_confirmation": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var s session
	resp.JSON(t, &s)
	return s
}

func TestFirstRegisteredUserIsAdmin(t *testing.T) {
	env := apitest.NewEmpty(t)

	first := register(t, env, "Ada@Farm.test")
	assert.Equal(t, "ada@farm.test", first.User.Email)
	require.Len(t, first.User.Roles, 1)
	assert.Equal(t, "ADMIN", first.User.Roles[0].Name)
	assert.Contains(t, first.User.PermissionNames, "general.farms.view")
	assert.NotEmpty(t, first.Token)

	second := register(t, env, "bola@farm.test")
	assert.Empty(t, second.User.Roles)
	assert.Empty(t, second.User.PermissionNames)

	resp := env.DoAs(second.Token, http.MethodGet, "/api/v1/farms", nil)
	assert.Equal(t, http.StatusForbidden, resp.Status)
	assert.JSONEq(t, `{"message":"This action is unauthorized."}`, string(resp.Body))
}

func TestRegisterValidation(t *testing.T) {
	env := apitest.NewEmpty(t)
	register(t, env, "ada@farm.test")

	resp := env.DoAs("", http.MethodPost, "/api/v1/register", map[string]any{
		"name":                  "Ada again",
		"email":                 "ada@farm.test",
		"password":              "password123",
		"password_confirmation": "password123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "The email has already been taken.")

	resp = env.DoAs("", http.MethodPost, "/api/v1/register", map[string]any{
		"name":                  "Bola",
		"email":                 "bola@farm.test",
		"password":              "password123",
		"password_confirmation": "password124",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.Contains(t, string(resp.Body), "The password confirmation does not match.")

	resp = env.DoAs("", http.MethodPost, "/api/v1/register", map[string]any{
		"name": "Bola", "email": "not-an-email", "password": "short",
	})
	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	resp.JSON(t, &body)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestLoginAndMe(t *testing.T) {
	env := apitest.New(t)

	resp := env.DoAs("", http.MethodPost, "/api/v1/login", map[string]any{"email": "admin@farm.test", "password": "password123"})
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	var s session
	resp.JSON(t, &s)
	require.NotEmpty(t, s.Token)

	resp = env.DoAs(s.Token, http.MethodGet, "/api/v1/me", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var me struct {
		Email string `json:"email"`
	}
	resp.Data(t, &me)
	assert.Equal(t, "admin@farm.test", me.Email)
	assert.NotContains(t, string(resp.Body), "password")

	resp = env.DoAs("", http.MethodPost, "/api/v1/login", map[string]any{"email": "admin@farm.test", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, string(resp.Body))

	resp = env.DoAs("not-a-token", http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = env.DoAs(s.Token, http.MethodPost, "/api/v1/logout", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
}
