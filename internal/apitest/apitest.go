// Package apitest boots the full API against an in-memory database for
// handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmadmin/internal/access"
	"farmadmin/internal/auth"
	"farmadmin/internal/config"
	"farmadmin/internal/database"
	"farmadmin/internal/models"
	"farmadmin/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "test-secret-test-secret-test-secret"

type Env struct {
	t     testing.TB
	App   *fiber.App
	Admin *models.User
	Token string
}

// New migrates and seeds a fresh database and logs in an ADMIN user.
func New(t testing.TB) *Env {
	t.Helper()
	e := NewEmpty(t)
	e.Admin, e.Token = e.UserWithRoles("admin@farm.test", models.AdminRole)
	return e
}

// NewEmpty is New without any user accounts.
func NewEmpty(t testing.TB) *Env {
	t.Helper()
	database.UseTestDB(t)
	require.NoError(t, access.Seed(database.DB))

	cfg := &config.Config{JWTSecret: secret, CORSOrigins: "*", Env: "test"}
	return &Env{t: t, App: server.New(cfg, zap.NewNop())}
}

// UserWithRoles creates a user holding the named roles and returns a token.
func (e *Env) UserWithRoles(email string, roles ...string) (*models.User, string) {
	e.t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(e.t, err)

	u := models.User{Name: strings.Split(email, "@")[0], Email: email, PasswordHash: hash}
	require.NoError(e.t, database.DB.Create(&u).Error)
	if len(roles) > 0 {
		var rs []models.Role
		require.NoError(e.t, database.DB.Where("name IN ?", roles).Find(&rs).Error)
		require.NoError(e.t, database.DB.Model(&u).Association("Roles").Append(rs))
	}
	token, err := auth.GenerateToken(secret, &u)
	require.NoError(e.t, err)
	return &u, token
}

// RoleWith creates a role holding the named permissions.
func (e *Env) RoleWith(name string, permissions ...string) {
	e.t.Helper()
	role := models.Role{Name: name}
	require.NoError(e.t, database.DB.Create(&role).Error)
	var perms []models.Permission
	require.NoError(e.t, database.DB.Where("name IN ?", permissions).Find(&perms).Error)
	require.Len(e.t, perms, len(permissions))
	require.NoError(e.t, database.DB.Model(&role).Association("Permissions").Append(perms))
}

type Response struct {
	Status int
	Body   []byte
}

// JSON decodes the body into v.
func (r Response) JSON(t testing.TB, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

// Data decodes the "data" member of an envelope into v.
func (r Response) Data(t testing.TB, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	r.JSON(t, &env)
	require.NoError(t, json.Unmarshal(env.Data, v), string(r.Body))
}

// Do sends an admin-authenticated request.
func (e *Env) Do(method, path string, body any) Response {
	return e.DoAs(e.Token, method, path, body)
}

// DoAs sends a request with the given bearer token; "" sends none.
func (e *Env) DoAs(token, method, path string, body any) Response {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.App.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return Response{Status: resp.StatusCode, Body: raw}
}

// Create POSTs body and returns the new record id.
func (e *Env) Create(path string, body any) uint {
	e.t.Helper()
	resp := e.Do(http.MethodPost, path, body)
	require.Equal(e.t, http.StatusCreated, resp.Status, string(resp.Body))
	var rec struct {
		ID uint `json:"id"`
	}
	resp.Data(e.t, &rec)
	require.NotZero(e.t, rec.ID)
	return rec.ID
}

// Farm creates a farm and returns its id.
func (e *Env) Farm(name string) uint {
	return e.Create("/api/v1/farms", map[string]any{"name": name})
}

// Member makes the user an active member of the farm.
func (e *Env) Member(userID, farmID uint) {
	e.t.Helper()
	m := models.UserFarm{UserID: userID, FarmID: farmID, MembershipStatus: models.MembershipActive}
	require.NoError(e.t, database.DB.Create(&m).Error)
}

// Serve starts the API on a loopback port for clients that need a real
// socket and returns its base URL, e.g. "http://127.0.0.1:41234/api/v1".
func (e *Env) Serve() string {
	e.t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(e.t, err)
	go func() { _ = e.App.Listener(ln) }()
	e.t.Cleanup(func() { _ = e.App.Shutdown() })
	return "http://" + ln.Addr().String() + "/api/v1"
}

func Path(format string, args ...any) string {
	return "/api/v1" + fmt.Sprintf(format, args...)
}
