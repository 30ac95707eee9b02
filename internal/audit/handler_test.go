package audit_test

import (
	"net/http"
	"testing"

	"farmadmin/internal/apitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logJSON struct {
	ID         uint   `json:"id"`
	UserName   string `json:"user_name"`
	EntityType string `json:"entity_type"`
	EntityID   uint   `json:"entity_id"`
	Action     string `json:"action"`
	IsUndone   bool   `json:"is_undone"`
}

func logsFor(t *testing.T, env *apitest.Env, farmID uint) []logJSON {
	t.Helper()
	resp := env.Do(http.MethodGet, apitest.Path("/audit-logs?entity_type=farm&entity_id=%d", farmID), nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	var logs []logJSON
	resp.Data(t, &logs)
	return logs
}

func TestMutationsAreLogged(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")
	env.Do(http.MethodPatch, apitest.Path("/farms/%d", farmID), map[string]any{"town": "Abeokuta"})
	env.Do(http.MethodDelete, apitest.Path("/farms/%d", farmID), nil)

	logs := logsFor(t, env, farmID)
	require.Len(t, logs, 3)
	assert.Equal(t, "delete", logs[0].Action)
	assert.Equal(t, "update", logs[1].Action)
	assert.Equal(t, "create", logs[2].Action)
	assert.Equal(t, "admin", logs[0].UserName)
}

func TestUndoUpdateRestoresSnapshot(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Create("/api/v1/farms", map[string]any{"name": "Ogun Farm", "town": "Ijebu"})
	env.Do(http.MethodPatch, apitest.Path("/farms/%d", farmID), map[string]any{"town": "Abeokuta", "name": "Renamed"})

	update := logsFor(t, env, farmID)[0]
	require.Equal(t, "update", update.Action)

	resp := env.Do(http.MethodPost, apitest.Path("/audit-logs/%d/undo", update.ID), nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))

	var farm struct {
		Name string `json:"name"`
		Town string `json:"town"`
	}
	env.Do(http.MethodGet, apitest.Path("/farms/%d", farmID), nil).Data(t, &farm)
	assert.Equal(t, "Ogun Farm", farm.Name)
	assert.Equal(t, "Ijebu", farm.Town)

	resp = env.Do(http.MethodPost, apitest.Path("/audit-logs/%d/undo", update.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.JSONEq(t, `{"message":"this change has already been undone"}`, string(resp.Body))

	logs := logsFor(t, env, farmID)
	require.Len(t, logs, 3)
	assert.Equal(t, "undo", logs[0].Action)
	assert.True(t, logs[1].IsUndone)
}

func TestUndoDeleteAndCreate(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")

	env.Do(http.MethodDelete, apitest.Path("/farms/%d", farmID), nil)
	require.Equal(t, http.StatusNotFound, env.Do(http.MethodGet, apitest.Path("/farms/%d", farmID), nil).Status)

	deleted := logsFor(t, env, farmID)[0]
	require.Equal(t, "delete", deleted.Action)
	resp := env.Do(http.MethodPost, apitest.Path("/audit-logs/%d/undo", deleted.ID), nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	assert.Equal(t, http.StatusOK, env.Do(http.MethodGet, apitest.Path("/farms/%d", farmID), nil).Status)

	var created logJSON
	for _, l := range logsFor(t, env, farmID) {
		if l.Action == "create" {
			created = l
		}
	}
	require.NotZero(t, created.ID)
	resp = env.Do(http.MethodPost, apitest.Path("/audit-logs/%d/undo", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	assert.Equal(t, http.StatusNotFound, env.Do(http.MethodGet, apitest.Path("/farms/%d", farmID), nil).Status)
}

func TestUndoUpdateOfDeletedRecord(t *testing.T) {
	env := apitest.New(t)
	farmID := env.Farm("Ogun Farm")
	env.Do(http.MethodPatch, apitest.Path("/farms/%d", farmID), map[string]any{"town": "Abeokuta"})
	require.Equal(t, http.StatusNoContent, env.Do(http.MethodDelete, apitest.Path("/farms/%d", farmID), nil).Status)

	logs := logsFor(t, env, farmID)
	require.Equal(t, "update", logs[1].Action)

	resp := env.Do(http.MethodPost, apitest.Path("/audit-logs/%d/undo", logs[1].ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	assert.JSONEq(t, `{"message":"this action cannot be undone: the record has been deleted"}`, string(resp.Body))
	assert.Equal(t, http.StatusNotFound, env.Do(http.MethodGet, apitest.Path("/farms/%d", farmID), nil).Status)

	logs = logsFor(t, env, farmID)
	require.Len(t, logs, 3)
	assert.False(t, logs[0].IsUndone)
	assert.False(t, logs[1].IsUndone)
}

func TestUndoErrors(t *testing.T) {
	env := apitest.New(t)

	resp := env.Do(http.MethodPost, "/api/v1/audit-logs/999/undo", nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = env.Do(http.MethodPost, "/api/v1/audit-logs/abc/undo", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	env.RoleWith("AUDITOR", "admin.audit-logs.view")
	_, token := env.UserWithRoles("auditor@farm.test", "AUDITOR")
	assert.Equal(t, http.StatusOK, env.DoAs(token, http.MethodGet, "/api/v1/audit-logs", nil).Status)
	assert.Equal(t, http.StatusForbidden, env.DoAs(token, http.MethodPost, "/api/v1/audit-logs/1/undo", nil).Status)
}
