package page

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"farmadmin/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Op      string
	ID      uint
	Payload any
	Query   url.Values
}

// fakeStore records calls and serves a fixed list.
type fakeStore struct {
	mu       sync.Mutex
	calls    []call
	items    []client.Record
	listErr  error
	writeErr error
}

func (s *fakeStore) record(c call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *fakeStore) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func (s *fakeStore) ops() []string {
	var out []string
	for _, c := range s.Calls() {
		out = append(out, c.Op)
	}
	return out
}

func (s *fakeStore) List(ctx context.Context, query url.Values) ([]client.Record, error) {
	s.record(call{Op: "list", Query: query})
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.items, nil
}

func (s *fakeStore) Create(ctx context.Context, payload any) (client.Record, error) {
	s.record(call{Op: "create", Payload: payload})
	return client.Record{"id": float64(99)}, s.writeErr
}

func (s *fakeStore) Update(ctx context.Context, id uint, payload any) (client.Record, error) {
	s.record(call{Op: "update", ID: id, Payload: payload})
	return client.Record{"id": float64(id)}, s.writeErr
}

func (s *fakeStore) Delete(ctx context.Context, id uint) error {
	s.record(call{Op: "delete", ID: id})
	return s.writeErr
}

var seasonSchema = Schema{
	Entity: "season",
	Path:   "/seasons",
	Fields: []Field{
		{Name: "farm_id", Kind: Ref, Required: true},
		{Name: "name", Kind: Text, Required: true},
		{Name: "start_date", Kind: Date, Required: true},
		{Name: "end_date", Kind: Date},
		{Name: "status", Kind: Select, Options: []string{"PLANNED", "ACTIVE"}, Default: "PLANNED"},
		{Name: "notes", Kind: TextArea},
	},
	Query: map[string]string{"per_page": "1000"},
}

func newTestPage(store *fakeStore) (*Page[client.Record], *[]string, *bool) {
	var alerts []string
	confirm := true
	p := New(Config[client.Record]{
		Store:      store,
		Schema:     seasonSchema,
		ID:         client.Record.ID,
		FromRecord: seasonSchema.FormFrom,
		Alerter:    AlertFunc(func(msg string) { alerts = append(alerts, msg) }),
		Confirmer:  ConfirmFunc(func(context.Context, string) bool { return confirm }),
	})
	return p, &alerts, &confirm
}

func TestLoad(t *testing.T) {
	store := &fakeStore{items: []client.Record{{"id": 1.0}, {"id": 2.0}, {"id": 3.0}}}
	p, _, _ := newTestPage(store)
	require.True(t, p.Loading())

	require.NoError(t, p.Load(context.Background()))
	assert.False(t, p.Loading())
	assert.Len(t, p.Items(), 3)
	assert.Equal(t, "1000", store.Calls()[0].Query.Get("per_page"))
}

func TestLoadFailureEmptiesList(t *testing.T) {
	store := &fakeStore{items: []client.Record{{"id": 1.0}}}
	p, alerts, _ := newTestPage(store)
	require.NoError(t, p.Load(context.Background()))

	store.listErr = errors.New("connection refused")
	require.Error(t, p.Load(context.Background()))
	assert.Empty(t, p.Items())
	assert.False(t, p.Loading())
	assert.Empty(t, *alerts)
}

func TestLoadRunsExtraReads(t *testing.T) {
	store := &fakeStore{}
	var farms, crops bool
	p := New(Config[client.Record]{
		Store:  store,
		Schema: seasonSchema,
		Also: []Fetch{
			func(context.Context) error { farms = true; return nil },
			func(context.Context) error { crops = true; return nil },
		},
	})
	require.NoError(t, p.Load(context.Background()))
	assert.True(t, farms)
	assert.True(t, crops)

	failing := New(Config[client.Record]{
		Store:  &fakeStore{items: []client.Record{{"id": 1.0}}},
		Schema: seasonSchema,
		Also:   []Fetch{func(context.Context) error { return errors.New("farms down") }},
	})
	require.Error(t, failing.Load(context.Background()))
	assert.Empty(t, failing.Items())
}

func TestSetFilterReloads(t *testing.T) {
	store := &fakeStore{}
	p, _, _ := newTestPage(store)

	require.NoError(t, p.SetFilter(context.Background(), "status", "ACTIVE"))
	require.NoError(t, p.SetFilter(context.Background(), "status", ""))

	calls := store.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "ACTIVE", calls[0].Query.Get("status"))
	assert.False(t, calls[1].Query.Has("status"))
	assert.Equal(t, "1000", calls[1].Query.Get("per_page"))
}

func TestCreateSubmitsOnceAndReloadsOnce(t *testing.T) {
	store := &fakeStore{}
	p, alerts, _ := newTestPage(store)

	p.OpenCreate()
	require.True(t, p.ModalOpen())
	assert.Equal(t, seasonSchema.Defaults(), p.Form())

	p.UpdateForm(Form{"farm_id": "3", "name": "Season 1 - 2026", "start_date": "2026-01-15"})
	require.NoError(t, p.Submit(context.Background()))

	assert.Equal(t, []string{"create", "list"}, store.ops())
	assert.Equal(t, map[string]any{
		"farm_id":    int64(3),
		"name":       "Season 1 - 2026",
		"start_date": "2026-01-15",
		"end_date":   nil,
		"status":     "PLANNED",
		"notes":      "",
	}, store.Calls()[0].Payload)
	assert.False(t, p.ModalOpen())
	assert.Empty(t, *alerts)
}

func TestEditSubmitsToItemEndpoint(t *testing.T) {
	store := &fakeStore{}
	p, _, _ := newTestPage(store)

	p.OpenEdit(client.Record{
		"id":         12.0,
		"farm_id":    3.0,
		"name":       "Old",
		"start_date": "2026-01-15T00:00:00.000000Z",
		"end_date":   nil,
		"status":     "ACTIVE",
	})
	form := p.Form()
	assert.Equal(t, "2026-01-15", form["start_date"])
	assert.Equal(t, "", form["end_date"])
	assert.Equal(t, "3", form["farm_id"])
	assert.Equal(t, "", form["notes"])
	_, editing := p.Editing()
	assert.True(t, editing)

	p.SetField("name", "New")
	require.NoError(t, p.Submit(context.Background()))

	calls := store.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "update", calls[0].Op)
	assert.Equal(t, uint(12), calls[0].ID)
	assert.Equal(t, "New", calls[0].Payload.(map[string]any)["name"])
	assert.Equal(t, "list", calls[1].Op)
}

func TestSubmitFailureAlertsAndKeepsModal(t *testing.T) {
	store := &fakeStore{writeErr: &client.APIError{Status: 422, Message: "The name field is required."}}
	p, alerts, _ := newTestPage(store)

	p.OpenCreate()
	p.UpdateForm(Form{"farm_id": "1", "name": "x", "start_date": "2026-01-01"})
	require.Error(t, p.Submit(context.Background()))

	assert.Equal(t, []string{"The name field is required."}, *alerts)
	assert.True(t, p.ModalOpen())
	assert.Equal(t, []string{"create"}, store.ops())

	store.writeErr = errors.New("timeout")
	require.Error(t, p.Submit(context.Background()))
	assert.Equal(t, client.UnknownError, (*alerts)[1])
}

func TestSubmitChecksRequiredFields(t *testing.T) {
	store := &fakeStore{}
	p, alerts, _ := newTestPage(store)

	p.OpenCreate()
	p.SetField("name", "Only a name")
	var reqErr *RequiredError
	require.ErrorAs(t, p.Submit(context.Background()), &reqErr)
	assert.Equal(t, []string{"farm id", "start date"}, reqErr.Fields)
	assert.Len(t, *alerts, 1)
	assert.Empty(t, store.Calls())

	p.CloseModal()
	assert.ErrorIs(t, p.Submit(context.Background()), ErrModalClosed)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	store := &fakeStore{}
	p, alerts, confirm := newTestPage(store)
	item := client.Record{"id": 5.0}

	*confirm = false
	deleted, err := p.Delete(context.Background(), item)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, store.Calls())

	*confirm = true
	deleted, err = p.Delete(context.Background(), item)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"delete", "list"}, store.ops())
	assert.Equal(t, uint(5), store.Calls()[0].ID)

	store.writeErr = &client.APIError{Status: 422, Message: "Cannot delete ADMIN role"}
	_, err = p.Delete(context.Background(), item)
	require.Error(t, err)
	assert.Equal(t, []string{"Cannot delete ADMIN role"}, *alerts)
}

func TestOnChangeDerivesFields(t *testing.T) {
	p := New(Config[client.Record]{
		Store:  &fakeStore{},
		Schema: seasonSchema,
		OnChange: func(form Form, field string) {
			if field == "start_date" {
				form["end_date"] = "derived"
			}
		},
	})
	p.OpenCreate()
	p.SetField("start_date", "2026-01-15")
	assert.Equal(t, "derived", p.Form()["end_date"])
}

func TestPayloadCoercion(t *testing.T) {
	s := Schema{Fields: []Field{
		{Name: "qty", Kind: Number},
		{Name: "units", Kind: Integer},
		{Name: "active", Kind: Bool},
		{Name: "grade", Kind: Select},
		{Name: "when", Kind: Date},
	}}

	body, err := s.Payload(Form{"qty": " 12.5 ", "units": "", "active": "true", "grade": "", "when": "2026-02-01"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"qty": 12.5, "units": nil, "active": true, "grade": nil, "when": "2026-02-01"}, body)

	_, err = s.Payload(Form{"qty": "lots"})
	assert.EqualError(t, err, "qty must be a number")
	_, err = s.Payload(Form{"when": "15/01/2026"})
	assert.Error(t, err)
}

func TestListFields(t *testing.T) {
	s := Schema{Fields: []Field{{Name: "roles", Kind: List}}}

	form := s.FormFrom(client.Record{"roles": []any{
		map[string]any{"id": 1.0, "name": "MANAGER"},
		map[string]any{"id": 2.0, "name": "VIEWER"},
	}})
	assert.Equal(t, "MANAGER, VIEWER", form["roles"])

	body, err := s.Payload(Form{"roles": " MANAGER, ,VIEWER "})
	require.NoError(t, err)
	assert.Equal(t, []string{"MANAGER", "VIEWER"}, body["roles"])

	body, err = s.Payload(Form{"roles": ""})
	require.NoError(t, err)
	assert.Equal(t, []string{}, body["roles"])
}
