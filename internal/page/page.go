// Package page is the one list-edit-modal controller behind every admin
// screen: load a collection, open a create or edit form, submit it back,
// delete with confirmation. A page knows nothing about how it is drawn.
package page

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"farmadmin/internal/client"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store is the collection a page edits. *client.Resource satisfies it.
type Store[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id uint, payload any) (T, error)
	Delete(ctx context.Context, id uint) error
}

// Confirmer asks the user a yes/no question before a destructive call.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Alerter shows a blocking error message.
type Alerter interface {
	Alert(msg string)
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

// Fetch is an extra read run alongside the list, e.g. the farms a form
// offers in a select.
type Fetch func(ctx context.Context) error

type Config[T any] struct {
	Store  Store[T]
	Schema Schema
	// ID identifies an item for the item endpoints.
	ID func(T) uint
	// FromRecord builds the edit form of an item.
	FromRecord func(T) Form
	// Payload turns the form into the request body; Schema.Payload when nil.
	Payload func(Form) (any, error)
	// OnChange runs after a field is set, to derive other fields.
	OnChange func(form Form, field string)
	Also     []Fetch

	Confirmer Confirmer
	Alerter   Alerter
	Logger    *zap.Logger
}

type Page[T any] struct {
	cfg Config[T]

	mu      sync.Mutex
	items   []T
	loading bool
	open    bool
	editing *T
	form    Form
	filters url.Values
}

func New[T any](cfg Config[T]) *Page[T] {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Alerter == nil {
		cfg.Alerter = AlertFunc(func(string) {})
	}
	if cfg.Confirmer == nil {
		cfg.Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
	}
	filters := url.Values{}
	for k, v := range cfg.Schema.Query {
		filters.Set(k, v)
	}
	return &Page[T]{
		cfg:     cfg,
		items:   make([]T, 0),
		loading: true,
		form:    cfg.Schema.Defaults(),
		filters: filters,
	}
}

// Load fetches the list and every extra read in parallel. The first error
// fails the load; it is logged and the list is left empty.
func (p *Page[T]) Load(ctx context.Context) error {
	p.mu.Lock()
	query := cloneValues(p.filters)
	p.mu.Unlock()

	var items []T
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = p.cfg.Store.List(gctx, query)
		return err
	})
	for _, fetch := range p.cfg.Also {
		g.Go(func() error { return fetch(gctx) })
	}
	err := g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.cfg.Logger.Error("load failed", zap.String("entity", p.cfg.Schema.Entity), zap.Error(err))
		p.items = make([]T, 0)
		return err
	}
	if items == nil {
		items = make([]T, 0)
	}
	p.items = items
	return nil
}

// SetFilter changes one query parameter and reloads. An empty value
// removes the parameter.
func (p *Page[T]) SetFilter(ctx context.Context, key, value string) error {
	p.mu.Lock()
	if value == "" {
		p.filters.Del(key)
	} else {
		p.filters.Set(key, value)
	}
	p.mu.Unlock()
	return p.Load(ctx)
}

func (p *Page[T]) Filters() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneValues(p.filters)
}

func (p *Page[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

func (p *Page[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *Page[T]) ModalOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Editing returns the item the open form edits; false for a create form.
func (p *Page[T]) Editing() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editing == nil {
		var zero T
		return zero, false
	}
	return *p.editing, true
}

// Form returns a copy of the current form values.
func (p *Page[T]) Form() Form {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form.clone()
}

func (p *Page[T]) Schema() Schema { return p.cfg.Schema }

// OpenCreate shows a cleared form.
func (p *Page[T]) OpenCreate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editing = nil
	p.form = p.cfg.Schema.Defaults()
	p.open = true
}

// OpenEdit shows the form pre-populated from item.
func (p *Page[T]) OpenEdit(item T) {
	form := p.cfg.Schema.Defaults()
	if p.cfg.FromRecord != nil {
		for k, v := range p.cfg.FromRecord(item) {
			form[k] = v
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.editing = &item
	p.form = form
	p.open = true
}

// SetField sets one form value and runs the derivation hook.
func (p *Page[T]) SetField(name string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form[name] = value
	if p.cfg.OnChange != nil {
		p.cfg.OnChange(p.form, name)
	}
}

// UpdateForm sets several values, running the hook once per field.
func (p *Page[T]) UpdateForm(values Form) {
	for k, v := range values {
		p.SetField(k, v)
	}
}

func (p *Page[T]) CloseModal() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	p.editing = nil
}

// ErrModalClosed is returned by Submit without an open form.
var ErrModalClosed = errors.New("no form is open")

// Submit creates or updates from the form. On success the modal closes and
// the list is reloaded once; on failure the message is alerted and the
// modal stays open.
func (p *Page[T]) Submit(ctx context.Context) error {
	p.mu.Lock()
	if !p.open {
		p.mu.Unlock()
		return ErrModalClosed
	}
	form := p.form.clone()
	editing := p.editing
	p.mu.Unlock()

	payload, err := p.payload(form)
	if err != nil {
		p.cfg.Alerter.Alert(err.Error())
		return err
	}

	if editing != nil {
		_, err = p.cfg.Store.Update(ctx, p.cfg.ID(*editing), payload)
	} else {
		_, err = p.cfg.Store.Create(ctx, payload)
	}
	if err != nil {
		p.cfg.Alerter.Alert(client.Message(err))
		return err
	}

	p.CloseModal()
	// a failed reload is logged by Load and leaves the list empty
	_ = p.Load(ctx)
	return nil
}

func (p *Page[T]) payload(form Form) (any, error) {
	if p.cfg.Payload != nil {
		return p.cfg.Payload(form)
	}
	return p.cfg.Schema.Payload(form)
}

// Delete asks for confirmation, then deletes item and reloads. A declined
// confirmation makes no call.
func (p *Page[T]) Delete(ctx context.Context, item T) (bool, error) {
	prompt := "Delete this " + p.cfg.Schema.Entity + "?"
	if !p.cfg.Confirmer.Confirm(ctx, prompt) {
		return false, nil
	}
	if err := p.cfg.Store.Delete(ctx, p.cfg.ID(item)); err != nil {
		p.cfg.Alerter.Alert(client.Message(err))
		return false, err
	}
	_ = p.Load(ctx)
	return true, nil
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
