// Package schemas declares the list, table and form of every admin screen.
// One generic page drives all of them.
package schemas

import (
	"fmt"
	"sort"
	"strings"

	"farmadmin/internal/client"
	"farmadmin/internal/page"

	"go.uber.org/zap"
)

var registry = map[string]page.Schema{}

// onChange holds the form derivations of the screens that have one.
var onChange = map[string]func(page.Form, string){}

// fromRecord overrides Schema.FormFrom where an edit form needs more than
// the record's own fields.
var fromRecord = map[string]func(client.Record) page.Form{}

func register(s page.Schema) {
	key := strings.TrimPrefix(s.Path, "/")
	if _, dup := registry[key]; dup {
		panic("schemas: duplicate " + key)
	}
	registry[key] = s
}

// Lookup finds a schema by its collection name, e.g. "seasons".
func Lookup(name string) (page.Schema, error) {
	s, ok := registry[strings.Trim(name, "/")]
	if !ok {
		return page.Schema{}, fmt.Errorf("unknown entity %q", name)
	}
	return s, nil
}

// Names lists the registered collections in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func All() []page.Schema {
	out := make([]page.Schema, 0, len(registry))
	for _, n := range Names() {
		out = append(out, registry[n])
	}
	return out
}

// Resource returns the REST collection of s.
func Resource(c *client.Client, s page.Schema) *client.Resource[client.Record] {
	res := client.NewResource[client.Record](c, s.Path)
	if s.UpdateMethod != "" {
		res.UpdateMethod = s.UpdateMethod
	}
	return res
}

// NewPage wires the generic page for s against the API.
func NewPage(c *client.Client, s page.Schema, log *zap.Logger, confirm page.Confirmer, alert page.Alerter) *page.Page[client.Record] {
	if log == nil {
		log = zap.NewNop()
	}
	key := strings.TrimPrefix(s.Path, "/")
	from := fromRecord[key]
	if from == nil {
		from = s.FormFrom
	}
	return page.New(page.Config[client.Record]{
		Store:      Resource(c, s),
		Schema:     s,
		ID:         client.Record.ID,
		FromRecord: from,
		OnChange:   onChange[key],
		Confirmer:  confirm,
		Alerter:    alert,
		Logger:     log.With(zap.String("entity", s.Entity)),
	})
}

func text(name string, required bool) page.Field {
	return page.Field{Name: name, Kind: page.Text, Required: required}
}

func area(name string) page.Field {
	return page.Field{Name: name, Kind: page.TextArea}
}

func number(name string) page.Field {
	return page.Field{Name: name, Kind: page.Number}
}

func date(name string, required bool) page.Field {
	return page.Field{Name: name, Kind: page.Date, Required: required}
}

func ref(name, path string, required bool) page.Field {
	return page.Field{Name: name, Kind: page.Ref, RefPath: path, Required: required}
}

func choice(name string, def string, options ...string) page.Field {
	f := page.Field{Name: name, Kind: page.Select, Options: options}
	if def != "" {
		f.Default = def
	}
	return f
}

func active() page.Field {
	return page.Field{Name: "is_active", Label: "active", Kind: page.Bool, Default: true}
}

func col(header, key string) page.Column {
	return page.Column{Header: header, Key: key}
}

func badge(header, key string) page.Column {
	return page.Column{Header: header, Key: key, Status: true}
}

// qty renders a number with its unit, blank when unset.
func qty(header, key, unit string) page.Column {
	return page.Column{Header: header, Key: key, Format: func(r client.Record) string {
		v := r.String(key)
		if v == "" {
			return ""
		}
		return v + " " + unit
	}}
}
