package page

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"farmadmin/internal/client"
)

type Kind int

const (
	Text Kind = iota
	TextArea
	Number
	Integer
	Date
	Bool
	Select
	// Ref holds the id of a record of another resource.
	Ref
	// List is entered comma separated and sent as an array of strings.
	List
)

// Field is one form input.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Options  []string
	Default  any
	// RefPath is the collection Ref options come from, e.g. "/farms".
	RefPath string
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return strings.ReplaceAll(f.Name, "_", " ")
}

// zero is the form value of an unset field.
func (f Field) zero() any {
	if f.Default != nil {
		return f.Default
	}
	if f.Kind == Bool {
		return false
	}
	return ""
}

// Column is one table column. Key is a dotted record path.
type Column struct {
	Header string
	Key    string
	// Status renders the value as a colored badge.
	Status bool
	Format func(client.Record) string
}

// Schema describes the list, table and form of one entity.
type Schema struct {
	Entity string
	Title  string
	// Path is the collection endpoint below the API root, e.g. "/farms".
	Path         string
	UpdateMethod string
	Fields       []Field
	Columns      []Column
	EmptyMessage string
	// Query is sent with every list call.
	Query map[string]string
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Form holds the modal's field values, keyed by field name.
type Form map[string]any

func (f Form) clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (f Form) String(name string) string {
	return client.Format(f[name])
}

// Defaults is a cleared create form.
func (s Schema) Defaults() Form {
	form := Form{}
	for _, f := range s.Fields {
		form[f.Name] = f.zero()
	}
	return form
}

// FormFrom pre-populates an edit form from rec. Absent and null values fall
// back to the field default; dates drop any time part.
func (s Schema) FormFrom(rec client.Record) Form {
	form := Form{}
	for _, f := range s.Fields {
		v, ok := rec[f.Name]
		if !ok || v == nil {
			form[f.Name] = f.zero()
			continue
		}
		switch f.Kind {
		case Date:
			str := client.Format(v)
			if i := strings.IndexAny(str, "T "); i > 0 {
				str = str[:i]
			}
			form[f.Name] = str
		case Ref, Number, Integer:
			form[f.Name] = client.Format(v)
		case List:
			form[f.Name] = joinNames(v)
		default:
			form[f.Name] = v
		}
	}
	return form
}

// joinNames flattens an array of strings or of {"name": ...} objects.
func joinNames(v any) string {
	items, ok := v.([]any)
	if !ok {
		return client.Format(v)
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			names = append(names, client.Format(m["name"]))
			continue
		}
		names = append(names, client.Format(it))
	}
	return strings.Join(names, ", ")
}

// RequiredError lists required fields left empty.
type RequiredError struct {
	Fields []string
}

func (e *RequiredError) Error() string {
	labels := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		labels[i] = "The " + f + " field is required."
	}
	return strings.Join(labels, " ")
}

// Payload coerces the form into the request body. Empty values of non-text
// fields become null; numbers, ids and booleans are parsed from their
// input text.
func (s Schema) Payload(form Form) (map[string]any, error) {
	body := map[string]any{}
	var missing []string
	for _, f := range s.Fields {
		v, err := coerce(f, form[f.Name])
		if err != nil {
			return nil, err
		}
		if f.Required && (v == nil || v == "") {
			missing = append(missing, f.label())
		}
		body[f.Name] = v
	}
	if len(missing) > 0 {
		return nil, &RequiredError{Fields: missing}
	}
	return body, nil
}

func coerce(f Field, v any) (any, error) {
	if v == nil {
		if f.Kind == Text || f.Kind == TextArea {
			return "", nil
		}
		return nil, nil
	}
	str, isString := v.(string)
	if isString {
		str = strings.TrimSpace(str)
	} else if f.Kind == Date || f.Kind == Select {
		str = client.Format(v)
	}

	switch f.Kind {
	case Text, TextArea:
		if isString {
			return str, nil
		}
		return client.Format(v), nil
	case Bool:
		if isString {
			if str == "" {
				return nil, nil
			}
			b, err := strconv.ParseBool(str)
			if err != nil {
				return nil, fmt.Errorf("%s must be true or false", f.label())
			}
			return b, nil
		}
		return v, nil
	case Number:
		if !isString {
			return client.ToFloat(v), nil
		}
		if str == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", f.label())
		}
		return n, nil
	case Integer, Ref:
		if !isString {
			return int64(client.ToFloat(v)), nil
		}
		if str == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", f.label())
		}
		return n, nil
	case Date:
		if str == "" {
			return nil, nil
		}
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD)", f.label())
		}
		return str, nil
	case Select:
		if str == "" {
			return nil, nil
		}
		return str, nil
	case List:
		if list, ok := v.([]string); ok {
			return list, nil
		}
		if !isString {
			str = joinNames(v)
		}
		out := []string{}
		for _, part := range strings.Split(str, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
	return v, nil
}
