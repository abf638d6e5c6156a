package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindBool
	kindDateTime
	kindEnum
	kindJSON
)

func (k fieldKind) numeric() bool { return k == kindInt || k == kindFloat }

type fieldMeta struct {
	name     string
	kind     fieldKind
	nullable bool
}

// modelMeta describes the columns of one model table. Table and column names
// are the schema names.
type modelMeta struct {
	name      string
	fields    []fieldMeta
	index     map[string]int
	updatedAt bool
}

func newModelMeta(name string, fields ...fieldMeta) *modelMeta {
	m := &modelMeta{name: name, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		m.index[f.name] = i
		if f.name == "updatedAt" {
			m.updatedAt = true
		}
	}
	return m
}

func (m *modelMeta) field(name string) (fieldMeta, bool) {
	i, ok := m.index[name]
	if !ok {
		return fieldMeta{}, false
	}
	return m.fields[i], true
}

func (m *modelMeta) scope() scope { return scope{alias: m.name} }

func (m *modelMeta) unknownField(name string) error {
	return &ValidationError{Message: fmt.Sprintf("Unknown field `%s` for model `%s`.", name, m.name)}
}

// checkFields validates names against the model and returns them as strings.
func checkFields[F ~string](m *modelMeta, fields []F) ([]string, error) {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := m.field(string(f)); !ok {
			return nil, m.unknownField(string(f))
		}
		out = append(out, string(f))
	}
	return out, nil
}

// normalize converts a raw driver value into the Go type of the field kind.
func (f fieldMeta) normalize(v any) any {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil
	}
	switch f.kind {
	case kindInt:
		if n, ok := toFloat(v); ok {
			return int64(n)
		}
	case kindFloat:
		if n, ok := toFloat(v); ok {
			return n
		}
	case kindBool:
		switch x := v.(type) {
		case bool:
			return x
		case int64:
			return x != 0
		case string:
			b, err := strconv.ParseBool(x)
			if err == nil {
				return b
			}
		}
	case kindDateTime:
		if s, ok := v.(string); ok {
			if t, ok := parseTime(s); ok {
				return t
			}
		}
	}
	return v
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case []byte:
		return toFloat(string(x))
	case string:
		n, err := strconv.ParseFloat(x, 64)
		return n, err == nil
	}
	return 0, false
}

func toInt(v any) int64 {
	n, _ := toFloat(v)
	return int64(n)
}

func newID() string { return uuid.NewString() }

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func timeOr(p *time.Time, def time.Time) time.Time {
	if p == nil {
		return def
	}
	return p.UTC()
}

func utcPtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	t := p.UTC()
	return &t
}

// deref returns the pointed-to value, or an untyped nil.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
