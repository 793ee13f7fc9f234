// Package fields holds per-entity descriptor tables that map the small set of externally visible field
// names to column names and value coercions. Only names present in a Set ever reach identifier position
// in generated SQL.
package fields

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/frahmantamala/org-admin/internal"
	"github.com/frahmantamala/org-admin/internal/core/sqlbind"
)

// Coercer converts a decoded JSON or query-string value into the value bound for the column.
type Coercer func(v any) (any, error)

type Field struct {
	Column string
	Coerce Coercer
}

type Set map[string]Field

func (s Set) sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Set) coerce(name string, v any) (Field, any, error) {
	f, ok := s[name]
	if !ok {
		return Field{}, nil, internal.NewValidationFieldError(name, "unknown field: "+name, internal.ErrCodeUnknownField)
	}
	if f.Coerce == nil {
		return f, v, nil
	}
	out, err := f.Coerce(v)
	if err != nil {
		return Field{}, nil, internal.NewValidationFieldError(name, fmt.Sprintf("%s: %v", name, err), internal.ErrCodeValidationFailed)
	}
	return f, out, nil
}

// Assignments renders "column = $n" fragments for every key of patch, in sorted key order.
func (s Set) Assignments(patch map[string]any, b *sqlbind.Binder) ([]string, error) {
	if len(patch) == 0 {
		return nil, internal.ErrEmptyUpdate
	}
	sets := make([]string, 0, len(patch))
	for _, k := range s.sortedKeys(patch) {
		f, v, err := s.coerce(k, patch[k])
		if err != nil {
			return nil, err
		}
		sets = append(sets, f.Column+" = "+b.Bind(v))
	}
	return sets, nil
}

// Values returns the columns and coerced values of input, in sorted key order.
func (s Set) Values(input map[string]any) ([]string, []any, error) {
	cols := make([]string, 0, len(input))
	vals := make([]any, 0, len(input))
	for _, k := range s.sortedKeys(input) {
		f, v, err := s.coerce(k, input[k])
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, f.Column)
		vals = append(vals, v)
	}
	return cols, vals, nil
}

// Filters keeps the allow-listed, non-empty parameters and keys them by column name.
// Unknown parameters are dropped; a value failing coercion is an InvalidArgument.
func (s Set) Filters(get func(string) string) (map[string]any, error) {
	out := make(map[string]any)
	for name, f := range s {
		raw := get(name)
		if raw == "" {
			continue
		}
		v := any(raw)
		if f.Coerce != nil {
			c, err := f.Coerce(raw)
			if err != nil {
				return nil, internal.NewValidationFieldError(name, fmt.Sprintf("%s: %v", name, err), internal.ErrCodeValidationFailed)
			}
			v = c
		}
		out[f.Column] = v
	}
	return out, nil
}

// Has reports whether name is a known field.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Column resolves name, falling back when it is not in the set.
func (s Set) Column(name, fallback string) string {
	if f, ok := s[name]; ok {
		return f.Column
	}
	return fallback
}

func String(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("must not be empty")
	}
	return s, nil
}

// NullableString maps null and "" to NULL.
func NullableString(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	return s, nil
}

// Int64 accepts JSON numbers (float64), Go integers and numeric strings.
func Int64(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return nil, fmt.Errorf("expected integer, got %v", n)
		}
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", n)
		}
		return i, nil
	default:
		return nil, fmt.Errorf("expected integer, got %T", v)
	}
}

func OneOf(allowed ...string) Coercer {
	return func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		for _, a := range allowed {
			if s == a {
				return s, nil
			}
		}
		return nil, fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}
