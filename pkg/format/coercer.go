package format

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// Coercer validates one raw field value and returns its canonical form.
// Coercers never mutate their input.
type Coercer func(value any) (any, error)

type omitted struct{}

func (omitted) String() string { return "<omit>" }

// Omit is returned by a coercer to leave the key out of the record.
// It is distinct from nil, which is stored as an explicit null.
var Omit any = omitted{}

// Field binds a record key to its coercer.
type Field struct {
	Name   string
	Coerce Coercer
}

// Spec is an ordered set of fields describing one record kind.
type Spec []Field

// Names returns the field names in declaration order.
func (s Spec) Names() []string {
	out := make([]string, 0, len(s))
	for _, f := range s {
		out = append(out, f.Name)
	}
	return out
}

// Record is a canonical record produced by Apply.
type Record map[string]any

// Apply coerces every field of spec from raw. Unknown keys in raw are ignored and a
// missing key is read as null. The first failure is returned annotated with the
// field name; no partial record is produced.
func Apply(spec Spec, raw map[string]any) (Record, error) {
	out := make(Record, len(spec))
	for _, f := range spec {
		value := raw[f.Name]
		v, err := f.Coerce(value)
		if err != nil {
			return nil, annotate(err, f.Name, value)
		}
		if v == Omit {
			continue
		}
		out[f.Name] = v
	}
	return out, nil
}

// Object returns a coercer that applies spec to a nested object.
func Object(spec Spec) Coercer {
	return func(value any) (any, error) {
		obj, ok := asObject(value)
		if !ok {
			return nil, typeError("invalid object", value, nil)
		}
		return Apply(spec, obj)
	}
}

// AllowNull returns nullValue for nil input without calling c. Pass Omit to drop
// the key, or nil to keep an explicit null.
func AllowNull(c Coercer, nullValue any) Coercer {
	return func(value any) (any, error) {
		if value == nil {
			return nullValue, nil
		}
		return c(value)
	}
}

// AllowFalsish returns replacement for falsy input (nil, false, zero, "", NaN)
// without calling c.
func AllowFalsish(c Coercer, replacement any) Coercer {
	return func(value any) (any, error) {
		if isFalsish(value) {
			return replacement, nil
		}
		return c(value)
	}
}

// ArrayOf maps c over every element of an array-like value and returns a new []any.
func ArrayOf(c Coercer) Coercer {
	return func(value any) (any, error) {
		items, ok := asSlice(value)
		if !ok {
			return nil, typeError("not an array", value, ErrNotArray)
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			v, err := c(item)
			if err != nil {
				return nil, annotate(err, "["+strconv.Itoa(i)+"]", item)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

func lift[T any](fn func(any) (T, error)) Coercer {
	return func(value any) (any, error) {
		v, err := fn(value)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

func asObject(value any) (map[string]any, bool) {
	switch t := value.(type) {
	case map[string]any:
		return t, true
	case Record:
		return t, true
	default:
		return nil, false
	}
}

func asSlice(value any) ([]any, bool) {
	switch t := value.(type) {
	case nil:
		return nil, false
	case []any:
		return t, true
	case string, json.RawMessage, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isFalsish(value any) bool {
	switch t := value.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	case float64:
		return t == 0 || math.IsNaN(t)
	case float32:
		return t == 0 || math.IsNaN(float64(t))
	case int:
		return t == 0
	case int64:
		return t == 0
	case int32:
		return t == 0
	case uint:
		return t == 0
	case uint64:
		return t == 0
	case uint32:
		return t == 0
	}
	return false
}
