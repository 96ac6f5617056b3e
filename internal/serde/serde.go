// Package serde converts arbitrary Go values, typically AWS SDK output shapes, into
// JSON-native values: map[string]any, []any, string, bool, numbers and nil.
package serde

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// TimeLayout is the ISO-8601 layout used for every time.Time value.
const TimeLayout = time.RFC3339Nano

var (
	timeType          = reflect.TypeFor[time.Time]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// UnsupportedTypeError is returned when a value has no JSON representation.
type UnsupportedTypeError struct {
	Type reflect.Type
	Path string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("object of type %s is not JSON serializable", e.Type)
	}
	return fmt.Sprintf("object of type %s at %s is not JSON serializable", e.Type, e.Path)
}

// Normalise converts v into a JSON-native value.
//
// Struct fields are keyed by their `json` tag name when present and by the field name
// otherwise; nil pointers, slices, maps and interfaces held by struct fields are omitted.
// time.Time values are rendered with TimeLayout. Values implementing json.Marshaler are
// round-tripped through encoding/json. Channels, functions, complex numbers and unsafe
// pointers yield an *UnsupportedTypeError.
func Normalise(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return normalise(reflect.ValueOf(v), "")
}

// NormaliseAll normalises each element of a slice.
func NormaliseAll[T any](in []T) ([]any, error) {
	out := make([]any, 0, len(in))
	for i := range in {
		n, err := normalise(reflect.ValueOf(&in[i]).Elem(), fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func normalise(rv reflect.Value, path string) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalise(rv.Elem(), path)
	}

	t := rv.Type()
	if t == timeType {
		return rv.Interface().(time.Time).Format(TimeLayout), nil
	}
	if t.Implements(jsonMarshalerType) {
		return viaJSON(rv, path)
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			// []byte keeps its encoding/json representation (base64)
			return viaJSON(rv, path)
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			el, err := normalise(rv.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = el
		}
		return out, nil
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		return normaliseMap(rv, path)
	case reflect.Struct:
		return normaliseStruct(rv, path)
	default:
		return nil, &UnsupportedTypeError{Type: t, Path: path}
	}
}

func normaliseMap(rv reflect.Value, path string) (any, error) {
	t := rv.Type()
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return nil, &UnsupportedTypeError{Type: t, Path: path}
		}
		el, err := normalise(iter.Value(), joinPath(path, key))
		if err != nil {
			return nil, err
		}
		out[key] = el
	}
	return out, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textMarshalerType) {
		b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprint(k.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprint(k.Uint()), nil
	}
	return "", fmt.Errorf("unsupported map key type %s", k.Type())
}

func normaliseStruct(rv reflect.Value, path string) (any, error) {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := fieldName(field)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if isNilish(fv) {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		el, err := normalise(fv, joinPath(path, name))
		if err != nil {
			return nil, err
		}
		out[name] = el
	}
	return out, nil
}

func fieldName(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name, false, false
	}
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = f.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func isNilish(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	}
	return false
}

func viaJSON(rv reflect.Value, path string) (any, error) {
	b, err := json.Marshal(rv.Interface())
	if err != nil {
		return nil, &UnsupportedTypeError{Type: rv.Type(), Path: path}
	}
	var out any
	if err = json.Unmarshal(b, &out); err != nil {
		return nil, &UnsupportedTypeError{Type: rv.Type(), Path: path}
	}
	return out, nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
