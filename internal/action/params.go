package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrMissingParam = errors.New("missing parameter")
	ErrParamType    = errors.New("parameter has wrong type")
)

// Params carries verb-specific arguments. Values decoded from JSON are
// float64, string, bool, map[string]any or []any; in-process callers may
// also store typed values such as project.Clip.
type Params map[string]any

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the value at key if it is a string.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetString returns the string at key or "".
func (p Params) GetString(key string) string {
	s, _ := p.String(key)
	return s
}

// Float returns the value at key if it is numeric.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// GetFloat returns the number at key or 0.
func (p Params) GetFloat(key string) float64 {
	f, _ := p.Float(key)
	return f
}

// Int returns the value at key truncated to int if it is numeric.
func (p Params) Int(key string) (int, bool) {
	f, ok := p.Float(key)
	return int(f), ok
}

func (p Params) Bool(key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetBool returns the bool at key or false.
func (p Params) GetBool(key string) bool {
	b, _ := p.Bool(key)
	return b
}

// Map returns the value at key if it is a JSON object.
func (p Params) Map(key string) (map[string]any, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Decode stores the value at key into dst, which must be a non-nil pointer.
// Values that already have dst's type are assigned directly; anything else
// goes through a JSON round trip.
func (p Params) Decode(key string, dst any) error {
	v, ok := p[key]
	if !ok || v == nil {
		return fmt.Errorf("%w: %s", ErrMissingParam, key)
	}

	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return fmt.Errorf("decode %s: destination must be a non-nil pointer", key)
	}
	elem := target.Elem()

	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(elem.Type()) {
		elem.Set(src)
		return nil
	}
	if src.Kind() == reflect.Pointer && !src.IsNil() && src.Elem().Type().AssignableTo(elem.Type()) {
		elem.Set(src.Elem())
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParamType, key, err)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
