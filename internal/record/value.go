package record

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/schema"
)

var errNotAssignable = errors.New("value is not assignable")

// conforms reports whether v can be stored in a field of schema s without
// conversion.
func conforms(s avro.Schema, v any) error {
	s = schema.Deref(s)
	if s == nil {
		return fmt.Errorf("schema is nil")
	}

	switch s.Type() {
	case avro.Null:
		if v == nil {
			return nil
		}
	case avro.Boolean:
		if _, ok := v.(bool); ok {
			return nil
		}
	case avro.Int:
		switch v.(type) {
		case int32, time.Time, time.Duration:
			return nil
		}
	case avro.Long:
		switch v.(type) {
		case int64, time.Time, time.Duration:
			return nil
		}
	case avro.Float:
		if _, ok := v.(float32); ok {
			return nil
		}
	case avro.Double:
		if _, ok := v.(float64); ok {
			return nil
		}
	case avro.String:
		if _, ok := v.(string); ok {
			return nil
		}
	case avro.Bytes:
		switch v.(type) {
		case []byte, *big.Rat:
			return nil
		}
	case avro.Fixed:
		return conformsFixed(s.(*avro.FixedSchema), v)
	case avro.Enum:
		return conformsEnum(s.(*avro.EnumSchema), v)
	case avro.Record, avro.Error:
		return conformsRecord(s.(*avro.RecordSchema), v)
	case avro.Array:
		return conformsArray(s.(*avro.ArraySchema), v)
	case avro.Map:
		return conformsMap(s.(*avro.MapSchema), v)
	case avro.Union:
		return conformsUnion(s.(*avro.UnionSchema), v)
	}

	return errNotAssignable
}

func conformsFixed(s *avro.FixedSchema, v any) error {
	switch val := v.(type) {
	case []byte:
		if len(val) != s.Size() {
			return fmt.Errorf("fixed %s needs %d bytes, got %d", s.FullName(), s.Size(), len(val))
		}

		return nil
	case *big.Rat:
		return nil
	}

	return errNotAssignable
}

func conformsEnum(s *avro.EnumSchema, v any) error {
	e, ok := v.(Enum)
	if !ok {
		return errNotAssignable
	}

	if e.schema == nil || e.schema.FullName() != s.FullName() {
		return fmt.Errorf("symbol %s belongs to enum %s", e.symbol, schema.FullName(e.schema))
	}

	return nil
}

func conformsRecord(s *avro.RecordSchema, v any) error {
	r, ok := v.(*Record)
	if !ok || r == nil {
		return errNotAssignable
	}

	if r.schema.FullName() != s.FullName() {
		return fmt.Errorf("record is of schema %s", r.schema.FullName())
	}

	// same name, different fields
	if r.schema != s && r.schema.Fingerprint() != s.Fingerprint() {
		return fmt.Errorf("record schema %s has a different field layout", r.schema.FullName())
	}

	return nil
}

func conformsArray(s *avro.ArraySchema, v any) error {
	items, ok := v.([]any)
	if !ok {
		return errNotAssignable
	}

	for i, item := range items {
		if err := conformsItem(s.Items(), item); err != nil {
			return fmt.Errorf("array item %d: %w", i, err)
		}
	}

	return nil
}

func conformsMap(s *avro.MapSchema, v any) error {
	entries, ok := v.(map[string]any)
	if !ok {
		return errNotAssignable
	}

	for k, item := range entries {
		if err := conformsItem(s.Values(), item); err != nil {
			return fmt.Errorf("map value %q: %w", k, err)
		}
	}

	return nil
}

// conformsItem checks a container element, where nil is only valid for
// nullable element types.
func conformsItem(s avro.Schema, v any) error {
	if v == nil {
		if nullable(s) {
			return nil
		}

		return errNotAssignable
	}

	return conforms(s, v)
}

func conformsUnion(s *avro.UnionSchema, v any) error {
	if v == nil {
		if nullable(s) {
			return nil
		}

		return errNotAssignable
	}

	for _, branch := range s.Types() {
		if schema.IsNull(branch) {
			continue
		}

		if conforms(branch, v) == nil {
			return nil
		}
	}

	return errNotAssignable
}

func nullable(s avro.Schema) bool {
	s = schema.Deref(s)
	if schema.IsNull(s) {
		return true
	}

	union, ok := s.(*avro.UnionSchema)
	if !ok {
		return false
	}

	for _, branch := range union.Types() {
		if schema.IsNull(branch) {
			return true
		}
	}

	return false
}

// coerce converts a generic or decoded value (schema defaults, hamba decoder
// output, JSON-ish maps) into the record value model for schema s.
func coerce(s avro.Schema, raw any) (any, error) {
	s = schema.Deref(s)
	if s == nil {
		return nil, fmt.Errorf("schema is nil")
	}

	if raw == nil {
		if nullable(s) {
			return nil, nil
		}

		return nil, fmt.Errorf("null is not a valid %s", schema.FullName(s))
	}

	switch s.Type() {
	case avro.Null:
		return nil, fmt.Errorf("expected null, got %T", raw)
	case avro.Boolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case avro.Int:
		if isTimeValue(raw) {
			return raw, nil
		}

		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}

		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("value %d overflows int", n)
		}

		return int32(n), nil
	case avro.Long:
		if isTimeValue(raw) {
			return raw, nil
		}

		return toInt64(raw)
	case avro.Float:
		f, err := toFloat64(raw)
		if err != nil {
			return nil, err
		}

		return float32(f), nil
	case avro.Double:
		return toFloat64(raw)
	case avro.String:
		if str, ok := raw.(string); ok {
			return str, nil
		}
	case avro.Bytes:
		return toBytes(raw, -1)
	case avro.Fixed:
		fixed := s.(*avro.FixedSchema)
		if rat, ok := raw.(*big.Rat); ok {
			return rat, nil
		}

		return toBytes(raw, fixed.Size())
	case avro.Enum:
		return coerceEnum(s.(*avro.EnumSchema), raw)
	case avro.Record, avro.Error:
		return coerceRecord(s.(*avro.RecordSchema), raw)
	case avro.Array:
		return coerceArray(s.(*avro.ArraySchema), raw)
	case avro.Map:
		return coerceMap(s.(*avro.MapSchema), raw)
	case avro.Union:
		return coerceUnion(s.(*avro.UnionSchema), raw)
	}

	return nil, fmt.Errorf("cannot use %T as %s", raw, schema.FullName(s))
}

func coerceEnum(s *avro.EnumSchema, raw any) (any, error) {
	switch val := raw.(type) {
	case Enum:
		return NewEnum(s, val.symbol)
	case string:
		return NewEnum(s, val)
	case fmt.Stringer:
		return NewEnum(s, val.String())
	}

	return nil, fmt.Errorf("cannot use %T as enum %s", raw, s.FullName())
}

func coerceRecord(s *avro.RecordSchema, raw any) (any, error) {
	switch val := raw.(type) {
	case *Record:
		if err := conformsRecord(s, val); err != nil {
			return nil, fmt.Errorf("cannot use record as %s: %w", s.FullName(), err)
		}

		return val, nil
	case map[string]any:
		return FromNative(s, val)
	}

	return nil, fmt.Errorf("cannot use %T as record %s", raw, s.FullName())
}

func coerceArray(s *avro.ArraySchema, raw any) (any, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("cannot use %T as array", raw)
	}

	out := make([]any, rv.Len())
	for i := range out {
		v, err := coerce(s.Items(), rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("array item %d: %w", i, err)
		}

		out[i] = v
	}

	return out, nil
}

func coerceMap(s *avro.MapSchema, raw any) (any, error) {
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("cannot use %T as map", raw)
	}

	out := make(map[string]any, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()

		v, err := coerce(s.Values(), iter.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("map value %q: %w", key, err)
		}

		out[key] = v
	}

	return out, nil
}

// coerceUnion accepts a plain branch value or Avro's single-key
// {"branch": value} wrapping.
func coerceUnion(s *avro.UnionSchema, raw any) (any, error) {
	if wrapped, ok := raw.(map[string]any); ok && len(wrapped) == 1 {
		for name, inner := range wrapped {
			for _, branch := range s.Types() {
				if schema.BranchName(branch) == name {
					return coerce(branch, inner)
				}
			}
		}
	}

	var errs []error

	for _, branch := range s.Types() {
		if schema.IsNull(branch) {
			continue
		}

		v, err := coerce(branch, raw)
		if err == nil {
			return v, nil
		}

		errs = append(errs, err)
	}

	return nil, fmt.Errorf("no branch of union %s accepts %T: %w", s.String(), raw, errors.Join(errs...))
}

func isTimeValue(v any) bool {
	switch v.(type) {
	case time.Time, time.Duration:
		return true
	default:
		return false
	}
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows long", n)
		}

		return int64(n), nil
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	}

	return 0, fmt.Errorf("cannot use %T as an integer", raw)
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
		return 0, fmt.Errorf("value %v is not an integer", f)
	}

	return int64(f), nil
}

func toFloat64(raw any) (float64, error) {
	switch n := raw.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int, int8, int16, int32, int64, uint8, uint16, uint32, uint64:
		i, err := toInt64(raw)
		return float64(i), err
	}

	return 0, fmt.Errorf("cannot use %T as a number", raw)
}

// toBytes accepts []byte, strings (Avro JSON encodes bytes as ISO-8859-1
// text) and byte arrays as decoded for fixed. size < 0 means any length.
func toBytes(raw any, size int) (any, error) {
	var out []byte

	switch val := raw.(type) {
	case []byte:
		out = append([]byte(nil), val...)
	case string:
		out = make([]byte, 0, len(val))
		for _, r := range val {
			if r > 0xff {
				return nil, fmt.Errorf("character %q is not a byte", r)
			}

			out = append(out, byte(r))
		}
	case *big.Rat:
		if size < 0 {
			return val, nil
		}
	default:
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Array || rv.Type().Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("cannot use %T as bytes", raw)
		}

		out = make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
	}

	if size >= 0 && len(out) != size {
		return nil, fmt.Errorf("fixed needs %d bytes, got %d", size, len(out))
	}

	return out, nil
}
