package record

import (
	"fmt"
	"reflect"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/schema"
)

// MarshalBinary encodes r in Avro binary form.
func MarshalBinary(r *Record) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("failed to encode record: record is nil")
	}

	native, err := encodable(r.schema, r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record %s: %w", r.schema.FullName(), err)
	}

	data, err := avro.Marshal(r.schema, native)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record %s: %w", r.schema.FullName(), err)
	}

	return data, nil
}

// UnmarshalBinary decodes Avro binary data written with schema s.
func UnmarshalBinary(s avro.Schema, data []byte) (*Record, error) {
	rec, ok := schema.AsRecord(s)
	if !ok {
		return nil, fmt.Errorf("failed to decode record: schema %s is not a record", schema.FullName(s))
	}

	var native map[string]any
	if err := avro.Unmarshal(rec, data, &native); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", rec.FullName(), err)
	}

	r, err := FromNative(rec, native)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", rec.FullName(), err)
	}

	return r, nil
}

// encodable converts a value of the record model into the generic form the
// encoder expects: records as maps, enums as symbols, fixed as byte arrays
// and union values wrapped by branch name.
func encodable(s avro.Schema, v any) (any, error) {
	s = schema.Deref(s)

	switch s.Type() {
	case avro.Union:
		if v == nil {
			return nil, nil
		}

		for _, branch := range s.(*avro.UnionSchema).Types() {
			if schema.IsNull(branch) || conforms(branch, v) != nil {
				continue
			}

			inner, err := encodable(branch, v)
			if err != nil {
				return nil, err
			}

			return map[string]any{schema.BranchName(branch): inner}, nil
		}

		return nil, fmt.Errorf("no branch of union %s accepts %T", s.String(), v)
	case avro.Record, avro.Error:
		r, ok := v.(*Record)
		if !ok || r == nil {
			return nil, fmt.Errorf("expected record %s, got %T", schema.FullName(s), v)
		}

		fields := r.schema.Fields()

		out := make(map[string]any, len(fields))
		for i, f := range fields {
			item, err := encodable(f.Type(), r.values[i])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name(), err)
			}

			out[f.Name()] = item
		}

		return out, nil
	case avro.Enum:
		if e, ok := v.(Enum); ok {
			return e.symbol, nil
		}
	case avro.Fixed:
		if b, ok := v.([]byte); ok {
			arr := reflect.New(reflect.ArrayOf(len(b), reflect.TypeOf(byte(0)))).Elem()
			reflect.Copy(arr, reflect.ValueOf(b))

			return arr.Interface(), nil
		}
	case avro.Array:
		items, ok := v.([]any)
		if !ok {
			break
		}

		out := make([]any, len(items))
		for i, item := range items {
			enc, err := encodable(s.(*avro.ArraySchema).Items(), item)
			if err != nil {
				return nil, fmt.Errorf("array item %d: %w", i, err)
			}

			out[i] = enc
		}

		return out, nil
	case avro.Map:
		entries, ok := v.(map[string]any)
		if !ok {
			break
		}

		out := make(map[string]any, len(entries))
		for k, item := range entries {
			enc, err := encodable(s.(*avro.MapSchema).Values(), item)
			if err != nil {
				return nil, fmt.Errorf("map value %q: %w", k, err)
			}

			out[k] = enc
		}

		return out, nil
	}

	return v, nil
}
