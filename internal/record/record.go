package record

import (
	"fmt"
	"strings"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/maperr"
	"avro-mapper/internal/schema"
)

// Record is a mutable instance of an Avro record schema.
type Record struct {
	schema *avro.RecordSchema
	values []any
}

// New constructs a record of schema s with every field set to its schema
// default, or nil when the field has none. s may be a named reference to a
// record schema.
func New(s avro.Schema) (*Record, error) {
	rec, ok := schema.AsRecord(s)
	if !ok {
		return nil, fmt.Errorf("could not create record for schema %s: not a record", schema.FullName(s))
	}

	fields := rec.Fields()
	r := &Record{schema: rec, values: make([]any, len(fields))}

	for i, f := range fields {
		v, err := defaultValue(f)
		if err != nil {
			return nil, fmt.Errorf("could not create record %s: field %s: %w", rec.FullName(), f.Name(), err)
		}

		r.values[i] = v
	}

	return r, nil
}

// Schema returns the record schema.
func (r *Record) Schema() *avro.RecordSchema {
	return r.schema
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.values)
}

// Get returns the value at field position pos, or nil when pos is out of range.
func (r *Record) Get(pos int) any {
	if pos < 0 || pos >= len(r.values) {
		return nil
	}

	return r.values[pos]
}

// GetByName returns the value of the named field.
func (r *Record) GetByName(name string) (any, bool) {
	pos, f := schema.Field(r.schema, name)
	if f == nil {
		return nil, false
	}

	return r.values[pos], true
}

// Put sets the named field. Values that cannot be placed into the field's
// declared type fail with a *maperr.TypeMismatchError; nil is always accepted.
func (r *Record) Put(name string, v any) error {
	pos, f := schema.Field(r.schema, name)
	if f == nil {
		return &maperr.SchemaResolutionError{
			Field:  name,
			Schema: r.schema.FullName(),
			Reason: maperr.ReasonFieldNotFound,
		}
	}

	return r.set(pos, f, v)
}

// Set sets the field at position pos with the same checks as Put.
func (r *Record) Set(pos int, v any) error {
	fields := r.schema.Fields()
	if pos < 0 || pos >= len(fields) {
		return fmt.Errorf("field position %d out of range for record %s", pos, r.schema.FullName())
	}

	return r.set(pos, fields[pos], v)
}

func (r *Record) set(pos int, f *avro.Field, v any) error {
	if rec, ok := v.(*Record); ok && rec == nil {
		v = nil
	}

	if v != nil {
		if err := conforms(f.Type(), v); err != nil {
			mismatch := &maperr.TypeMismatchError{
				Field:  f.Name(),
				Got:    fmt.Sprintf("%T", v),
				Schema: schema.FullName(f.Type()),
			}
			if err != errNotAssignable {
				mismatch.Cause = err
			}

			return mismatch
		}
	}

	r.values[pos] = v

	return nil
}

// Copy returns a deep copy of the record. Nested records, arrays, maps and
// byte slices are duplicated; the schema is shared.
func (r *Record) Copy() *Record {
	if r == nil {
		return nil
	}

	values := make([]any, len(r.values))
	for i, v := range r.values {
		values[i] = copyValue(v)
	}

	return &Record{schema: r.schema, values: values}
}

// Map returns the record as a generic map. Nested records become maps and
// enums become their symbol names.
func (r *Record) Map() map[string]any {
	fields := r.schema.Fields()

	m := make(map[string]any, len(fields))
	for i, f := range fields {
		m[f.Name()] = nativeValue(r.values[i])
	}

	return m
}

// String renders the record as JSON.
func (r *Record) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%s{<%v>}", r.schema.FullName(), err)
	}

	return string(data)
}

// FromNative builds a record of schema s from a generic map, converting
// values to the record model. Fields missing from native take their defaults.
func FromNative(s avro.Schema, native map[string]any) (*Record, error) {
	r, err := New(s)
	if err != nil {
		return nil, err
	}

	var problems []string

	for i, f := range r.schema.Fields() {
		raw, ok := native[f.Name()]
		if !ok {
			continue
		}

		v, err := coerce(f.Type(), raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("field %s: %v", f.Name(), err))
			continue
		}

		r.values[i] = v
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("record %s: %s", r.schema.FullName(), strings.Join(problems, "; "))
	}

	return r, nil
}

func defaultValue(f *avro.Field) (any, error) {
	if !f.HasDefault() {
		return nil, nil
	}

	return coerce(f.Type(), f.Default())
}

// CloneValue deep-copies a value of the record model so the copy shares no
// slices, maps or nested records with v.
func CloneValue(v any) any {
	return copyValue(v)
}

func copyValue(v any) any {
	switch val := v.(type) {
	case *Record:
		return val.Copy()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = copyValue(item)
		}

		return out
	case []byte:
		return append([]byte(nil), val...)
	default:
		return v
	}
}

func nativeValue(v any) any {
	switch val := v.(type) {
	case *Record:
		if val == nil {
			return nil
		}

		return val.Map()
	case Enum:
		return val.Symbol()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = nativeValue(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = nativeValue(item)
		}

		return out
	default:
		return v
	}
}
