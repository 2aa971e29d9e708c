package converter

import (
	"fmt"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/maperr"
	"avro-mapper/internal/mapping"
	"avro-mapper/internal/record"
	"avro-mapper/internal/schema"
)

// readValue returns the value at path on rec. It never modifies rec.
func readValue(rec *record.Record, path mapping.FieldPath) (any, error) {
	current := rec

	for i := 0; i < path.Len()-1; i++ {
		next, err := descend(maperr.SideInput, current, path.At(i), false)
		if err != nil {
			return nil, err
		}

		current = next
	}

	pos, _, err := lookup(maperr.SideInput, current, path.Last())
	if err != nil {
		return nil, err
	}

	return current.Get(pos), nil
}

// writeValue stores value on rec at path, creating unset intermediate
// records. The terminal segment must name a field of the output schema and
// supplies the schema the value is shaped to; the value itself is placed
// under outName.
func writeValue(rec *record.Record, path mapping.FieldPath, value any, outName string) error {
	current := rec

	for i := 0; i < path.Len()-1; i++ {
		next, err := descend(maperr.SideOutput, current, path.At(i), true)
		if err != nil {
			return err
		}

		current = next
	}

	if value == nil {
		pos, _, err := lookup(maperr.SideOutput, current, outName)
		if err != nil {
			return err
		}

		return current.Set(pos, nil)
	}

	_, terminal, err := lookup(maperr.SideOutput, current, path.Last())
	if err != nil {
		return err
	}

	target, err := schema.ResolveField(maperr.SideOutput, terminal)
	if err != nil {
		return err
	}

	pos, _, err := lookup(maperr.SideOutput, current, outName)
	if err != nil {
		return err
	}

	if enum, ok := schema.AsEnum(target); ok {
		value, err = toEnum(enum, outName, value)
		if err != nil {
			return err
		}
	} else {
		value = record.CloneValue(value)
	}

	return current.Set(pos, value)
}

// descend returns the nested record held by the field called name. With
// create set, an unset nested record is instantiated from the field's
// resolved record schema.
func descend(side maperr.Side, rec *record.Record, name string, create bool) (*record.Record, error) {
	pos, f, err := lookup(side, rec, name)
	if err != nil {
		return nil, err
	}

	target, err := schema.ResolveField(side, f)
	if err != nil {
		return nil, err
	}

	if _, ok := target.(*avro.RecordSchema); !ok {
		return nil, &maperr.SchemaResolutionError{
			Side:   side,
			Field:  name,
			Schema: schema.FullName(target),
			Reason: maperr.ReasonNotRecord,
		}
	}

	switch v := rec.Get(pos).(type) {
	case *record.Record:
		if v != nil {
			return v, nil
		}
	case nil:
	default:
		return nil, &maperr.SchemaResolutionError{
			Side:   side,
			Field:  name,
			Schema: schema.FullName(target),
			Reason: maperr.ReasonNotRecord,
		}
	}

	if !create {
		return nil, &maperr.SchemaResolutionError{
			Side:   side,
			Field:  name,
			Schema: schema.FullName(target),
			Reason: maperr.ReasonUnsetNestedRecord,
		}
	}

	nested, err := record.New(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create nested record %s: %w", name, err)
	}

	if err := rec.Set(pos, nested); err != nil {
		return nil, err
	}

	return nested, nil
}

// lookup finds the field called name on rec's schema.
func lookup(side maperr.Side, rec *record.Record, name string) (int, *avro.Field, error) {
	f, err := schema.FieldAt(side, rec.Schema(), name)
	if err != nil {
		return -1, nil, err
	}

	pos, _ := schema.Field(rec.Schema(), f.Name())

	return pos, f, nil
}

// toEnum re-creates value as a symbol of the output enum, using the value's
// textual form.
func toEnum(s *avro.EnumSchema, field string, value any) (record.Enum, error) {
	var symbol string

	switch v := value.(type) {
	case record.Enum:
		symbol = v.Symbol()
	case string:
		symbol = v
	default:
		symbol = fmt.Sprint(v)
	}

	e, err := record.NewEnum(s, symbol)
	if err != nil {
		return record.Enum{}, &maperr.TypeMismatchError{
			Field:  field,
			Got:    fmt.Sprintf("%T", value),
			Schema: s.FullName(),
			Cause:  err,
		}
	}

	return e, nil
}
