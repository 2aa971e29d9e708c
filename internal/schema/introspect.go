package schema

import (
	"fmt"
	"os"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/maperr"
	"avro-mapper/internal/match"
)

// Parse parses an Avro schema definition with its own name cache, so
// schemas parsed separately never see each other's named types.
func Parse(text string) (avro.Schema, error) {
	s, err := avro.ParseWithCache(text, "", &avro.SchemaCache{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse avro schema: %w", err)
	}

	return s, nil
}

// LoadFile reads and parses an Avro schema file (.avsc).
func LoadFile(path string) (avro.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	s, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("schema file %s: %w", path, err)
	}

	return s, nil
}

// Deref follows named references until it reaches a concrete schema.
func Deref(s avro.Schema) avro.Schema {
	for {
		ref, ok := s.(*avro.RefSchema)
		if !ok {
			return s
		}

		var target avro.Schema = ref.Schema()
		s = target
	}
}

// FullName returns the qualified name of a named schema, or the type name
// ("int", "union", "array", ...) for anonymous ones.
func FullName(s avro.Schema) string {
	s = Deref(s)
	if s == nil {
		return "<nil>"
	}

	if named, ok := s.(avro.NamedSchema); ok {
		return named.FullName()
	}

	return string(s.Type())
}

// IsUnion reports whether s is a union.
func IsUnion(s avro.Schema) bool {
	_, ok := Deref(s).(*avro.UnionSchema)
	return ok
}

// IsNull reports whether s is the null type.
func IsNull(s avro.Schema) bool {
	s = Deref(s)
	return s != nil && s.Type() == avro.Null
}

// AsRecord returns s as a record schema.
func AsRecord(s avro.Schema) (*avro.RecordSchema, bool) {
	rec, ok := Deref(s).(*avro.RecordSchema)
	return rec, ok
}

// AsEnum returns s as an enum schema.
func AsEnum(s avro.Schema) (*avro.EnumSchema, bool) {
	enum, ok := Deref(s).(*avro.EnumSchema)
	return enum, ok
}

// ResolveUnion returns the single non-null branch of a union. Non-union
// schemas are returned dereferenced. A union with several concrete branches,
// or none, fails with a *maperr.SchemaResolutionError.
func ResolveUnion(s avro.Schema) (avro.Schema, error) {
	s = Deref(s)

	union, ok := s.(*avro.UnionSchema)
	if !ok {
		return s, nil
	}

	var resolved avro.Schema

	for _, branch := range union.Types() {
		if IsNull(branch) {
			continue
		}

		if resolved != nil {
			return nil, &maperr.SchemaResolutionError{
				Schema: describeUnion(union),
				Reason: maperr.ReasonAmbiguousUnion,
			}
		}

		resolved = branch
	}

	if resolved == nil {
		return nil, &maperr.SchemaResolutionError{
			Schema: describeUnion(union),
			Reason: maperr.ReasonNoConcreteBranch,
		}
	}

	return Deref(resolved), nil
}

// ResolveField resolves the schema of a field through an optional union,
// attributing any failure to side and the field's name.
func ResolveField(side maperr.Side, f *avro.Field) (avro.Schema, error) {
	s, err := ResolveUnion(f.Type())
	if err != nil {
		return nil, attribute(err, side, f.Name())
	}

	return s, nil
}

// FieldAt returns the field called name on s, resolving s through an
// optional union first.
func FieldAt(side maperr.Side, s avro.Schema, name string) (*avro.Field, error) {
	resolved, err := ResolveUnion(s)
	if err != nil {
		return nil, attribute(err, side, name)
	}

	rec, ok := resolved.(*avro.RecordSchema)
	if !ok {
		return nil, &maperr.SchemaResolutionError{
			Side:   side,
			Field:  name,
			Schema: FullName(resolved),
			Reason: maperr.ReasonNotRecord,
		}
	}

	if _, f := Field(rec, name); f != nil {
		return f, nil
	}

	suggestion, _ := match.Suggest(name, FieldNames(rec))

	return nil, &maperr.SchemaResolutionError{
		Side:       side,
		Field:      name,
		Schema:     rec.FullName(),
		Reason:     maperr.ReasonFieldNotFound,
		Suggestion: suggestion,
	}
}

// Field returns the position and descriptor of the field called name, or
// (-1, nil) when rec has no such field.
func Field(rec *avro.RecordSchema, name string) (int, *avro.Field) {
	for i, f := range rec.Fields() {
		if f.Name() == name {
			return i, f
		}
	}

	return -1, nil
}

// FieldNames lists the field names of rec in declaration order.
func FieldNames(rec *avro.RecordSchema) []string {
	fields := rec.Fields()

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}

	return names
}

// IsPrimitive reports whether a field holds a leaf value. Records and unions
// are never primitive, even when the union resolves to a primitive branch.
func IsPrimitive(f *avro.Field) bool {
	switch KindOf(f.Type()) {
	case KindRecord, KindUnion:
		return false
	default:
		return true
	}
}

// HasDefault reports whether a field declares a default value.
func HasDefault(f *avro.Field) bool {
	return f.HasDefault()
}

// BranchName is the name a union uses to tag one of its branches.
func BranchName(s avro.Schema) string {
	return FullName(s)
}

func describeUnion(u *avro.UnionSchema) string {
	return u.String()
}

func attribute(err error, side maperr.Side, field string) error {
	resErr, ok := err.(*maperr.SchemaResolutionError)
	if !ok {
		return err
	}

	attributed := *resErr
	attributed.Side = side

	if attributed.Field == "" {
		attributed.Field = field
	}

	return &attributed
}
