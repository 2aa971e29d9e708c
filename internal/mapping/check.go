package mapping

import (
	"errors"
	"fmt"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/diagnostic"
	"avro-mapper/internal/maperr"
	"avro-mapper/internal/schema"
)

// Check verifies cfg against the input and output schemas without running a
// conversion. Every input path must resolve on the input schema, every
// output path on the output schema, and the key must name a field at the
// end of the output path. A key that differs from the last output segment
// is a warning: the value is placed under the key.
func Check(cfg Configuration, in, out avro.Schema) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	if len(cfg) == 0 {
		diags.AddError("empty_configuration", "configuration must map at least one field", "", "")
		return diags
	}

	for _, key := range cfg.Names() {
		fc := cfg[key]

		if !isValidName(key) {
			diags.AddError("invalid_key", fmt.Sprintf("%q is not a valid field name", key), key, "")
			continue
		}

		inField, ok := checkPath(diags, key, maperr.SideInput, in, fc.InputPath().Segments())
		if !ok {
			continue
		}

		outField, ok := checkPath(diags, key, maperr.SideOutput, out, fc.OutputPath().Segments())
		if !ok {
			continue
		}

		if fc.OutputPath().Last() != key {
			// the value lands on the key's field next to the terminal one
			segments := fc.OutputPath().Segments()
			segments[len(segments)-1] = key

			if _, ok := checkPath(diags, key, maperr.SideOutput, out, segments); !ok {
				continue
			}

			diags.AddWarning("key_mismatch",
				fmt.Sprintf("output path ends in %q but the value is placed under %q", fc.OutputPath().Last(), key),
				key, fc.OutputPath().String())
		}

		checkKinds(diags, key, fc, inField, outField)
	}

	return diags
}

// checkPath walks segments from root and returns the terminal field.
func checkPath(
	diags *diagnostic.Diagnostics,
	key string,
	side maperr.Side,
	root avro.Schema,
	segments []string,
) (*avro.Field, bool) {
	current := root

	var field *avro.Field

	for i, seg := range segments {
		f, err := schema.FieldAt(side, current, seg)
		if err != nil {
			addResolutionError(diags, key, side, segments[:i+1], err)
			return nil, false
		}

		field = f
		current = f.Type()
	}

	return field, true
}

func addResolutionError(diags *diagnostic.Diagnostics, key string, side maperr.Side, segments []string, err error) {
	path, _ := NewFieldPath(segments...)

	var resErr *maperr.SchemaResolutionError
	if !errors.As(err, &resErr) {
		diags.AddError(string(side)+"_path", err.Error(), key, path.String())
		return
	}

	d := diagnostic.Diagnostic{
		Severity:  diagnostic.DiagnosticError,
		Code:      fmt.Sprintf("%s_%s", side, reasonCode(resErr.Reason)),
		Message:   resErr.Error(),
		Mapping:   key,
		FieldPath: path.String(),
	}

	if resErr.Suggestion != "" {
		d.Suggestions = []string{resErr.Suggestion}
		d.Message = (&maperr.SchemaResolutionError{
			Side:   resErr.Side,
			Field:  resErr.Field,
			Schema: resErr.Schema,
			Reason: resErr.Reason,
		}).Error()
	}

	diags.Add(d)
}

func reasonCode(r maperr.Reason) string {
	switch r {
	case maperr.ReasonFieldNotFound:
		return "field_not_found"
	case maperr.ReasonAmbiguousUnion:
		return "ambiguous_union"
	case maperr.ReasonNoConcreteBranch:
		return "no_concrete_branch"
	case maperr.ReasonNotRecord:
		return "not_record"
	default:
		return "unresolved"
	}
}

// checkKinds warns when a record is mapped onto a leaf or the reverse, which
// can only succeed when the value is null at conversion time.
func checkKinds(diags *diagnostic.Diagnostics, key string, fc FieldConfiguration, in, out *avro.Field) {
	inSchema, err := schema.ResolveUnion(in.Type())
	if err != nil {
		diags.AddError("input_ambiguous_union", err.Error(), key, fc.InputPath().String())
		return
	}

	outSchema, err := schema.ResolveUnion(out.Type())
	if err != nil {
		diags.AddError("output_ambiguous_union", err.Error(), key, fc.OutputPath().String())
		return
	}

	inKind, outKind := schema.KindOf(inSchema), schema.KindOf(outSchema)
	if (inKind == schema.KindRecord) == (outKind == schema.KindRecord) {
		return
	}

	diags.AddWarning("kind_mismatch",
		fmt.Sprintf("%s field %s is mapped to %s field %s", inKind, schema.FullName(inSchema), outKind, schema.FullName(outSchema)),
		key, fc.OutputPath().String())
}
