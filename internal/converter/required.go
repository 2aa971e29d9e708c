package converter

import (
	"slices"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/maperr"
	"avro-mapper/internal/mapping"
	"avro-mapper/internal/schema"
)

// requiredPaths walks the output schema and returns the output paths that
// must receive a non-null value. A leaf field without a default must be
// covered by a configuration key of the same name.
func requiredPaths(cfg mapping.Configuration, root *avro.RecordSchema) ([]mapping.FieldPath, error) {
	w := &requiredWalker{cfg: cfg, visiting: make(map[string]bool)}

	if err := w.walk(root); err != nil {
		return nil, err
	}

	return w.paths, nil
}

type requiredWalker struct {
	cfg      mapping.Configuration
	visiting map[string]bool
	paths    []mapping.FieldPath
}

func (w *requiredWalker) walk(rec *avro.RecordSchema) error {
	// recursive schemas are walked once per stack
	name := rec.FullName()
	if w.visiting[name] {
		return nil
	}

	w.visiting[name] = true
	defer delete(w.visiting, name)

	for _, f := range rec.Fields() {
		if err := w.field(f); err != nil {
			return err
		}
	}

	return nil
}

func (w *requiredWalker) field(f *avro.Field) error {
	switch {
	case schema.IsNull(f.Type()):
		return nil
	case schema.IsUnion(f.Type()):
		return w.union(f)
	case !schema.IsPrimitive(f):
		nested, _ := schema.AsRecord(f.Type())
		return w.walk(nested)
	case schema.HasDefault(f):
		return nil
	}

	fc, ok := w.cfg[f.Name()]
	if !ok {
		return &maperr.ConfigError{Field: f.Name(), Message: "required output field is not mapped"}
	}

	if !slices.ContainsFunc(w.paths, fc.OutputPath().Equal) {
		w.paths = append(w.paths, fc.OutputPath())
	}

	return nil
}

// union walks a union field only when the configuration mentions it.
func (w *requiredWalker) union(f *avro.Field) error {
	if !w.cfg.MentionsOutput(f.Name()) {
		return nil
	}

	resolved, err := schema.ResolveField(maperr.SideOutput, f)
	if err != nil {
		return &maperr.ConfigError{Field: f.Name(), Message: "mapped union field cannot be resolved", Cause: err}
	}

	if nested, ok := resolved.(*avro.RecordSchema); ok {
		return w.walk(nested)
	}

	return nil
}
