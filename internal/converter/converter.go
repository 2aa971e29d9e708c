package converter

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hamba/avro/v2"

	"avro-mapper/internal/logging"
	"avro-mapper/internal/maperr"
	"avro-mapper/internal/mapping"
	"avro-mapper/internal/record"
	"avro-mapper/internal/schema"
)

// Operation names reported in *maperr.ConversionError.
const (
	OpConvertToNewRecord      = "ConvertToNewRecord"
	OpConvertToExistingRecord = "ConvertToExistingRecord"
)

// Converter maps input records onto output records according to a fixed
// configuration.
type Converter struct {
	cfg      mapping.Configuration
	names    []string
	output   *avro.RecordSchema
	required []mapping.FieldPath
	logger   logging.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New validates cfg against outputSchema and returns a Converter. It fails
// with a *maperr.ConfigError when cfg is empty or a required output field
// has no configuration key. outputSchema may be a union with a single
// record branch.
func New(cfg mapping.Configuration, outputSchema avro.Schema, opts ...Option) (*Converter, error) {
	c := &Converter{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(c)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out, err := outputRecordSchema(outputSchema)
	if err != nil {
		return nil, &maperr.ConfigError{Message: "invalid output schema", Cause: err}
	}

	required, err := requiredPaths(cfg, out)
	if err != nil {
		return nil, err
	}

	c.cfg = cfg.Clone()
	c.names = c.cfg.Names()
	c.output = out
	c.required = required

	c.logger.Info("required output paths", "schema", out.FullName(), "paths", pathStrings(required))

	return c, nil
}

// Configuration returns a copy of the configuration.
func (c *Converter) Configuration() mapping.Configuration {
	return c.cfg.Clone()
}

// OutputSchema returns the output record schema given at construction.
func (c *Converter) OutputSchema() *avro.RecordSchema {
	return c.output
}

// RequiredPaths returns a copy of the output paths that must receive a value.
func (c *Converter) RequiredPaths() []mapping.FieldPath {
	return slices.Clone(c.required)
}

// Convert maps input onto a copy of output, or onto a new record of the
// construction output schema when output is nil.
func (c *Converter) Convert(input, output *record.Record) (*record.Record, error) {
	if output == nil {
		return c.ConvertToNewRecord(input, c.output)
	}

	return c.ConvertToExistingRecord(input, output)
}

// ConvertToNewRecord maps input onto a new record of outputSchema whose
// fields start at their schema defaults. A nil outputSchema selects the
// schema given at construction.
func (c *Converter) ConvertToNewRecord(input *record.Record, outputSchema avro.Schema) (out *record.Record, err error) {
	const op = OpConvertToNewRecord

	defer c.recoverInto(op, &out, &err)

	if input == nil {
		return nil, c.fail(op, errors.New("input record is nil"))
	}

	if outputSchema == nil {
		outputSchema = c.output
	}

	s, err := outputRecordSchema(outputSchema)
	if err != nil {
		return nil, c.fail(op, err)
	}

	result, err := record.New(s)
	if err != nil {
		return nil, c.fail(op, err)
	}

	if err := c.mapFields(input, result); err != nil {
		return nil, c.fail(op, err)
	}

	return result, nil
}

// ConvertToExistingRecord maps input onto a deep copy of output. output
// itself is never modified.
func (c *Converter) ConvertToExistingRecord(input, output *record.Record) (out *record.Record, err error) {
	const op = OpConvertToExistingRecord

	defer c.recoverInto(op, &out, &err)

	if input == nil {
		return nil, c.fail(op, errors.New("input record is nil"))
	}

	if output == nil {
		return nil, c.fail(op, errors.New("output record is nil"))
	}

	result := output.Copy()

	if err := c.mapFields(input, result); err != nil {
		return nil, c.fail(op, err)
	}

	return result, nil
}

func (c *Converter) mapFields(input, output *record.Record) error {
	for _, name := range c.names {
		fc := c.cfg[name]

		value, err := readValue(input, fc.InputPath())
		if err != nil {
			return err
		}

		if value == nil && c.isRequired(fc.OutputPath()) {
			return &maperr.MissingRequiredValueError{Field: name, Path: fc.InputPath().String()}
		}

		if err := writeValue(output, fc.OutputPath(), value, name); err != nil {
			return err
		}

		c.logger.Debug("mapped field", "field", name, "input", fc.InputPath().String(), "output", fc.OutputPath().String())
	}

	return nil
}

func (c *Converter) isRequired(path mapping.FieldPath) bool {
	return slices.ContainsFunc(c.required, path.Equal)
}

func (c *Converter) fail(op string, err error) error {
	attrs := []any{"op", op, "error", err}

	var (
		resErr      *maperr.SchemaResolutionError
		mismatchErr *maperr.TypeMismatchError
		missingErr  *maperr.MissingRequiredValueError
	)

	switch {
	case errors.As(err, &resErr):
		attrs = append(attrs, "side", resErr.Side, "field", resErr.Field, "schema", resErr.Schema)
	case errors.As(err, &mismatchErr):
		attrs = append(attrs, "field", mismatchErr.Field, "schema", mismatchErr.Schema)
	case errors.As(err, &missingErr):
		attrs = append(attrs, "field", missingErr.Field)
	}

	c.logger.Error("conversion failed", attrs...)

	return &maperr.ConversionError{Op: op, Cause: err}
}

func (c *Converter) recoverInto(op string, out **record.Record, err *error) {
	r := recover()
	if r == nil {
		return
	}

	*out = nil
	*err = c.fail(op, fmt.Errorf("panic: %v", r))
}

func outputRecordSchema(s avro.Schema) (*avro.RecordSchema, error) {
	if s == nil {
		return nil, errors.New("output schema is nil")
	}

	resolved, err := schema.ResolveUnion(s)
	if err != nil {
		return nil, err
	}

	rec, ok := resolved.(*avro.RecordSchema)
	if !ok {
		return nil, &maperr.SchemaResolutionError{
			Side:   maperr.SideOutput,
			Schema: schema.FullName(resolved),
			Reason: maperr.ReasonNotRecord,
		}
	}

	return rec, nil
}

func pathStrings(paths []mapping.FieldPath) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}

	return out
}
