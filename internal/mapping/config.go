package mapping

import (
	"maps"
	"slices"

	"avro-mapper/internal/maperr"
)

// FieldConfiguration pairs the path a value is read from on the input record
// with the path it is written to on the output record.
type FieldConfiguration struct {
	input  FieldPath
	output FieldPath
}

// NewFieldConfiguration returns the mapping in -> out. Both paths must be
// non-empty.
func NewFieldConfiguration(in, out FieldPath) (FieldConfiguration, error) {
	if in.IsZero() {
		return FieldConfiguration{}, &maperr.ConfigError{Message: "input path is empty"}
	}

	if out.IsZero() {
		return FieldConfiguration{}, &maperr.ConfigError{Message: "output path is empty"}
	}

	return FieldConfiguration{input: in, output: out}, nil
}

// InputPath returns the path read on the input record.
func (fc FieldConfiguration) InputPath() FieldPath {
	return fc.input
}

// OutputPath returns the path written on the output record.
func (fc FieldConfiguration) OutputPath() FieldPath {
	return fc.output
}

// MentionsOutput reports whether name is a segment of the output path.
func (fc FieldConfiguration) MentionsOutput(name string) bool {
	return fc.output.Contains(name)
}

// Configuration maps the simple name of each output field to its mapping.
// The terminal value is placed under the key, so the key is the name that
// must exist on the output record at the end of the output path.
type Configuration map[string]FieldConfiguration

// Names returns the keys in sorted order.
func (c Configuration) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

// Clone returns a shallow copy. FieldConfiguration values are immutable, so
// the copy shares nothing mutable with c.
func (c Configuration) Clone() Configuration {
	return maps.Clone(c)
}

// MentionsOutput reports whether name is a key of c or a segment of any
// output path.
func (c Configuration) MentionsOutput(name string) bool {
	if _, ok := c[name]; ok {
		return true
	}

	for _, fc := range c {
		if fc.MentionsOutput(name) {
			return true
		}
	}

	return false
}

// Validate reports an empty configuration, invalid keys or zero paths as a
// *maperr.ConfigError.
func (c Configuration) Validate() error {
	if len(c) == 0 {
		return &maperr.ConfigError{Message: "configuration must map at least one field"}
	}

	for _, name := range c.Names() {
		if !isValidName(name) {
			return &maperr.ConfigError{Field: name, Message: "key is not a valid field name"}
		}

		fc := c[name]
		if fc.input.IsZero() || fc.output.IsZero() {
			return &maperr.ConfigError{Field: name, Message: "input and output paths are required"}
		}
	}

	return nil
}
