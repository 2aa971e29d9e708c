package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MappingFile is the on-disk form of a mapping configuration.
type MappingFile struct {
	Version      string                `yaml:"version"`
	InputSchema  string                `yaml:"input_schema,omitempty"`
	OutputSchema string                `yaml:"output_schema,omitempty"`
	Fields       map[string]FieldEntry `yaml:"fields"`

	// dir is the directory the file was loaded from; schema paths are
	// relative to it.
	dir string
}

// FieldEntry is one mapping of the fields section. It is written either as
// {input: a.b, output: c.d} or as the shorthand scalar "a.b", in which case
// the output path defaults to the entry's key.
type FieldEntry struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for FieldEntry.
// Accepts either a single path string or an {input, output} map.
func (e *FieldEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		*e = FieldEntry{Input: str}

		return nil

	case yaml.MappingNode:
		// alias type avoids recursing into this method
		type plain FieldEntry

		var p plain

		err := node.Decode(&p)
		if err != nil {
			return err
		}

		*e = FieldEntry(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected path string or {input, output} map, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for FieldEntry.
// Outputs the shorthand form when no output path is set.
func (e FieldEntry) MarshalYAML() (any, error) {
	if e.Output == "" {
		return e.Input, nil
	}

	type plain FieldEntry

	return plain(e), nil
}
