package mapping

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"avro-mapper/internal/maperr"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mapping file %s: %w", path, err)
	}

	mf.dir = filepath.Dir(path)

	return mf, nil
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, &maperr.ConfigError{Message: "failed to parse mapping YAML", Cause: err}
	}

	// Apply defaults and normalize
	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	for key, entry := range mf.Fields {
		if entry.Output == "" {
			entry.Output = key
			mf.Fields[key] = entry
		}
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}

// InputSchemaPath returns the input schema path resolved against the
// directory the file was loaded from, or "" when none is set.
func (mf *MappingFile) InputSchemaPath() string {
	return mf.resolve(mf.InputSchema)
}

// OutputSchemaPath returns the output schema path resolved against the
// directory the file was loaded from, or "" when none is set.
func (mf *MappingFile) OutputSchemaPath() string {
	return mf.resolve(mf.OutputSchema)
}

func (mf *MappingFile) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || mf.dir == "" {
		return path
	}

	return filepath.Join(mf.dir, path)
}

// Configuration converts the fields section into a validated Configuration.
func (mf *MappingFile) Configuration() (Configuration, error) {
	cfg := make(Configuration, len(mf.Fields))

	for key, entry := range mf.Fields {
		in, err := ParsePath(entry.Input)
		if err != nil {
			return nil, &maperr.ConfigError{Field: key, Message: "invalid input path", Cause: err}
		}

		outPath := entry.Output
		if outPath == "" {
			outPath = key
		}

		out, err := ParsePath(outPath)
		if err != nil {
			return nil, &maperr.ConfigError{Field: key, Message: "invalid output path", Cause: err}
		}

		fc, err := NewFieldConfiguration(in, out)
		if err != nil {
			return nil, err
		}

		cfg[key] = fc
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromConfiguration builds the file form of cfg. An output path consisting
// of the key alone is left empty so it marshals in shorthand form.
func FromConfiguration(cfg Configuration) *MappingFile {
	mf := &MappingFile{Version: "1", Fields: make(map[string]FieldEntry, len(cfg))}

	for key, fc := range cfg {
		entry := FieldEntry{Input: fc.InputPath().String()}
		if out := fc.OutputPath(); out.Len() != 1 || out.Last() != key {
			entry.Output = out.String()
		}

		mf.Fields[key] = entry
	}

	return mf
}
