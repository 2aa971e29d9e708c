package mapping

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// FieldPath is an immutable dotted sequence of Avro field names, such as
// "identification.id". Traversal reads segments by index, so a FieldPath
// can be shared freely between calls and goroutines.
type FieldPath struct {
	segments []string
}

// ParsePath parses a dotted field path string into a FieldPath.
// Supports: "Field", "Nested.Field". Array element syntax ("Items[]") is
// not supported.
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, errors.New("empty path")
	}

	return NewFieldPath(strings.Split(path, ".")...)
}

// MustParsePath is like ParsePath but panics on error. Intended for tests
// and static configuration.
func MustParsePath(path string) FieldPath {
	fp, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return fp
}

// NewFieldPath builds a path from its segments.
func NewFieldPath(segments ...string) (FieldPath, error) {
	if len(segments) == 0 {
		return FieldPath{}, errors.New("empty path")
	}

	path := strings.Join(segments, ".")

	for _, name := range segments {
		if name == "" {
			return FieldPath{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		if strings.HasSuffix(name, "[]") {
			return FieldPath{}, fmt.Errorf("invalid path %q: array elements are not addressable", path)
		}

		if !isValidName(name) {
			return FieldPath{}, fmt.Errorf("invalid path %q: invalid field name %q", path, name)
		}
	}

	return FieldPath{segments: slices.Clone(segments)}, nil
}

// Len returns the number of segments.
func (p FieldPath) Len() int {
	return len(p.segments)
}

// IsZero reports whether p is the zero path.
func (p FieldPath) IsZero() bool {
	return len(p.segments) == 0
}

// At returns segment i.
func (p FieldPath) At(i int) string {
	return p.segments[i]
}

// Last returns the terminal segment, or "" for the zero path.
func (p FieldPath) Last() string {
	if len(p.segments) == 0 {
		return ""
	}

	return p.segments[len(p.segments)-1]
}

// Segments returns a copy of the segments.
func (p FieldPath) Segments() []string {
	return slices.Clone(p.segments)
}

// Contains reports whether any segment equals name.
func (p FieldPath) Contains(name string) bool {
	return slices.Contains(p.segments, name)
}

// Equal reports whether both paths have the same segments.
func (p FieldPath) Equal(other FieldPath) bool {
	return slices.Equal(p.segments, other.segments)
}

// String returns the dotted form of the path.
func (p FieldPath) String() string {
	return strings.Join(p.segments, ".")
}

// MarshalText implements encoding.TextMarshaler.
func (p FieldPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// isValidName checks if a string is a valid Avro name: [A-Za-z_][A-Za-z0-9_]*.
func isValidName(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else if !isLetter(r) && !isDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
