package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		segments []string
		wantErr  bool
	}{
		{"simple", "username", []string{"username"}, false},
		{"nested", "identification.id", []string{"identification", "id"}, false},
		{"underscore and digits", "_a1.b_2", []string{"_a1", "b_2"}, false},
		{"empty", "", nil, true},
		{"empty segment", "a..b", nil, true},
		{"trailing dot", "a.", nil, true},
		{"array element", "children[].name", nil, true},
		{"leading digit", "1a", nil, true},
		{"dash", "first-name", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.segments, p.Segments())
			assert.Equal(t, tt.input, p.String())
			assert.Equal(t, len(tt.segments), p.Len())
		})
	}
}

func TestFieldPathAccessors(t *testing.T) {
	p := MustParsePath("identification.id")

	assert.Equal(t, "identification", p.At(0))
	assert.Equal(t, "id", p.Last())
	assert.True(t, p.Contains("identification"))
	assert.False(t, p.Contains("ident"))
	assert.True(t, p.Equal(MustParsePath("identification.id")))
	assert.False(t, p.Equal(MustParsePath("identification")))
	assert.False(t, p.IsZero())

	var zero FieldPath
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.Last())

	text, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "identification.id", string(text))
}

func TestFieldPathIsImmutable(t *testing.T) {
	segments := []string{"a", "b"}

	p, err := NewFieldPath(segments...)
	require.NoError(t, err)

	segments[0] = "z"
	assert.Equal(t, "a.b", p.String())

	got := p.Segments()
	got[1] = "z"
	assert.Equal(t, "a.b", p.String())
}

func TestMustParsePathPanics(t *testing.T) {
	assert.Panics(t, func() { MustParsePath("a..b") })
}
