package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avro-mapper/internal/maperr"
)

func mustField(t *testing.T, in, out string) FieldConfiguration {
	t.Helper()

	fc, err := NewFieldConfiguration(MustParsePath(in), MustParsePath(out))
	require.NoError(t, err)

	return fc
}

func TestNewFieldConfiguration(t *testing.T) {
	fc := mustField(t, "identification.id", "identificationout.idout")
	assert.Equal(t, "identification.id", fc.InputPath().String())
	assert.Equal(t, "identificationout.idout", fc.OutputPath().String())
	assert.True(t, fc.MentionsOutput("identificationout"))
	assert.False(t, fc.MentionsOutput("identification"))

	_, err := NewFieldConfiguration(FieldPath{}, MustParsePath("a"))
	assert.ErrorIs(t, err, maperr.ErrConfig)

	_, err = NewFieldConfiguration(MustParsePath("a"), FieldPath{})
	assert.ErrorIs(t, err, maperr.ErrConfig)
}

func TestConfiguration(t *testing.T) {
	cfg := Configuration{
		"usernameout": mustField(t, "username", "usernameout"),
		"idout":       mustField(t, "identification.id", "identificationout.idout"),
	}

	assert.Equal(t, []string{"idout", "usernameout"}, cfg.Names())
	assert.True(t, cfg.MentionsOutput("usernameout"))
	assert.True(t, cfg.MentionsOutput("identificationout"))
	assert.False(t, cfg.MentionsOutput("cardsout"))
	require.NoError(t, cfg.Validate())

	clone := cfg.Clone()
	delete(clone, "idout")
	assert.Len(t, cfg, 2)
}

func TestConfigurationValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Configuration
		field string
	}{
		{"empty", Configuration{}, ""},
		{"nil", nil, ""},
		{"bad key", Configuration{"a-b": mustField(t, "a", "b")}, "a-b"},
		{"zero paths", Configuration{"a": {}}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)

			var cfgErr *maperr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
