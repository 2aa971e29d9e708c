package converter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avro-mapper/internal/logging"
	"avro-mapper/internal/maperr"
	"avro-mapper/internal/mapping"
	"avro-mapper/internal/record"
	"avro-mapper/internal/schema"
)

var personDir = filepath.Join("..", "..", "examples", "person")

type fixture struct {
	in, out avro.Schema
	cfg     mapping.Configuration
}

func loadFixture(t *testing.T) fixture {
	t.Helper()

	mf, err := mapping.LoadFile(filepath.Join(personDir, "mapping.yaml"))
	require.NoError(t, err)

	cfg, err := mf.Configuration()
	require.NoError(t, err)

	in, err := schema.LoadFile(mf.InputSchemaPath())
	require.NoError(t, err)

	out, err := schema.LoadFile(mf.OutputSchemaPath())
	require.NoError(t, err)

	return fixture{in: in, out: out, cfg: cfg}
}

func readFile(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(personDir, name))
	require.NoError(t, err)

	return bytes.TrimSpace(data)
}

func decode(t *testing.T, s avro.Schema, doc string) *record.Record {
	t.Helper()

	r, err := record.DecodeJSON(s, []byte(doc))
	require.NoError(t, err)

	return r
}

func marshal(t *testing.T, r *record.Record) string {
	t.Helper()

	data, err := r.MarshalJSON()
	require.NoError(t, err)

	return string(data)
}

func mustConfig(t *testing.T, entries map[string][2]string) mapping.Configuration {
	t.Helper()

	cfg := make(mapping.Configuration, len(entries))

	for key, paths := range entries {
		fc, err := mapping.NewFieldConfiguration(mapping.MustParsePath(paths[0]), mapping.MustParsePath(paths[1]))
		require.NoError(t, err)

		cfg[key] = fc
	}

	return cfg
}

type logEntry struct {
	level string
	msg   string
	attrs []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]logEntry{}}
}

func (l *recordingLogger) log(level, msg string, attrs []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, attrs: attrs})
}

func (l *recordingLogger) Debug(msg string, attrs ...any) { l.log("debug", msg, attrs) }
func (l *recordingLogger) Info(msg string, attrs ...any)  { l.log("info", msg, attrs) }
func (l *recordingLogger) Warn(msg string, attrs ...any)  { l.log("warn", msg, attrs) }
func (l *recordingLogger) Error(msg string, attrs ...any) { l.log("error", msg, attrs) }

func (l *recordingLogger) With(_ ...any) logging.Logger { return l }

func (l *recordingLogger) find(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []logEntry

	for _, e := range *l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}

	return out
}

func TestNew(t *testing.T) {
	fx := loadFixture(t)

	logger := newRecordingLogger()

	c, err := New(fx.cfg, fx.out, WithLogger(logger))
	require.NoError(t, err)

	paths := pathStrings(c.RequiredPaths())
	assert.ElementsMatch(t, []string{"identificationout.idout", "cardsout"}, paths)
	assert.Equal(t, "example.out.BdPersonOut", c.OutputSchema().FullName())
	assert.Equal(t, fx.cfg.Names(), c.Configuration().Names())

	infos := logger.find("info")
	require.Len(t, infos, 1)
	assert.Equal(t, "required output paths", infos[0].msg)
}

func TestNewCopiesConfiguration(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	delete(fx.cfg, "nameout")
	assert.Contains(t, c.Configuration().Names(), "nameout")

	exposed := c.Configuration()
	delete(exposed, "idout")
	assert.Contains(t, c.Configuration().Names(), "idout")

	paths := c.RequiredPaths()
	paths[0] = mapping.MustParsePath("x")
	assert.NotEqual(t, "x", c.RequiredPaths()[0].String())
}

func TestNewErrors(t *testing.T) {
	fx := loadFixture(t)

	t.Run("empty configuration", func(t *testing.T) {
		_, err := New(mapping.Configuration{}, fx.out)
		assert.ErrorIs(t, err, maperr.ErrConfig)
	})

	t.Run("missing required key", func(t *testing.T) {
		cfg := fx.cfg.Clone()
		delete(cfg, "cardsout")

		_, err := New(cfg, fx.out)
		require.Error(t, err)

		var cfgErr *maperr.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "cardsout", cfgErr.Field)
	})

	t.Run("missing nested required key", func(t *testing.T) {
		cfg := fx.cfg.Clone()
		delete(cfg, "idout")

		_, err := New(cfg, fx.out)

		var cfgErr *maperr.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "idout", cfgErr.Field)
	})

	t.Run("output schema is not a record", func(t *testing.T) {
		s, err := schema.Parse(`"string"`)
		require.NoError(t, err)

		_, err = New(fx.cfg, s)
		assert.ErrorIs(t, err, maperr.ErrConfig)
		assert.ErrorIs(t, err, maperr.ErrSchemaResolution)
	})

	t.Run("nil output schema", func(t *testing.T) {
		_, err := New(fx.cfg, nil)
		assert.ErrorIs(t, err, maperr.ErrConfig)
	})
}

func TestConvertToNewRecord(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	input := decode(t, fx.in, string(readFile(t, "input.json")))

	out, err := c.ConvertToNewRecord(input, fx.out)
	require.NoError(t, err)
	assert.JSONEq(t, string(readFile(t, "expected.json")), marshal(t, out), spew.Sdump(out.Map()))

	cards, ok := out.GetByName("cardsout")
	require.True(t, ok)
	require.IsType(t, record.Enum{}, cards)
	assert.Equal(t, "example.out.CardsOut", cards.(record.Enum).Schema().FullName())

	viaConvert, err := c.Convert(input, nil)
	require.NoError(t, err)
	assert.Equal(t, out.Map(), viaConvert.Map())

	defaultSchema, err := c.ConvertToNewRecord(input, nil)
	require.NoError(t, err)
	assert.Equal(t, out.Map(), defaultSchema.Map())
}

func TestConvertToExistingRecord(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	input := decode(t, fx.in, string(readFile(t, "input.json")))
	existing := decode(t, fx.out, string(readFile(t, "existing.json")))
	before := marshal(t, existing)

	out, err := c.ConvertToExistingRecord(input, existing)
	require.NoError(t, err)

	assert.Equal(t, before, marshal(t, existing), "caller's output must not change")
	assert.JSONEq(t, `{
	  "identificationout": {"idout": 2, "usernameout": "sharone"},
	  "cardsout": "CLUBS",
	  "height": 1.84,
	  "nameout": "Beyonce",
	  "childrenout": ["Blue Ivy", "Rumi", "Sir"],
	  "additionalout": {"genre": "pop"}
	}`, marshal(t, out))

	viaConvert, err := c.Convert(input, existing)
	require.NoError(t, err)
	assert.Equal(t, out.Map(), viaConvert.Map())
}

func TestConvertWritesExplicitNull(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	input := decode(t, fx.in, `{
	  "identification": {"id": 2},
	  "username": "u", "firstName": "f", "lastName": "l",
	  "birthdate": "b", "phoneNumber": "p", "cards": "HEARTS"
	}`)
	existing := decode(t, fx.out, string(readFile(t, "existing.json")))

	out, err := c.ConvertToExistingRecord(input, existing)
	require.NoError(t, err)

	id, _ := out.GetByName("identificationout")
	username, _ := id.(*record.Record).GetByName("usernameout")
	assert.Nil(t, username, "unset optional input overwrites the existing value")
}

func TestConversionFailures(t *testing.T) {
	fx := loadFixture(t)

	tests := []struct {
		name   string
		input  string
		check  func(t *testing.T, err error)
		target error
	}{
		{
			name: "required value is null",
			input: `{"identification": {"username": "x"},
			  "username": "u", "firstName": "f", "lastName": "l",
			  "birthdate": "b", "phoneNumber": "p", "cards": "HEARTS"}`,
			target: maperr.ErrMissingRequiredValue,
			check: func(t *testing.T, err error) {
				var missing *maperr.MissingRequiredValueError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "idout", missing.Field)
				assert.Equal(t, "identification.id", missing.Path)
			},
		},
		{
			name: "unset nested input record",
			input: `{"username": "u", "firstName": "f", "lastName": "l",
			  "birthdate": "b", "phoneNumber": "p", "cards": "HEARTS"}`,
			target: maperr.ErrSchemaResolution,
			check: func(t *testing.T, err error) {
				var resErr *maperr.SchemaResolutionError
				require.ErrorAs(t, err, &resErr)
				assert.Equal(t, maperr.ReasonUnsetNestedRecord, resErr.Reason)
				assert.Equal(t, maperr.SideInput, resErr.Side)
				assert.Equal(t, "identification", resErr.Field)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newRecordingLogger()

			c, err := New(fx.cfg, fx.out, WithLogger(logger))
			require.NoError(t, err)

			out, err := c.ConvertToNewRecord(decode(t, fx.in, tt.input), fx.out)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, maperr.ErrConversion)
			assert.ErrorIs(t, err, tt.target)
			tt.check(t, err)

			var convErr *maperr.ConversionError
			require.ErrorAs(t, err, &convErr)
			assert.Equal(t, OpConvertToNewRecord, convErr.Op)

			assert.Len(t, logger.find("error"), 1)
		})
	}
}

func TestConvertNilRecords(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	_, err = c.ConvertToNewRecord(nil, fx.out)
	assert.ErrorIs(t, err, maperr.ErrConversion)

	input := decode(t, fx.in, string(readFile(t, "input.json")))

	_, err = c.ConvertToExistingRecord(input, nil)
	assert.ErrorIs(t, err, maperr.ErrConversion)

	_, err = c.ConvertToExistingRecord(nil, input)
	assert.ErrorIs(t, err, maperr.ErrConversion)
}

const enumIn = `{"type": "record", "name": "In", "fields": [
  {"name": "color", "type": {"type": "enum", "name": "Color", "symbols": ["RED", "BLUE"]}},
  {"name": "label", "type": "string"},
  {"name": "count", "type": "int"}
]}`

const enumOut = `{"type": "record", "name": "Out", "fields": [
  {"name": "color", "type": {"type": "enum", "name": "Hue", "symbols": ["RED", "GREEN"]}},
  {"name": "count", "type": "long", "default": 0}
]}`

func TestEnumRematerialization(t *testing.T) {
	in, err := schema.Parse(enumIn)
	require.NoError(t, err)

	out, err := schema.Parse(enumOut)
	require.NoError(t, err)

	tests := []struct {
		name    string
		cfg     map[string][2]string
		input   string
		wantErr bool
	}{
		{"shared symbol", map[string][2]string{"color": {"color", "color"}}, `{"color": "RED", "label": "x", "count": 1}`, false},
		{"symbol missing on output", map[string][2]string{"color": {"color", "color"}}, `{"color": "BLUE", "label": "x", "count": 1}`, true},
		{"string input", map[string][2]string{"color": {"label", "color"}}, `{"color": "BLUE", "label": "RED", "count": 1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(mustConfig(t, tt.cfg), out)
			require.NoError(t, err)

			result, err := c.ConvertToNewRecord(decode(t, in, tt.input), out)
			if tt.wantErr {
				assert.ErrorIs(t, err, maperr.ErrTypeMismatch)

				var mismatch *maperr.TypeMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, "color", mismatch.Field)
				assert.Equal(t, "Hue", mismatch.Schema)
				assert.Error(t, mismatch.Cause)

				return
			}

			require.NoError(t, err)

			color, _ := result.GetByName("color")
			assert.Equal(t, "Hue", color.(record.Enum).Schema().FullName())
			assert.Equal(t, "RED", color.(record.Enum).Symbol())
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	in, err := schema.Parse(enumIn)
	require.NoError(t, err)

	out, err := schema.Parse(enumOut)
	require.NoError(t, err)

	c, err := New(mustConfig(t, map[string][2]string{
		"color": {"color", "color"},
		"count": {"count", "count"},
	}), out)
	require.NoError(t, err)

	_, err = c.ConvertToNewRecord(decode(t, in, `{"color": "RED", "label": "x", "count": 1}`), out)
	require.Error(t, err)

	var mismatch *maperr.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "count", mismatch.Field)
	assert.Equal(t, "int32", mismatch.Got)
	assert.Equal(t, "long", mismatch.Schema)
}

func TestOutputFieldNotFound(t *testing.T) {
	in, err := schema.Parse(enumIn)
	require.NoError(t, err)

	out, err := schema.Parse(enumOut)
	require.NoError(t, err)

	c, err := New(mustConfig(t, map[string][2]string{
		"color": {"color", "color"},
		"labl":  {"label", "labl"},
	}), out)
	require.NoError(t, err)

	_, err = c.ConvertToNewRecord(decode(t, in, `{"color": "RED", "label": "x", "count": 1}`), out)

	var resErr *maperr.SchemaResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, maperr.SideOutput, resErr.Side)
	assert.Equal(t, maperr.ReasonFieldNotFound, resErr.Reason)
	assert.Equal(t, "labl", resErr.Field)
}

const deepIn = `{"type": "record", "name": "In", "fields": [
  {"name": "v", "type": "int"}
]}`

const deepOut = `{"type": "record", "name": "Out", "fields": [
  {"name": "a", "type": {"type": "record", "name": "A", "fields": [
    {"name": "sib", "type": "string", "default": "d1"},
    {"name": "b", "type": {"type": "record", "name": "B", "fields": [
      {"name": "sib2", "type": "int", "default": 7},
      {"name": "c", "type": "int"}
    ]}}
  ]}},
  {"name": "x", "type": "int", "default": 0}
]}`

func TestDeepOutputPaths(t *testing.T) {
	in, err := schema.Parse(deepIn)
	require.NoError(t, err)

	out, err := schema.Parse(deepOut)
	require.NoError(t, err)

	input, err := record.New(in)
	require.NoError(t, err)
	require.NoError(t, input.Put("v", int32(5)))

	tests := []struct {
		name      string
		cfg       map[string][2]string
		expected  string
		wantField string
	}{
		{
			name:     "unset intermediate records are created with defaults",
			cfg:      map[string][2]string{"c": {"v", "a.b.c"}},
			expected: `{"a": {"sib": "d1", "b": {"sib2": 7, "c": 5}}, "x": 0}`,
		},
		{
			name:     "value is placed under the key",
			cfg:      map[string][2]string{"c": {"v", "a.b.c"}, "sib2": {"v", "a.b.c"}},
			expected: `{"a": {"sib": "d1", "b": {"sib2": 5, "c": 5}}, "x": 0}`,
		},
		{
			name:      "unknown last segment",
			cfg:       map[string][2]string{"c": {"v", "a.b.c"}, "sib2": {"v", "a.b.doesNotExist"}},
			wantField: "doesNotExist",
		},
		{
			name:      "unknown intermediate segment",
			cfg:       map[string][2]string{"c": {"v", "a.bb.c"}},
			wantField: "bb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(mustConfig(t, tt.cfg), out)
			require.NoError(t, err)

			result, err := c.ConvertToNewRecord(input, out)
			if tt.wantField != "" {
				assert.Nil(t, result)
				assert.ErrorIs(t, err, maperr.ErrConversion)

				var resErr *maperr.SchemaResolutionError
				require.ErrorAs(t, err, &resErr)
				assert.Equal(t, maperr.SideOutput, resErr.Side)
				assert.Equal(t, maperr.ReasonFieldNotFound, resErr.Reason)
				assert.Equal(t, tt.wantField, resErr.Field)

				return
			}

			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, marshal(t, result))
		})
	}
}

func TestConversionLeavesInputUnchanged(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	tests := []struct {
		name    string
		convert func(input *record.Record) (*record.Record, error)
	}{
		{"new record", func(input *record.Record) (*record.Record, error) {
			return c.ConvertToNewRecord(input, fx.out)
		}},
		{"existing record", func(input *record.Record) (*record.Record, error) {
			return c.ConvertToExistingRecord(input, decode(t, fx.out, string(readFile(t, "existing.json"))))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := decode(t, fx.in, string(readFile(t, "input.json")))
			before := input.Copy().Map()
			beforeJSON := marshal(t, input)

			out, err := tt.convert(input)
			require.NoError(t, err)
			require.NotNil(t, out)

			assert.Equal(t, before, input.Map(), spew.Sdump(input.Map()))
			assert.Equal(t, beforeJSON, marshal(t, input))
		})
	}
}

func TestUnionOutputSchema(t *testing.T) {
	fx := loadFixture(t)

	text, err := os.ReadFile(filepath.Join(personDir, "person_out.avsc"))
	require.NoError(t, err)

	union, err := schema.Parse(fmt.Sprintf(`["null", %s]`, text))
	require.NoError(t, err)

	c, err := New(fx.cfg, union)
	require.NoError(t, err)

	out, err := c.ConvertToNewRecord(decode(t, fx.in, string(readFile(t, "input.json"))), union)
	require.NoError(t, err)
	assert.Equal(t, "example.out.BdPersonOut", out.Schema().FullName())
}

func TestRequiredUnionCoverage(t *testing.T) {
	out, err := schema.Parse(`{"type": "record", "name": "Out", "fields": [
	  {"name": "name", "type": "string", "default": ""},
	  {"name": "address", "type": ["null", {"type": "record", "name": "Address", "fields": [
	    {"name": "street", "type": "string"}
	  ]}], "default": null}
	]}`)
	require.NoError(t, err)

	t.Run("unmentioned union is skipped", func(t *testing.T) {
		c, err := New(mustConfig(t, map[string][2]string{"name": {"n", "name"}}), out)
		require.NoError(t, err)
		assert.Empty(t, c.RequiredPaths())
	})

	t.Run("union named in an output path is walked", func(t *testing.T) {
		c, err := New(mustConfig(t, map[string][2]string{"street": {"s", "address.street"}}), out)
		require.NoError(t, err)
		assert.Equal(t, []string{"address.street"}, pathStrings(c.RequiredPaths()))
	})

	t.Run("walked union still needs its required keys", func(t *testing.T) {
		_, err := New(mustConfig(t, map[string][2]string{"address": {"a", "address"}}), out)

		var cfgErr *maperr.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "street", cfgErr.Field)
	})
}

func TestRequiredFieldClassification(t *testing.T) {
	out, err := schema.Parse(`{"type": "record", "name": "Out", "fields": [
	  {"name": "nothing", "type": "null"},
	  {"name": "label", "type": "string", "default": ""},
	  {"name": "kind", "type": {"type": "enum", "name": "Kind", "symbols": ["A", "B"]}},
	  {"name": "items", "type": {"type": "array", "items": "int"}},
	  {"name": "inner", "type": {"type": "record", "name": "Inner", "fields": [
	    {"name": "n", "type": "long"}
	  ]}}
	]}`)
	require.NoError(t, err)

	full := map[string][2]string{
		"kind":  {"k", "kind"},
		"items": {"i", "items"},
		"n":     {"n", "inner.n"},
	}

	c, err := New(mustConfig(t, full), out)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kind", "items", "inner.n"}, pathStrings(c.RequiredPaths()))

	for key := range full {
		t.Run("without "+key, func(t *testing.T) {
			partial := make(map[string][2]string, len(full)-1)
			for k, v := range full {
				if k != key {
					partial[k] = v
				}
			}

			_, err := New(mustConfig(t, partial), out)

			var cfgErr *maperr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, key, cfgErr.Field)
		})
	}
}

func TestRecursiveSchema(t *testing.T) {
	node, err := schema.Parse(`{"type": "record", "name": "Node", "fields": [
	  {"name": "value", "type": "int"},
	  {"name": "next", "type": ["null", "Node"], "default": null}
	]}`)
	require.NoError(t, err)

	cfg := mustConfig(t, map[string][2]string{"value": {"value", "next.value"}})

	c, err := New(cfg, node)
	require.NoError(t, err)
	assert.Equal(t, []string{"next.value"}, pathStrings(c.RequiredPaths()))

	input, err := record.New(node)
	require.NoError(t, err)
	require.NoError(t, input.Put("value", int32(5)))

	out, err := c.ConvertToNewRecord(input, node)
	require.NoError(t, err)

	next, _ := out.GetByName("next")
	require.NotNil(t, next)

	value, _ := next.(*record.Record).GetByName("value")
	assert.Equal(t, int32(5), value)
}

func TestOutputDoesNotAliasInput(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	input := decode(t, fx.in, string(readFile(t, "input.json")))

	out, err := c.ConvertToNewRecord(input, fx.out)
	require.NoError(t, err)

	children, _ := input.GetByName("children")
	children.([]any)[0] = "changed"

	additional, _ := input.GetByName("additional")
	additional.(map[string]any)["genre"] = "changed"

	childrenOut, _ := out.GetByName("childrenout")
	assert.Equal(t, "Blue Ivy", childrenOut.([]any)[0])

	additionalOut, _ := out.GetByName("additionalout")
	assert.Equal(t, "pop", additionalOut.(map[string]any)["genre"])
}

func TestRepeatedConversionsAreIdentical(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	input := decode(t, fx.in, string(readFile(t, "input.json")))

	first, err := c.ConvertToNewRecord(input, fx.out)
	require.NoError(t, err)

	for range 5 {
		again, err := c.ConvertToNewRecord(input, fx.out)
		require.NoError(t, err)
		assert.Equal(t, marshal(t, first), marshal(t, again))
	}
}

func TestConcurrentConversions(t *testing.T) {
	fx := loadFixture(t)

	c, err := New(fx.cfg, fx.out)
	require.NoError(t, err)

	expected := string(readFile(t, "expected.json"))
	doc := readFile(t, "input.json")

	const workers = 16

	results := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			input, err := record.DecodeJSON(fx.in, doc)
			if err != nil {
				errs[i] = err
				return
			}

			out, err := c.ConvertToNewRecord(input, fx.out)
			if err != nil {
				errs[i] = err
				return
			}

			data, err := out.MarshalJSON()
			errs[i] = err
			results[i] = string(data)
		}()
	}

	wg.Wait()

	for i := range workers {
		require.NoError(t, errs[i])
		assert.JSONEq(t, expected, results[i])
	}
}

func TestRecoverIntoReportsPanic(t *testing.T) {
	fx := loadFixture(t)

	logger := newRecordingLogger()

	c, err := New(fx.cfg, fx.out, WithLogger(logger))
	require.NoError(t, err)

	out, err := func() (out *record.Record, err error) {
		defer c.recoverInto("test", &out, &err)

		out = &record.Record{}

		panic("boom")
	}()

	assert.Nil(t, out)
	assert.ErrorIs(t, err, maperr.ErrConversion)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, logger.find("error"), 1)
}
