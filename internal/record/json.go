package record

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/valyala/fastjson"
)

// DecodeJSON decodes a JSON object into a record of schema s. Fields absent
// from the document keep their schema defaults; unknown keys are ignored.
func DecodeJSON(s avro.Schema, data []byte) (*Record, error) {
	var p fastjson.Parser

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse json record: %w", err)
	}

	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("failed to decode json record: expected object, got %s", v.Type())
	}

	native, ok := jsonValue(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to decode json record: not an object")
	}

	r, err := FromNative(s, native)
	if err != nil {
		return nil, fmt.Errorf("failed to decode json record: %w", err)
	}

	return r, nil
}

// jsonValue turns a parsed document into generic values. Integral numbers
// become int64 and the rest float64; coerce narrows them per schema.
func jsonValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}

		return v.GetFloat64()
	case fastjson.TypeArray:
		items := v.GetArray()

		out := make([]any, len(items))
		for i, item := range items {
			out[i] = jsonValue(item)
		}

		return out
	case fastjson.TypeObject:
		obj := v.GetObject()

		out := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, item *fastjson.Value) {
			out[string(key)] = jsonValue(item)
		})

		return out
	default:
		return nil
	}
}

// MarshalJSON renders the record as a JSON object in field declaration
// order. Union values are written plain, without a branch wrapper.
func (r *Record) MarshalJSON() ([]byte, error) {
	var a fastjson.Arena

	v, err := r.toJSON(&a)
	if err != nil {
		return nil, err
	}

	return v.MarshalTo(nil), nil
}

func (r *Record) toJSON(a *fastjson.Arena) (*fastjson.Value, error) {
	if r == nil {
		return a.NewNull(), nil
	}

	obj := a.NewObject()

	for i, f := range r.schema.Fields() {
		v, err := jsonOf(a, r.values[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name(), err)
		}

		obj.Set(f.Name(), v)
	}

	return obj, nil
}

func jsonOf(a *fastjson.Arena, v any) (*fastjson.Value, error) {
	switch val := v.(type) {
	case nil:
		return a.NewNull(), nil
	case bool:
		if val {
			return a.NewTrue(), nil
		}

		return a.NewFalse(), nil
	case int32:
		return a.NewNumberInt(int(val)), nil
	case int64:
		return a.NewNumberString(strconv.FormatInt(val, 10)), nil
	case float32:
		return a.NewNumberString(strconv.FormatFloat(float64(val), 'g', -1, 32)), nil
	case float64:
		return a.NewNumberFloat64(val), nil
	case string:
		return a.NewString(val), nil
	case []byte:
		return a.NewString(latin1(val)), nil
	case Enum:
		return a.NewString(val.symbol), nil
	case time.Time:
		return a.NewString(val.UTC().Format(time.RFC3339Nano)), nil
	case time.Duration:
		return a.NewNumberString(strconv.FormatInt(val.Milliseconds(), 10)), nil
	case *big.Rat:
		return a.NewString(val.RatString()), nil
	case *Record:
		return val.toJSON(a)
	case []any:
		arr := a.NewArray()

		for i, item := range val {
			itemValue, err := jsonOf(a, item)
			if err != nil {
				return nil, fmt.Errorf("array item %d: %w", i, err)
			}

			arr.SetArrayItem(i, itemValue)
		}

		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		obj := a.NewObject()

		for _, k := range keys {
			itemValue, err := jsonOf(a, val[k])
			if err != nil {
				return nil, fmt.Errorf("map value %q: %w", k, err)
			}

			obj.Set(k, itemValue)
		}

		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// latin1 maps each byte to the code point of the same value, the way Avro
// JSON encodes bytes and fixed.
func latin1(data []byte) string {
	var b strings.Builder

	b.Grow(len(data))

	for _, c := range data {
		b.WriteRune(rune(c))
	}

	return b.String()
}
