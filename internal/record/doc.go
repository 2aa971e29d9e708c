// Package record provides a mutable, schema-bound Avro record model.
//
// A [Record] holds one value per field of its *avro.RecordSchema. Values use
// the following Go representation:
//
//	null     nil
//	boolean  bool
//	int      int32
//	long     int64
//	float    float32
//	double   float64
//	string   string
//	bytes    []byte
//	fixed    []byte (of the fixed size)
//	enum     Enum
//	record   *Record
//	array    []any
//	map      map[string]any
//	union    the value of the chosen branch
//
// [Record.Put] refuses values whose runtime type cannot be placed into the
// declared field type and reports a *maperr.TypeMismatchError. Putting nil is
// always accepted, matching Avro's generic records: completeness is checked
// by the caller, not by the record.
//
// # Codecs
//
//   - [DecodeJSON] / [Record.MarshalJSON]: schema-driven JSON via
//     github.com/valyala/fastjson, field order preserved. Union values may be
//     plain or wrapped in Avro's {"branch": value} form.
//   - [UnmarshalBinary] / [MarshalBinary]: Avro binary via github.com/hamba/avro/v2.
//   - [FromNative] / [Record.Map]: generic map[string]any form.
package record
