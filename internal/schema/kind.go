package schema

import "github.com/hamba/avro/v2"

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind is the structural category of a schema node.
type Kind int

const (
	_ Kind = iota // zero value is invalid

	KindNull
	KindPrimitive
	KindEnum
	KindFixed
	KindArray
	KindMap
	KindRecord
	KindUnion
)

// KindOf classifies s, following named references.
func KindOf(s avro.Schema) Kind {
	s = Deref(s)
	if s == nil {
		return 0
	}

	switch s.Type() {
	case avro.Null:
		return KindNull
	case avro.Enum:
		return KindEnum
	case avro.Fixed:
		return KindFixed
	case avro.Array:
		return KindArray
	case avro.Map:
		return KindMap
	case avro.Record, avro.Error:
		return KindRecord
	case avro.Union:
		return KindUnion
	case avro.String, avro.Bytes, avro.Int, avro.Long, avro.Float, avro.Double, avro.Boolean:
		return KindPrimitive
	default:
		return 0
	}
}
