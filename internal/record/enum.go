package record

import (
	"fmt"
	"slices"

	"github.com/hamba/avro/v2"
)

// Enum is a symbol of a specific enum schema.
type Enum struct {
	schema *avro.EnumSchema
	symbol string
}

// NewEnum returns the symbol of s named symbol.
func NewEnum(s *avro.EnumSchema, symbol string) (Enum, error) {
	if s == nil {
		return Enum{}, fmt.Errorf("enum schema is nil")
	}

	if !slices.Contains(s.Symbols(), symbol) {
		return Enum{}, fmt.Errorf("symbol %q is not a member of enum %s %v", symbol, s.FullName(), s.Symbols())
	}

	return Enum{schema: s, symbol: symbol}, nil
}

// Schema returns the enum schema the symbol belongs to.
func (e Enum) Schema() *avro.EnumSchema {
	return e.schema
}

// Symbol returns the symbol name.
func (e Enum) Symbol() string {
	return e.symbol
}

// String returns the symbol name.
func (e Enum) String() string {
	return e.symbol
}
