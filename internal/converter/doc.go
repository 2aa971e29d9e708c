// Package converter copies values from one Avro record into a record of a
// different schema, driven by a [mapping.Configuration].
//
// # Construction
//
// [New] validates the configuration against the output schema once. Every
// leaf output field without a default must have a configuration key equal
// to its name; union fields are only considered when the configuration
// mentions them, and nested records are walked structurally. The output
// paths of the required fields are kept for the conversion pass.
//
// # Conversion
//
// For each configured field, in key order, the value at the input path is
// read and written at the output path:
//
//   - reading through an unset nested record fails
//   - writing through an unset nested record creates it
//   - the terminal value is placed under the configuration key
//   - enum values are re-created on the output enum by symbol name
//   - arrays, maps and bytes are deep-copied
//
// A null value read for a required output path fails the conversion.
//
// # Failure policy
//
// Conversions are all-or-nothing. Every failure, including a recovered
// panic, is logged and returned as a *maperr.ConversionError that matches
// maperr.ErrConversion and unwraps to the specific error; the returned
// record is nil.
//
// # Concurrency
//
// A Converter is immutable after construction and safe for concurrent use,
// provided concurrent calls do not share output records.
package converter
