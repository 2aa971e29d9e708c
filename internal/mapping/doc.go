// Package mapping provides the field-path mapping configuration: paths,
// per-field input/output pairs, the YAML file format and a structural check
// against Avro schemas.
//
// # Schema Overview
//
// The mapping file has the following structure:
//
//	version: "1"
//	input_schema: person.avsc       # optional, relative to the file
//	output_schema: person_out.avsc  # optional, relative to the file
//	fields:
//	  # full form
//	  idout:
//	    input: identification.id
//	    output: identificationout.idout
//	  # shorthand: the output path defaults to the key
//	  cardsout: cards
//
// Each key is the simple name of an output field. The converter reads the
// value at the input path and places it under the key on the record reached
// by the output path's parent segments, so the key and the last output
// segment are normally equal.
//
// # Path Syntax
//
// Field paths support:
//   - Simple fields: "username"
//   - Nested fields: "identification.id"
//
// Segments are Avro names. Array or map elements cannot be addressed; whole
// arrays and maps are mapped as values.
//
// # Checking
//
// [Check] resolves every path against the schemas and reports problems as
// [diagnostic.Diagnostics] with "did you mean" suggestions, without needing
// a record.
package mapping
