// Package schema answers the structural questions the mapper asks about
// Avro schemas parsed by github.com/hamba/avro/v2.
//
// # Key capabilities
//
//   - Dereference named schema references
//   - Resolve "optional" unions (null plus exactly one concrete branch)
//   - Look up a record field by name, reporting the side (input/output),
//     the searched schema's qualified name and a "did you mean" suggestion
//   - Classify schemas by [Kind] and tell primitive fields from nested ones
//
// # Union Policy
//
// Only unions with exactly one non-null branch can be traversed or written.
// A union with two or more concrete branches is reported as an ambiguous
// union instead of guessing a branch.
package schema
