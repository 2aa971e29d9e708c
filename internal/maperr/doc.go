// Package maperr provides the closed set of error kinds reported by the
// record mapper.
//
// Every kind has a sentinel for [errors.Is] and a struct carrying the
// structured details for [errors.As]:
//
//   - [ConfigError] ([ErrConfig]): empty configuration, a required output
//     field missing from the configuration, an unparsable path or mapping file.
//   - [SchemaResolutionError] ([ErrSchemaResolution]): a path segment that does
//     not exist on the input or output schema, or a union with more than one
//     concrete branch.
//   - [TypeMismatchError] ([ErrTypeMismatch]): a value whose runtime type cannot
//     be placed into the declared output field type.
//   - [MissingRequiredValueError] ([ErrMissingRequiredValue]): the input record
//     has no value for a path the output schema requires.
//   - [ConversionError] ([ErrConversion]): the single failure signal returned by
//     the conversion entry points. It wraps one of the kinds above.
//
// # Usage
//
//	out, err := conv.ConvertToNewRecord(in, outSchema)
//	if errors.Is(err, maperr.ErrConversion) {
//	    var mismatch *maperr.TypeMismatchError
//	    if errors.As(err, &mismatch) {
//	        fmt.Println(mismatch.Field, mismatch.Got, mismatch.Schema)
//	    }
//	}
package maperr
