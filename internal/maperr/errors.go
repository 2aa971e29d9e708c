package maperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates an invalid mapping configuration.
	ErrConfig = errors.New("configuration error")

	// ErrSchemaResolution indicates a path segment or union could not be resolved.
	ErrSchemaResolution = errors.New("schema resolution error")

	// ErrTypeMismatch indicates a value incompatible with the declared field type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMissingRequiredValue indicates the input lacks a value the output requires.
	ErrMissingRequiredValue = errors.New("missing required value")

	// ErrConversion indicates a conversion produced no result.
	ErrConversion = errors.New("conversion failed")
)

// Side tells which of the two schemas a resolution failure happened on.
type Side string

const (
	SideInput  Side = "input"
	SideOutput Side = "output"
)

// Reason classifies a schema resolution failure.
type Reason string

const (
	ReasonFieldNotFound     Reason = "field not found"
	ReasonAmbiguousUnion    Reason = "ambiguous union"
	ReasonNoConcreteBranch  Reason = "no concrete branch"
	ReasonNotRecord         Reason = "not a record"
	ReasonUnsetNestedRecord Reason = "unset nested record"
)

// ConfigError is returned when a configuration cannot be used.
type ConfigError struct {
	// Field is the output field name the problem relates to (may be empty).
	Field string
	// Message describes the problem.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += " for field " + e.Field
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// SchemaResolutionError is returned when a field path cannot be resolved
// against a schema.
type SchemaResolutionError struct {
	// Side is the schema the lookup ran against.
	Side Side
	// Field is the path segment being resolved.
	Field string
	// Schema is the qualified name of the schema searched.
	Schema string
	// Reason classifies the failure.
	Reason Reason
	// Suggestion is the closest existing field name, if one is close enough.
	Suggestion string
}

// Error returns a human-readable error message.
func (e *SchemaResolutionError) Error() string {
	on := "schema " + e.Schema
	if e.Side != "" {
		on = string(e.Side) + " " + on
	}

	var msg string

	switch e.Reason {
	case ReasonFieldNotFound:
		msg = fmt.Sprintf("could not find a field named %s on %s", e.Field, on)
	case ReasonUnsetNestedRecord:
		msg = fmt.Sprintf("nested record %s is not set on %s", e.Field, on)
	default:
		msg = string(e.Reason)
		if e.Field != "" {
			msg += " at field " + e.Field
		}

		msg += " on " + on
	}

	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}

	return msg
}

// Is reports whether target matches this error type.
func (e *SchemaResolutionError) Is(target error) bool {
	return target == ErrSchemaResolution
}

// TypeMismatchError is returned when a value cannot be placed into a field.
type TypeMismatchError struct {
	// Field is the output field name.
	Field string
	// Got is the runtime type of the supplied value.
	Got string
	// Schema is the qualified name of the field's declared schema.
	Schema string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("could not place field %s: value of type %s does not match output schema %s",
		e.Field, e.Got, e.Schema)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *TypeMismatchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// MissingRequiredValueError is returned when the input record has no value
// for a field the output schema requires.
type MissingRequiredValueError struct {
	// Field is the output field name.
	Field string
	// Path is the input path that resolved to null.
	Path string
}

// Error returns a human-readable error message.
func (e *MissingRequiredValueError) Error() string {
	msg := "input record did not contain value for a required field: " + e.Field
	if e.Path != "" {
		msg += " (input path " + e.Path + ")"
	}

	return msg
}

// Is reports whether target matches this error type.
func (e *MissingRequiredValueError) Is(target error) bool {
	return target == ErrMissingRequiredValue
}

// ConversionError is the failure returned from a conversion entry point.
// The output record is never returned alongside it.
type ConversionError struct {
	// Op names the entry point that failed.
	Op string
	// Cause is the failure that aborted the conversion.
	Cause error
}

// Error returns a human-readable error message.
func (e *ConversionError) Error() string {
	msg := "conversion failed"
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause.
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}
