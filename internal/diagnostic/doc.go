// Package diagnostic provides structured errors, warnings and infos produced
// when a mapping configuration is checked against its schemas.
//
// Each [Diagnostic] carries a snake_case code, the configuration key it
// belongs to, the offending field path and optional "did you mean"
// suggestions.
package diagnostic
