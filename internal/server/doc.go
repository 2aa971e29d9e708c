// Package server exposes a Converter over HTTP.
//
// # Routes
//
//	POST /v1/convert           JSON input record -> JSON output record
//	POST /v1/convert/existing  {"input": {...}, "output": {...}} -> JSON output record
//	GET  /v1/required          required output paths and configured fields
//	GET  /healthz              liveness
//	GET  /metrics              Prometheus metrics
//
// Malformed bodies answer 400 and conversion failures 422, both with a
// {"error": ..., "request_id": ...} body. Every response carries an
// X-Request-Id header; a valid UUID sent by the client is reused.
//
// One Converter is shared by all request goroutines.
package server
