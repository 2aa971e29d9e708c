// Package main provides the CLI entrypoint for avro-mapper.
//
// avro-mapper copies values between Avro records of different schemas
// following a YAML field-path mapping:
//   - convert: convert one record read from a file or stdin
//   - check: verify a mapping against its schemas
//   - fmt: rewrite a mapping file in canonical form
//   - serve: expose conversions over HTTP
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
