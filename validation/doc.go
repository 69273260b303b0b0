// Package validation provides input validation for reader, writer, and
// training configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// recommended for configuration structs.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Compression string `validate:"oneof=none gzip zlib"`
//	    Shards      int    `validate:"min=1"`
//	}
//	err := validation.Validate(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("path", path).Min("shards", shards, 1)
//	err := v.Validate()
//
// Failures surface as configuration errors with per-field details.
package validation
