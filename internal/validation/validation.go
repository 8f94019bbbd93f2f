// Package validation binds request payloads and checks them against their
// `validate` struct tags, turning every failure into a 422 error that
// lists the offending fields.
package validation
