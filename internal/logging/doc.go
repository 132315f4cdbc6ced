// Package logging wraps log/slog with the handlers and attribute helpers
// used throughout charstream. The console handler renders compact
// single-line records; the json handler emits machine-readable output with
// stable field names.
package logging
