// Package sanitizer normalizes admin input before validation and storage.
//
// All functions are idempotent and never fail: invalid input comes back
// trimmed or empty rather than as an error.
package sanitizer
