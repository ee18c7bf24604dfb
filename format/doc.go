// Package format provides the small string and time helpers shared by the
// pipeline: filename sanitization, timestamps and duration rendering.
package format
