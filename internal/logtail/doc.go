// Package logtail reads the tail of roster's JSON log file for display.
//
// Read keeps the last N lines of a file in a ring buffer, so memory stays
// bounded by N regardless of file size. Parse turns one zerolog JSON line
// into an Entry; lines that are not JSON come back as raw entries so
// nothing in the file is hidden.
//
// A missing log file is not an error: Read returns no lines.
package logtail
