// Package internalerr holds the sentinel errors shared across sparselda's
// packages, so callers can use errors.Is instead of matching strings.
package internalerr

import "errors"

// Sentinel errors for common cases.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyDocument   = errors.New("document has no in-vocabulary words")
	ErrMalformedRecord = errors.New("malformed record")
	ErrTruncatedRecord = errors.New("truncated record")
	ErrRecordTooLarge  = errors.New("record exceeds maximum size")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNoCheckpoint    = errors.New("no checkpoint found")
)
