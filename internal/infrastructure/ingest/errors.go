// Package ingest reads raw time entry files into header-keyed rows. It knows
// nothing about layouts or reference data; classification happens in the
// application layer.
package ingest

import "errors"

// Common ingestion errors
var (
	// ErrEmptyFile is returned when the uploaded file is empty
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("file missing header row")
)
