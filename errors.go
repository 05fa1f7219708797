package supercsv

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when the path handed to OpenSource or OpenReader does not exist.
	ErrSourceNotFound = errors.New("supercsv: source not found")
	// ErrSourceUnavailable is returned when a line source or sink exists but cannot be opened.
	ErrSourceUnavailable = errors.New("supercsv: source unavailable")
	// ErrHeaderFieldMissing is returned when a header-bound write lacks one of the header names.
	ErrHeaderFieldMissing = errors.New("supercsv: record is missing a header field")
	// ErrMalformedRecord is returned when a record cannot be parsed or does not fit the bound header.
	ErrMalformedRecord = errors.New("supercsv: malformed record")
	// ErrUnterminatedEnclosure is returned when an enclosed field is not closed before the end of the stream.
	ErrUnterminatedEnclosure = fmt.Errorf("%w: unterminated enclosure", ErrMalformedRecord)
	// ErrFieldCount is returned when a record contains an unexpected number of fields.
	ErrFieldCount = fmt.Errorf("%w: wrong number of fields", ErrMalformedRecord)
	// ErrDuplicateHeader is returned when a header names the same field twice.
	ErrDuplicateHeader = errors.New("supercsv: duplicate header field")
	// ErrHeaderBound is returned when a header is loaded or set on an instance that already has one.
	ErrHeaderBound = errors.New("supercsv: header already bound")
	// ErrInvalidDialect is returned when a Dialect fails validation.
	ErrInvalidDialect = errors.New("supercsv: invalid dialect")
	// ErrNotRewindable is returned by Rewind when the underlying stream cannot seek.
	ErrNotRewindable = errors.New("supercsv: source cannot be rewound")
	// ErrNotOpen is returned by a Reader or Writer that has no source or sink attached.
	ErrNotOpen = errors.New("supercsv: no source attached")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("supercsv: closed")
)

// ParseError contains location information for CSV parsing errors.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("supercsv: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
