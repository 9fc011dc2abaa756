package models

import (
	"errors"
	"fmt"
)

// ErrUnsupported reports a file type or record the loaders cannot handle.
var ErrUnsupported = errors.New("unsupported")

// ParseError describes a malformed record in a mesh file.
type ParseError struct {
	Path   string // File name, or the name passed to the parser
	Line   int    // 1-based line number
	Record string // The offending line, trimmed
	Err    error  // Underlying cause
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: bad record %q: %v", e.Path, e.Line, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
