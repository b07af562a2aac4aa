package common

import (
	"errors"
	"fmt"
)

var (
	ErrIO       = errors.New("io error")
	ErrFormat   = errors.New("format error")
	ErrNotFound = errors.New("not found")
)

// IOError reports a missing or unreadable input file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read '%s': %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// FormatError reports a missing sentinel or a malformed line. Line is 1-based,
// zero when the error is not tied to one line.
type FormatError struct {
	Path   string
	Line   int
	Marker string
	Msg    string
}

func (e *FormatError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Marker != "" {
		return fmt.Sprintf("%s: %s (marker %q)", loc, e.Msg, e.Marker)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// NotFoundError is a translation miss. It is recoverable.
type NotFoundError struct {
	Name string
	From string
	To   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s translation for %s name '%s'", e.To, e.From, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
