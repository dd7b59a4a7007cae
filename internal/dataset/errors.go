package dataset

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies why a dataset could not be assembled.
type Kind int

const (
	// FileNotFound covers any I/O failure reaching the container file.
	FileNotFound Kind = iota + 1
	// ParseError covers a container that opened but did not yield a
	// valid dataset: malformed file, missing field, wrong shape or type.
	ParseError
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case ParseError:
		return "parse error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is; any *Error of the same kind matches.
var (
	ErrFileNotFound = &Error{Kind: FileNotFound}
	ErrParse        = &Error{Kind: ParseError}
)

// Error is the single error type returned by dataset construction.
type Error struct {
	Kind  Kind
	Path  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func parseErr(field string, err error) error {
	return &Error{Kind: ParseError, Field: field, Err: err}
}

func parseErrf(field, format string, args ...any) error {
	return parseErr(field, fmt.Errorf(format, args...))
}

// openErr maps a failure from opening the container onto the taxonomy:
// anything that never reached the file contents is FileNotFound.
func openErr(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return &Error{Kind: FileNotFound, Path: path, Err: err}
	}
	return &Error{Kind: ParseError, Path: path, Err: err}
}

// withPath fills in the container path on an *Error that lacks one.
func withPath(path string, err error) error {
	var e *Error
	if errors.As(err, &e) && e.Path == "" {
		cp := *e
		cp.Path = path
		return &cp
	}
	return err
}
