package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrParse      = errors.New("parse error")
	ErrResolution = errors.New("resolution error")
	ErrCSVAccess  = errors.New("csv access error")
)

// Kind classifies an export failure.
type Kind string

const (
	KindParse          Kind = "parse_error"
	KindResolution     Kind = "resolution_error"
	KindCSVAccess      Kind = "csv_access_error"
	KindQueryAmbiguity Kind = "query_ambiguity"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal_error"
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// Error is a structured metadata/export error with classification.
type Error struct {
	Kind    Kind   // Classification of the error
	Message string // Human-readable message
	Path    string // Datafile or document path if known
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Kind))

	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match an *Error against the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Kind == KindParse
	case ErrResolution:
		return e.Kind == KindResolution
	case ErrCSVAccess:
		return e.Kind == KindCSVAccess
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// NewParseError reports malformed or missing deserialization input.
func NewParseError(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

// NewResolutionError reports a Factor whose value cannot be resolved.
func NewResolutionError(format string, args ...any) *Error {
	return &Error{Kind: KindResolution, Message: fmt.Sprintf(format, args...)}
}

// NewCSVAccessError reports a missing or malformed datafile.
func NewCSVAccessError(path, message string, cause error) *Error {
	return &Error{Kind: KindCSVAccess, Message: message, Path: path, Cause: cause}
}

// NewNotFoundError reports a missing dataset resource (directory, groups file).
func NewNotFoundError(path, message string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Path: path, Cause: cause}
}

// WithPath returns a copy of the error annotated with a document path.
// An existing path is preserved.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	if cp.Path == "" {
		cp.Path = path
	}
	return &cp
}

// Classify returns the structured error for err. Plain errors are
// reported as internal errors.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, ErrNotFound) {
		return &Error{Kind: KindNotFound, Message: err.Error(), Cause: err}
	}

	return &Error{Kind: KindInternal, Message: err.Error(), Cause: err}
}
