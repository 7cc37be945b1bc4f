package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode is a stable identifier for every failure mode of a run.
type ErrorCode string

const (
	// DiscoveryCount means the working directory did not hold exactly two inputs.
	DiscoveryCount ErrorCode = "DISCOVERY_COUNT"
	// FileNotFound means an input path could not be opened.
	FileNotFound ErrorCode = "FILE_NOT_FOUND"
	// FileUnreadable means an input exists but could not be read.
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// MalformedDocument means an input could not be parsed.
	MalformedDocument ErrorCode = "MALFORMED_DOCUMENT"
	// InvalidDocument means an input parsed but is not a key to scalar-list mapping.
	InvalidDocument ErrorCode = "INVALID_DOCUMENT"
	// InsufficientSpace means the report would not fit on disk.
	InsufficientSpace ErrorCode = "INSUFFICIENT_SPACE"
	// ReportWrite means the text report could not be committed.
	ReportWrite ErrorCode = "REPORT_WRITE"
	// ConfigInvalid means the resolved settings failed validation.
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Location points into a source document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column,omitempty"`
}

func (l Location) String() string {
	if l.Column > 0 {
		return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
	}
	return fmt.Sprintf("line %d", l.Line)
}

// Error carries a code, a human message and optional details.
type Error struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Path     string      `json:"path,omitempty"`
	Location *Location   `json:"location,omitempty"`
	Details  interface{} `json:"details,omitempty"`
	cause    error
}

// New creates an Error. cause may be nil.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Location != nil {
		msg += " (" + e.Location.String() + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithPath records the file the error refers to.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// At records a position inside the file. Non-positive lines are ignored.
func (e *Error) At(line, column int) *Error {
	if line > 0 {
		e.Location = &Location{Line: line, Column: column}
	}
	return e
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or InternalError.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
