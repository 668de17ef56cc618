package ipx

import "fmt"

// Error is the single error type produced anywhere in the request pipeline.
// It carries an HTTP status code so the outermost handler can map it to a
// response without inspecting error strings.
type Error struct {
	StatusCode    int
	StatusMessage string
	// Known is true when this error was constructed by one of the named
	// helpers below (a recognized IPX failure locus), false when it wraps
	// an arbitrary uncaught error via InternalError/AsIPXError.
	Known bool
	// Upstream is true for UpstreamError: its StatusMessage is the
	// upstream's own reason phrase and must not get the "IPX: " prefix.
	Upstream bool
	cause    error
}

func (e *Error) Error() string {
	if e.StatusMessage == "" {
		return fmt.Sprintf("IPX Error (%d)", e.StatusCode)
	}
	return e.StatusMessage
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(status int, msg string) *Error {
	return &Error{StatusCode: status, StatusMessage: msg, Known: true}
}

// BadRequest builds a 400 error for malformed input: missing modifiers,
// missing id, unknown source, non-file path, bad URL.
func BadRequest(msg string) *Error {
	return newError(400, msg)
}

// Forbidden builds a 403 error for path escapes, invalid filesystem
// characters, disallowed hosts, and filesystem access denial.
func Forbidden(msg string) *Error {
	return newError(403, msg)
}

// NotFound builds a 404 error for a missing filesystem artifact.
func NotFound(msg string) *Error {
	return newError(404, msg)
}

// UpstreamError wraps a non-2xx response from the HTTP supplier,
// preserving the upstream status and reason phrase.
func UpstreamError(status int, reason string) *Error {
	if status < 100 || status > 599 {
		status = 500
	}
	e := newError(status, reason)
	e.Upstream = true
	return e
}

// InternalError wraps an uncaught failure, including codec failures.
func InternalError(cause error) *Error {
	msg := "Internal Error"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{StatusCode: 500, StatusMessage: msg, cause: cause}
}

// AsIPXError unwraps err into an *Error, synthesizing an InternalError
// wrapper when err is not already one of ours.
func AsIPXError(err error) *Error {
	if err == nil {
		return nil
	}
	var ierr *Error
	if e, ok := err.(*Error); ok {
		ierr = e
	} else {
		ierr = InternalError(err)
	}
	return ierr
}
