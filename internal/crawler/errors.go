package crawler

import (
	"errors"
	"fmt"

	"github.com/nao1215/bfscrawl/internal/model"
)

// Kind classifies a crawler error.
type Kind int

const (
	// KindTransport is a connection or network failure.
	KindTransport Kind = iota + 1

	// KindStatus is a non-2xx HTTP response.
	KindStatus

	// KindBodyRead is a response body that could not be read or decoded as text.
	KindBodyRead

	// KindURLParse is a URL that could not be parsed or has no host.
	KindURLParse

	// KindInvalidState is an operation invoked in the wrong lifecycle state.
	KindInvalidState
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindStatus:
		return "status error"
	case KindBodyRead:
		return "body read error"
	case KindURLParse:
		return "url parse error"
	case KindInvalidState:
		return "invalid state"
	default:
		return "unknown error"
	}
}

// Sentinel errors, one per Kind. An *Error matches the sentinel of its kind
// with errors.Is.
var (
	// ErrTransport matches errors of KindTransport.
	ErrTransport = errors.New("transport error")

	// ErrStatus matches errors of KindStatus.
	ErrStatus = errors.New("status error")

	// ErrBodyRead matches errors of KindBodyRead.
	ErrBodyRead = errors.New("body read error")

	// ErrURLParse matches errors of KindURLParse.
	ErrURLParse = errors.New("url parse error")

	// ErrInvalidState matches errors of KindInvalidState.
	// It is the same value as model.ErrInvalidState so stats and engine
	// state errors can be handled together.
	ErrInvalidState = model.ErrInvalidState
)

// Error is the single error type produced by the crawler.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// URL is the URL being processed when the error occurred, if any.
	URL string

	// StatusCode is the HTTP status code for KindStatus errors.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.URL != "" {
		msg += " " + e.URL
	}
	if e.Kind == KindStatus && e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindStatus:
		return ErrStatus
	case KindBodyRead:
		return ErrBodyRead
	case KindURLParse:
		return ErrURLParse
	case KindInvalidState:
		return ErrInvalidState
	default:
		return nil
	}
}

// newError creates an *Error of the given kind.
func newError(kind Kind, url string, err error) *Error {
	return &Error{Kind: kind, URL: url, Err: err}
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
