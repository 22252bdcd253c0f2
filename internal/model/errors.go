package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to the user
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindNotAuthenticated means no cookie was entered
	KindNotAuthenticated
	// KindAuth means the remote service rejected the session (401)
	KindAuth
	// KindNetwork means a transport failure while listing or downloading
	KindNetwork
	// KindDownload means a bad status or local I/O failure during a download
	KindDownload
	// KindBusy means a download is already in flight
	KindBusy
	// KindUnpackSkipped means the unpack service could not be reached
	KindUnpackSkipped
	// KindUnpackWarning means the unpack service returned an unexpected status
	KindUnpackWarning
	// KindUnpackError means any other failure while talking to the unpack service
	KindUnpackError
)

// String returns a stable identifier for the kind
func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindDownload:
		return "download"
	case KindBusy:
		return "busy"
	case KindUnpackSkipped:
		return "unpack_skipped"
	case KindUnpackWarning:
		return "unpack_warning"
	case KindUnpackError:
		return "unpack_error"
	default:
		return "unknown"
	}
}

// Error is the typed error carried through results. Message formatting for
// the user happens in the presentation layer, keyed by Kind.
type Error struct {
	Kind   ErrorKind
	Op     string // operation that failed, e.g. "list files"
	Status int    // HTTP status when relevant
	Err    error
}

// Sentinels for errors.Is comparisons; matching is by Kind only.
var (
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated}
	ErrAuth             = &Error{Kind: KindAuth}
	ErrNetwork          = &Error{Kind: KindNetwork}
	ErrDownload         = &Error{Kind: KindDownload}
	ErrBusy             = &Error{Kind: KindBusy}
)

// NewError builds an Error of the given kind wrapping err
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the ErrorKind from err, or KindUnknown
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
