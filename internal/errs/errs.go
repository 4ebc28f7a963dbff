// Package errs defines the error kinds shared by the engine packages.
//
// Every fatal engine error is an *Error carrying a Kind, so callers can branch
// with errors.Is(err, errs.NotFound) without string matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind int

const (
	Other Kind = iota
	NotFound
	NameConflict
	InvalidDefinition
	UnreadableSource
	PersistenceFailure
	UnknownServer
	NotInitialized
	AlreadyInitialized
)

var kindNames = map[Kind]string{
	Other:              "error",
	NotFound:           "not found",
	NameConflict:       "name conflict",
	InvalidDefinition:  "invalid definition",
	UnreadableSource:   "unreadable source",
	PersistenceFailure: "persistence failure",
	UnknownServer:      "unknown server",
	NotInitialized:     "not initialized",
	AlreadyInitialized: "already initialized",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error implements error so a bare Kind can be used as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// Error is an engine error with a kind and the subject it concerns
// (a server name, a path).
type Error struct {
	Kind    Kind
	Subject string
	Err     error
}

// E builds an *Error. err may be nil.
func E(kind Kind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Errorf builds an *Error whose cause is a formatted message.
func Errorf(kind Kind, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: %s", e.Subject, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}
