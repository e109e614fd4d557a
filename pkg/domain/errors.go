package domain

import (
	"errors"
	"fmt"
)

// Kind categorizes protocol errors. Adapters map kinds to their own status
// vocabulary (HTTP codes, MCP error payloads); handlers and hosts branch on
// them with KindOf.
type Kind int

const (
	// KindUnknown is the default kind when none is specified.
	KindUnknown Kind = iota
	// KindUnknownAction indicates a trigger or binding named an action
	// outside the vocabulary.
	KindUnknownAction
	// KindNoRunner indicates a known action has no built-in runner installed.
	KindNoRunner
	// KindHandlerFailure indicates a user handler returned an error or
	// panicked. The sequence stops; the built-in action does not run when the
	// failing handler was PRE.
	KindHandlerFailure
	// KindActionFailure indicates the built-in action itself failed.
	KindActionFailure
	// KindUnsupportedOnBackend indicates a CRM capability was invoked on a
	// backend that does not provide it.
	KindUnsupportedOnBackend
	// KindConfigPathNotFound indicates a configuration path resolved to
	// nothing. RetrieveConfig absorbs this kind into the caller default.
	KindConfigPathNotFound
	// KindQuerySyntax indicates a query string does not conform to the
	// restricted grammar.
	KindQuerySyntax
	// KindBadRecord indicates an interceptor configuration record is
	// malformed or references unknown names.
	KindBadRecord
	// KindConflict indicates a duplicate (action, phase) binding under the
	// ErrorOnConflict policy.
	KindConflict
	// KindSessionNotFound indicates a session ID is absent from the store.
	KindSessionNotFound
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	KindUnknownAction:        "unknown_action",
	KindNoRunner:             "no_runner",
	KindHandlerFailure:       "handler_failure",
	KindActionFailure:        "action_failure",
	KindUnsupportedOnBackend: "unsupported_on_backend",
	KindConfigPathNotFound:   "config_path_not_found",
	KindQuerySyntax:          "query_syntax",
	KindBadRecord:            "bad_record",
	KindConflict:             "conflict",
	KindSessionNotFound:      "session_not_found",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a protocol error with a typed Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string // operation that failed (optional)
	Err     error  // underlying error (optional)
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a protocol error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a protocol error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a protocol error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// KindOf extracts the kind from an error chain. Returns KindUnknown when no
// *Error is present.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
