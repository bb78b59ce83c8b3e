// Package cfgerr defines the error kinds the configuration subsystem
// distinguishes. Parse, dispatch, stock-handler and lifecycle-hook failures
// are returned as an *Error (possibly wrapped) so callers can branch on Kind
// without string-matching messages. Module registration bookkeeping errors
// (duplicate or unknown module name, registering while running), a Spec
// with a nil handler or negative call counter, and core/manifest
// validation failures are plain errors with no Kind.
package cfgerr

import "fmt"

// Kind identifies the semantic category of a configuration error.
type Kind string

const (
	KindSyntax            Kind = "syntax"
	KindCapacity          Kind = "capacity"
	KindInvalidIdentifier Kind = "invalid_identifier"
	KindUnknownDirective  Kind = "unknown_directive"
	KindDuplicate         Kind = "duplicate"
	KindMissingRequired   Kind = "missing_required"
	KindValueOutOfRange   Kind = "value_out_of_range"
	KindBadValue          Kind = "bad_value"
	KindAllocationFailure Kind = "allocation_failure"
	KindLifecycle         Kind = "lifecycle"
)

// Error is the typed error the core packages return for the failures
// listed in the package comment.
type Error struct {
	Kind Kind

	// Directive/module context, populated when relevant.
	Directive string
	Module    string
	Phase     string

	// Snippet is the up-to-80-byte context around a syntax failure,
	// with a caret marking the offending position.
	Snippet string

	Msg string
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Module != "" && e.Phase != "":
		return fmt.Sprintf("%s: module %q phase %q: %s", e.Kind, e.Module, e.Phase, e.Msg)
	case e.Directive != "":
		return fmt.Sprintf("%s: directive %q: %s", e.Kind, e.Directive, e.Msg)
	case e.Snippet != "":
		return fmt.Sprintf("%s: %s\n%s", e.Kind, e.Msg, e.Snippet)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Error has no Is method; use HasKind to test an error's Kind.

// HasKind reports whether err is a *Error of the given kind.
func HasKind(err error, k Kind) bool {
	var ce *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			ce = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ce != nil && ce.Kind == k
}

func Syntax(msg, snippet string) *Error {
	return &Error{Kind: KindSyntax, Msg: msg, Snippet: snippet}
}

func Capacity(directive, msg string) *Error {
	return &Error{Kind: KindCapacity, Directive: directive, Msg: msg}
}

func InvalidIdentifier(msg string) *Error {
	return &Error{Kind: KindInvalidIdentifier, Msg: msg}
}

func UnknownDirective(name string) *Error {
	return &Error{Kind: KindUnknownDirective, Directive: name, Msg: "no spec matches this directive"}
}

func Duplicate(name string) *Error {
	return &Error{Kind: KindDuplicate, Directive: name, Msg: "directive does not allow repeats"}
}

func MissingRequired(name string) *Error {
	return &Error{Kind: KindMissingRequired, Directive: name, Msg: "required directive was never given"}
}

func ValueOutOfRange(directive, msg string) *Error {
	return &Error{Kind: KindValueOutOfRange, Directive: directive, Msg: msg}
}

func BadValue(directive, msg string) *Error {
	return &Error{Kind: KindBadValue, Directive: directive, Msg: msg}
}

func AllocationFailure(msg string) *Error {
	return &Error{Kind: KindAllocationFailure, Msg: msg}
}

func Lifecycle(module, phase string, err error) *Error {
	return &Error{Kind: KindLifecycle, Module: module, Phase: phase, Msg: err.Error(), Err: err}
}
