// Package glrerr holds the error types shared across glrfront. It follows the
// wrap/cause pattern used elsewhere in this codebase's lineage: a single
// Error type that can carry one or more causes and remains compatible with
// errors.Is/errors.As, plus a set of sentinel values identifying the broad
// error kinds named by the scanner, lexer, parser, grammar loader, and
// refactoring layer.
package glrerr

import "errors"

var (
	// ErrUnterminated marks a scan error: a construct (character class,
	// property group, quoted literal) was never closed before EOF.
	ErrUnterminated = errors.New("unterminated construct")

	// ErrUnknownProperty marks a Phase 2 scan error: a \p{...}/\P{...} name
	// did not validate against the unicode property oracle.
	ErrUnknownProperty = errors.New("unknown unicode property name")

	// ErrMalformedEscape marks a Phase 1 scan error for an escape sequence
	// that could not be classified.
	ErrMalformedEscape = errors.New("malformed escape sequence")

	// ErrNoRuleMatch marks a lex error: no TokenRule matched at a position
	// in any live LexerPath.
	ErrNoRuleMatch = errors.New("no token rule matches at position")

	// ErrSyntax marks a parse error: every ParsePath died before reducing to
	// the start symbol.
	ErrSyntax = errors.New("syntax error")

	// ErrBoundsExceeded marks a bounded-exploration error: the GLR parser's
	// step, no-progress, or wall-clock cap tripped. The path-count cap prunes
	// paths instead of raising it.
	ErrBoundsExceeded = errors.New("parse exceeded bounded-exploration limits")

	// ErrGrammar marks a grammar-loader error: a malformed line, an
	// unresolved inheritance, or an undefined RHS symbol.
	ErrGrammar = errors.New("grammar definition error")

	// ErrNotAvailable marks a refactoring error: no parse tree is loaded, or
	// the requested operation is not registered.
	ErrNotAvailable = errors.New("operation not available")

	// ErrNoNodeAtLocation marks a refactoring error: no parse node covers
	// the requested CodeLocation.
	ErrNoNodeAtLocation = errors.New("no node at location")

	// ErrNotApplicable marks a refactoring error: the operation is
	// registered but the node/context at the location does not support it.
	ErrNotApplicable = errors.New("operation not applicable at this location")

	// ErrInvalidName marks a refactoring error: a proposed new identifier
	// name failed validation.
	ErrInvalidName = errors.New("invalid identifier name")
)

// Error is a typed error that carries a message and zero or more causes. It
// is the error type returned from glrfront's public functions instead of a
// kind string, so callers can use errors.Is against the sentinels above.
//
// Error should not be used directly; call New to construct one.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and optional causes. Passing
// one of the sentinel Err* values as a cause makes errors.Is(result, sentinel)
// return true.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	if len(causes) > 0 {
		e.cause = make([]error, len(causes))
		copy(e.cause, causes)
	}
	return e
}

// Error returns the message, appending the first cause's message if present.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap exposes all causes to the errors package (Go 1.20+ multi-unwrap).
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is reports whether target equals e itself or one of its causes.
func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok {
		if e.msg != other.msg || len(e.cause) != len(other.cause) {
			return false
		}
		for i := range e.cause {
			if e.cause[i] != other.cause[i] {
				return false
			}
		}
		return true
	}
	for _, c := range e.cause {
		if c == target {
			return true
		}
		if errors.Is(c, target) {
			return true
		}
	}
	return false
}
