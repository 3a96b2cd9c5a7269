// Package diagnostics implements the classified error and notice record
// the evaluation core reports through (spec §6). It owns no rendering
// policy of its own (that is host-application territory, per spec §6's
// non-goal on diagnostic pretty-printing); it only classifies, carries
// position context, and sinks structured log events.
package diagnostics

import (
	"errors"
	"fmt"

	"github.com/latticelang/lattice/pkg/ast"
)

// Kind classifies an evaluation-time failure for programmatic handling
// (mirrors the teacher's ErrorClass, retargeted to compile-time
// failure modes instead of apply-time retry semantics).
type Kind string

const (
	// KindParse flags a malformed AST the core could not walk (normally
	// surfaced by the external parser, not produced by the core itself).
	KindParse Kind = "parse-error"
	// KindEvaluation is a generic failure evaluating an expression.
	KindEvaluation Kind = "evaluation-error"
	// KindType flags a type-constraint violation (§4.2, §5(c)).
	KindType Kind = "type-error"
	// KindRedefinition flags a double variable assignment, duplicate
	// class/defined-type/node declaration, or duplicate resource title
	// within one catalog (§4.3, §4.4, §5).
	KindRedefinition Kind = "redefinition-error"
	// KindUndefinedSymbol flags reference to an unknown variable,
	// function, class, defined type, or resource type.
	KindUndefinedSymbol Kind = "undefined-symbol"
	// KindNonConvergent flags a finalization pass that failed to reach a
	// fixed point within the iteration bound (§5(h)).
	KindNonConvergent Kind = "finalization-non-convergent"
	// KindInternal flags a condition the core considers a programming
	// error rather than a fault in the evaluated source.
	KindInternal Kind = "internal-error"
)

// Error is a classified diagnostic with source position context. It
// implements the standard error interface and chains through Unwrap/Is
// so callers can use errors.As/errors.Is against it like any other Go
// error.
type Error struct {
	Kind      Kind
	Message   string
	Position  ast.Position
	HasPos    bool
	Symbol    string // resource/variable/function/class name, if applicable
	Err       error
	Details   map[string]any
}

// New builds an Error with no position context attached.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// At builds an Error positioned at pos.
func At(kind Kind, pos ast.Position, message string) *Error {
	return &Error{Kind: kind, Message: message, Position: pos, HasPos: true}
}

// Error implements the error interface.
func (e *Error) Error() string {
	loc := ""
	if e.HasPos {
		loc = fmt.Sprintf(" at %s", e.Position.String())
	}
	sym := ""
	if e.Symbol != "" {
		sym = fmt.Sprintf(" (symbol=%s)", e.Symbol)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s%s%s: %s", e.Kind, e.Message, loc, sym, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s%s%s", e.Kind, e.Message, loc, sym)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, letting
// callers write errors.Is(err, diagnostics.New(diagnostics.KindType, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// WithSymbol attaches the offending symbol name and returns e.
func (e *Error) WithSymbol(name string) *Error {
	e.Symbol = name
	return e
}

// WithCause wraps an underlying error and returns e.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// WithDetail attaches a key/value pair of extra context and returns e.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Is* classification helpers, mirroring the teacher's IsTransient/
// IsPermanent family.

// IsType reports whether err is a type-error diagnostic.
func IsType(err error) bool { return hasKind(err, KindType) }

// IsUndefinedSymbol reports whether err is an undefined-symbol diagnostic.
func IsUndefinedSymbol(err error) bool { return hasKind(err, KindUndefinedSymbol) }

// IsRedefinition reports whether err is a redefinition diagnostic.
func IsRedefinition(err error) bool { return hasKind(err, KindRedefinition) }

// IsNonConvergent reports whether err is a non-convergent-finalization
// diagnostic.
func IsNonConvergent(err error) bool { return hasKind(err, KindNonConvergent) }

func hasKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
