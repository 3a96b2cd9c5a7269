// Package ast defines the minimal abstract syntax tree shape the
// evaluation core walks (spec §1: "A parser yielding an abstract syntax
// tree... [is a] external collaborator; only the interfaces the core
// consumes from them... appear here"). Nothing in this package parses
// source text; it is the contract a real parser's output must satisfy.
package ast

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Position is a source location: a file/line/column triple (reusing
// cuelang.org/go/cue/token.Position rather than hand-rolling an
// equivalent struct) plus the span Length the spec's diagnostic record
// requires (§6) that token.Position doesn't carry on its own.
type Position struct {
	token.Position
	Length int
}

// NewPosition builds a Position at the given file/line/column with span
// length n.
func NewPosition(filename string, line, column, length int) Position {
	return Position{
		Position: token.Position{
			Filename: filename,
			Line:     line,
			Column:   column,
		},
		Length: length,
	}
}

// String renders "file:line:column".
func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Node is implemented by every AST node the evaluator walks.
type Node interface {
	Pos() Position
}
