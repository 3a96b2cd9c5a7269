// Package scope implements the Lattice DSL's variable scope chain (§3,
// §4.3): a fully-qualified name, a parent pointer for lexical
// inheritance, an optional containing resource reference, an unqualified
// name-to-value map, and an assignment guard forbidding double
// assignment within the same scope.
//
// The source design notes (spec §9) call for arena-allocated scope nodes
// addressed by parent index, to avoid reference-counted cycles in a
// language without a tracing garbage collector. Go's collector handles
// parent/child cycles natively, so this package uses plain pointers; see
// DESIGN.md for the recorded deviation.
package scope
