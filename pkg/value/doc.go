// Package value implements the runtime value model of the Lattice DSL
// evaluator: a tagged union over undef, default, boolean, integer, float,
// string, regexp, array, hash, type, and variable alternatives.
//
// Values are semantically immutable once published into a scope, a hash,
// an array, or a resource attribute. Arrays and hashes are shared by
// reference (a *Array or *Hash is handed around, never copied); callers
// that still exclusively own a freshly built composite may mutate it until
// the moment it is published, after which mutation is a programming error
// the package does not guard against at runtime (mirroring the teacher's
// stance that published state is a contract, not a lock).
package value
