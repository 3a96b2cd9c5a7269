// Package operators implements the DSL's binary and unary operators
// (spec §4.7) as pure functions over pkg/value.Value, dispatched by
// pkg/eval's tree-walker. Each operator file groups one family
// (arithmetic, relational, equality, shift, match, membership, edges)
// the way the teacher groups related concerns into one file per
// responsibility rather than one giant switch.
//
// "and"/"or" short-circuit evaluation is the evaluator's responsibility,
// not this package's: by the time a binary expression reaches Apply,
// both operands have already been evaluated.
package operators
