// Package eval implements the evaluation context and expression
// evaluator at the center of a compile: the scope stack, match stack,
// EPP output-stream stack, the four deferred-work queues, and the
// finalization driver that discharges them to a fixed point (spec §5's
// "Evaluation context" and "Expression evaluator" modules).
//
// The tree it walks is handed in fully formed by an external parser;
// this package never produces or mutates AST nodes, only reads them.
package eval
