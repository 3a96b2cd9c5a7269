// Package compiler is the top-level entry point binding a node, its
// facts, a registry, and an evaluation context into one catalog compile
// (spec §6's external interface).
package compiler

import (
	"github.com/go-playground/validator/v10"

	"github.com/latticelang/lattice/pkg/functions"
	"github.com/latticelang/lattice/pkg/registry"
	"github.com/latticelang/lattice/pkg/telemetry"
)

var validate = validator.New()

// Options configures a Compiler. Zero value is usable: DefaultOptions
// fills in the fields a caller typically wants to override explicitly.
type Options struct {
	// IterationBound caps finalization passes before a compile is
	// declared non-convergent (spec §4.6). Zero means "use the
	// evaluator's own default" (1000).
	IterationBound int `validate:"gte=0"`

	// Autoload, if set, is consulted by the registry whenever a
	// reference names a class, defined type, or node it hasn't yet
	// indexed (spec §5's one autoload extension point).
	Autoload registry.AutoloadHook

	// FunctionResolvers are appended, in order, as the dispatcher's
	// fallback chain for names not covered by a core/iteration/EPP
	// builtin (spec §8's pluggable resolver backends).
	FunctionResolvers []functions.Resolver

	// Telemetry, if non-nil, is used to log, trace, and record metrics
	// for the compile. A nil Telemetry disables instrumentation
	// without requiring the caller to construct a no-op one.
	Telemetry *telemetry.Telemetry
}

// DefaultOptions returns an Options with the evaluator's default
// iteration bound and no autoload hook, resolvers, or telemetry.
func DefaultOptions() Options {
	return Options{IterationBound: 1000}
}

// Validate checks the options struct's tagged constraints.
func (o Options) Validate() error {
	return validate.Struct(o)
}
