package functions

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// Builtin is a function implemented natively by this package.
type Builtin func(ctx *FunctionCallContext, args []value.Value) (value.Value, error)

// Func is an autoloaded function resolved by a Resolver: simpler than
// Builtin because autoloaded functions never receive a trailing lambda
// block (spec's Supplemented Features: block-taking iteration is a
// closed, builtin-only set).
type Func func(args []value.Value) (value.Value, error)

// Resolver looks up a function by name outside the builtin table (spec
// §8's function-resolver backends: Starlark, WASM).
type Resolver interface {
	Resolve(name string) (Func, bool)
}

// Dispatcher holds the builtin table plus an ordered chain of fallback
// Resolvers consulted on a miss.
type Dispatcher struct {
	builtins  map[string]Builtin
	resolvers []Resolver
}

// NewDispatcher creates a Dispatcher preloaded with every core,
// iteration, and EPP builtin.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{builtins: make(map[string]Builtin)}
	registerCoreBuiltins(d)
	registerIterationBuiltins(d)
	registerEppBuiltins(d)
	return d
}

// Register adds or overrides a builtin. Exposed so a host can extend the
// table without going through the Resolver fallback path.
func (d *Dispatcher) Register(name string, fn Builtin) {
	d.builtins[name] = fn
}

// AddResolver appends a fallback resolver, consulted in the order added.
func (d *Dispatcher) AddResolver(r Resolver) {
	d.resolvers = append(d.resolvers, r)
}

// Call dispatches name(args) against the builtin table, then each
// resolver in order, returning an undefined-symbol diagnostic if none
// claim it.
func (d *Dispatcher) Call(ctx *FunctionCallContext, name string, args []value.Value) (value.Value, error) {
	if fn, ok := d.builtins[name]; ok {
		return fn(ctx, args)
	}
	for _, r := range d.resolvers {
		if fn, ok := r.Resolve(name); ok {
			return fn(args)
		}
	}
	return value.Value{}, diagnostics.At(diagnostics.KindUndefinedSymbol, ctx.Pos,
		fmt.Sprintf("unknown function %q", name)).WithSymbol(name)
}

// Has reports whether name is registered as a builtin or resolvable by
// any attached resolver, without invoking it.
func (d *Dispatcher) Has(name string) bool {
	if _, ok := d.builtins[name]; ok {
		return true
	}
	for _, r := range d.resolvers {
		if _, ok := r.Resolve(name); ok {
			return true
		}
	}
	return false
}
