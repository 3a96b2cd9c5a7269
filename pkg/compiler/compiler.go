package compiler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/eval"
	"github.com/latticelang/lattice/pkg/functions"
	"github.com/latticelang/lattice/pkg/registry"
	"github.com/latticelang/lattice/pkg/telemetry"
	"github.com/latticelang/lattice/pkg/value"
)

// Request describes one compile: the node being compiled for, its
// facts, and the already-parsed source trees to evaluate (spec §1's
// non-goal excludes the parser itself — a caller hands in *ast.TopLevel
// trees it obtained however it likes).
type Request struct {
	// NodeName identifies the target (spec §5's node-scope resolution
	// key): matched against each source's node definitions.
	NodeName string `validate:"required"`

	// EnvironmentName scopes autoload and is exposed to evaluated code
	// as a fact-like read-only value.
	EnvironmentName string

	// Facts are the externally supplied top-scope variables (spec §6:
	// "Facts: supplied externally, read-only once bound"). A nil Facts
	// compiles with an empty fact set.
	Facts *value.Hash

	// Sources are the parsed manifests to import into the registry
	// before resolving NodeName.
	Sources []*ast.TopLevel `validate:"required,min=1"`
}

// Result is what a successful compile produces: the realized catalog
// plus identifying metadata for telemetry correlation.
type Result struct {
	CompileID string
	Catalog   *catalog.Catalog
}

// Compiler binds a registry and function dispatcher across repeated
// compiles, so that autoload caching and resolver setup cost is paid
// once per process rather than once per compile.
type Compiler struct {
	opts Options
	reg  *registry.Registry
	fns  *functions.Dispatcher
}

// New constructs a Compiler. opts.Validate is always called, and its
// error, if any, is returned wrapped before anything else is built.
func New(opts Options) (*Compiler, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler options: %w", err)
	}

	reg := registry.New(opts.Autoload)

	fns := functions.NewDispatcher()
	for _, r := range opts.FunctionResolvers {
		fns.AddResolver(r)
	}

	return &Compiler{opts: opts, reg: reg, fns: fns}, nil
}

// Compile imports req's sources, resolves its node, evaluates the
// matching node scope's body, and finalizes the resulting catalog
// (spec §4.6's declare/finalize lifecycle end to end).
func (c *Compiler) Compile(ctx context.Context, req Request) (*Result, error) {
	return c.compile(ctx, req, nil)
}

// CompileWithTrace behaves like Compile but invokes onPass after every
// finalization pass, for callers that want to narrate convergence
// rather than just receive a pass/fail verdict.
func (c *Compiler) CompileWithTrace(ctx context.Context, req Request, onPass func(eval.PassReport)) (*Result, error) {
	return c.compile(ctx, req, onPass)
}

func (c *Compiler) compile(ctx context.Context, req Request, onPass func(eval.PassReport)) (*Result, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid compile request: %w", err)
	}

	compileID := uuid.New().String()

	var tel *telemetry.Telemetry
	if c.opts.Telemetry != nil {
		tel = c.opts.Telemetry
		ctx = telemetry.WithCompileContext(ctx, compileID, req.NodeName)
		defer func() {
			tel.Metrics.SetActiveCompiles(0)
		}()
	}

	for _, src := range req.Sources {
		if err := c.reg.Import(src); err != nil {
			c.endCompile(ctx, tel, compileID, err)
			return nil, err
		}
	}

	def, ok := c.reg.FindNode(req.NodeName)
	if !ok {
		err := diagnostics.New(diagnostics.KindUndefinedSymbol,
			fmt.Sprintf("no node definition matches %q", req.NodeName))
		c.endCompile(ctx, tel, compileID, err)
		return nil, err
	}

	cat := catalog.New()
	sink := c.sink()
	n := &node{name: req.NodeName, facts: req.Facts, environmentName: req.EnvironmentName}
	evCtx := eval.NewContext(n, cat, sink)
	if c.opts.IterationBound > 0 {
		evCtx.IterationBound = c.opts.IterationBound
	}

	nodeGuard := evCtx.PushNodeScope(evCtx.TopScope())
	defer nodeGuard.Close()

	evaluator := eval.NewEvaluator(evCtx, c.reg, c.fns)
	if _, err := evaluator.EvalBlock(def.Body); err != nil {
		c.endCompile(ctx, tel, compileID, err)
		return nil, err
	}

	if _, err := evaluator.FinalizeTrace(ctx, onPass); err != nil {
		if tel != nil {
			tel.Metrics.RecordNonConvergent(req.NodeName)
			_ = tel.Events.PublishNonConvergent(compileID, evCtx.IterationBound)
		}
		c.endCompile(ctx, tel, compileID, err)
		return nil, err
	}

	result := &Result{CompileID: compileID, Catalog: cat}
	telemetry.EndCompileContext(ctx, compileID, "succeeded", len(cat.All()), nil)
	return result, nil
}

func (c *Compiler) endCompile(ctx context.Context, tel *telemetry.Telemetry, compileID string, err error) {
	if tel == nil {
		return
	}
	telemetry.EndCompileContext(ctx, compileID, "failed", 0, err)
}

func (c *Compiler) sink() diagnostics.Sink {
	if c.opts.Telemetry != nil {
		return diagnostics.NewZerologSink(c.opts.Telemetry.Logger.Zerolog())
	}
	return diagnostics.NewZerologSink(zerolog.Nop())
}
