package eval

import (
	"context"
	"strings"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/scope"
	"github.com/latticelang/lattice/pkg/value"
)

// Finalize drives the four-step deferred-work discharge to a fixed
// point (spec §4.6): collectors, then declared defined types, then
// overrides, repeating from the top while any of those three steps
// added work, bounded by Ctx.IterationBound; relationships are
// recorded last and never trigger another pass.
func (e *Evaluator) Finalize(ctx context.Context) error {
	_, err := e.FinalizeTrace(ctx, nil)
	return err
}

// PassReport summarizes one finalization pass's queue sizes before and
// after the three repeating steps, for callers that want to show their
// work (the explain-finalize command, chiefly) rather than just a
// converged/non-convergent verdict.
type PassReport struct {
	Pass               int
	CollectorsBefore   int
	CollectorsAfter    int
	DefinedTypesBefore int
	DefinedTypesAfter  int
	OverridesBefore    int
	OverridesAfter     int
}

// FinalizeTrace runs the same fixed-point loop as Finalize, invoking
// onPass (if non-nil) after each pass with that pass's before/after
// queue sizes, and returns the number of passes run.
func (e *Evaluator) FinalizeTrace(ctx context.Context, onPass func(PassReport)) (int, error) {
	c := e.Ctx
	converged := false
	passes := 0
	for i := 0; i < c.IterationBound; i++ {
		before := c.queueSizes()
		if err := e.finalizeCollectors(ctx); err != nil {
			return passes, err
		}
		if err := e.finalizeDefinedTypes(); err != nil {
			return passes, err
		}
		if err := e.finalizeOverrides(); err != nil {
			return passes, err
		}
		after := c.queueSizes()
		passes++
		if onPass != nil {
			onPass(PassReport{
				Pass:               passes,
				CollectorsBefore:   before.collectors,
				CollectorsAfter:    after.collectors,
				DefinedTypesBefore: before.definedTypes,
				DefinedTypesAfter:  after.definedTypes,
				OverridesBefore:    before.overrides,
				OverridesAfter:     after.overrides,
			})
		}
		if after == before {
			converged = true
			break
		}
	}
	if !converged {
		return passes, diagnostics.New(diagnostics.KindNonConvergent,
			"finalization did not converge within the iteration bound")
	}
	if err := e.checkUnsatisfiedOverrides(); err != nil {
		return passes, err
	}
	return passes, e.finalizeRelationships()
}

// checkUnsatisfiedOverrides runs once the fixed-point loop has converged:
// any override still unapplied at that point targets a resource nothing
// in this compile ever declared, which collectors reaching their own
// fixed point cannot change, so it is a user error rather than more work
// to defer (spec §4.6 step 3).
func (e *Evaluator) checkUnsatisfiedOverrides() error {
	for _, ov := range e.Ctx.overrides {
		if ov.applied {
			continue
		}
		return diagnostics.At(diagnostics.KindEvaluation, ov.Pos,
			"override targets "+ov.Key.String()+", which was never declared").WithSymbol(ov.Key.String())
	}
	return nil
}

// finalizeCollectors runs every queued collector's compiled predicate
// against every catalog resource of its type not yet matched by it,
// realizing (clearing the virtual flag of) each new match, wiring a
// containment edge to the collector's owner scope's resource, and
// applying the collector's own attribute overrides (spec §4.6 step 1).
func (e *Evaluator) finalizeCollectors(ctx context.Context) error {
	for _, item := range e.Ctx.collectors {
		compiled := e.compiled[item]
		if compiled == nil {
			continue
		}
		wantType := strings.ToLower(item.TypeName)
		for _, r := range e.Ctx.Catalog.All() {
			if r.Key.Type != wantType {
				continue
			}
			if item.matched[r.Key] {
				continue
			}
			if item.Exported {
				if !r.Exported {
					continue
				}
			} else if !r.Virtual {
				continue
			}
			ok, err := compiled.Matches(ctx, r)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			item.matched[r.Key] = true
			r.Virtual = false
			if r.Containment == "" && item.OwnerScope != nil && item.OwnerScope.Resource() != nil {
				r.Containment = item.OwnerScope.Resource().ResourceKey()
			}
			for _, attr := range item.Overrides {
				v, err := e.Eval(attr.Value)
				if err != nil {
					return err
				}
				op := attr.Op
				if op == "" {
					op = "=>"
				}
				if err := e.Ctx.Catalog.SetAttribute(r.Key, attr.Name, op, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// finalizeDefinedTypes walks the declared-defined-types queue with an
// index that monotonically advances, so a defined-type body that itself
// declares more defined types has its new entries picked up within the
// same pass (spec §4.6 step 2).
func (e *Evaluator) finalizeDefinedTypes() error {
	for i := 0; i < len(e.Ctx.definedTypes); i++ {
		if i > e.Ctx.IterationBound {
			return diagnostics.New(diagnostics.KindNonConvergent,
				"defined-type invocations kept appending new work past the iteration bound")
		}
		inv := e.Ctx.definedTypes[i]
		if inv.evaluated {
			continue
		}
		def, ok := e.Registry.FindDefinedType(inv.DefName)
		if !ok {
			return diagnostics.At(diagnostics.KindUndefinedSymbol, inv.Pos,
				"defined type "+inv.DefName+" is not declared anywhere in this compile").WithSymbol(inv.DefName)
		}
		if err := e.invokeDefinedType(def, inv); err != nil {
			return err
		}
		inv.evaluated = true
		e.applyImmediateOverrides(inv.Key)
	}
	return nil
}

// invokeDefinedType runs one defined-type body in a fresh scope parented
// under the scope that was active at its invocation site, binding the
// implicit $title/$name variables and every formal parameter first.
func (e *Evaluator) invokeDefinedType(def *ast.DefinedTypeDefinition, inv *DefinedTypeInvocation) error {
	parent := inv.ParentScope
	if parent == nil {
		parent = e.Ctx.TopScope()
	}
	prevStack := e.Ctx.scopeStack
	e.Ctx.scopeStack = []*scope.Scope{parent}
	defer func() { e.Ctx.scopeStack = prevStack }()

	_, guard := e.Ctx.PushScope(inv.Key.String(), inv.Resource)
	defer guard.Close()
	body := e.Ctx.CurrentScope()

	hasParam := func(name string) bool {
		for _, p := range def.Params {
			if p.Name == name {
				return true
			}
		}
		return false
	}
	if !hasParam("title") {
		_ = body.Set("title", value.Str(inv.Key.Title))
	}
	if !hasParam("name") {
		_ = body.Set("name", value.Str(inv.Key.Title))
	}
	for _, p := range def.Params {
		v, err := e.resolveParam(p, inv.Args)
		if err != nil {
			return err
		}
		if err := body.Set(p.Name, v); err != nil {
			return diagnostics.At(diagnostics.KindRedefinition, def.Pos(), err.Error()).WithSymbol(p.Name)
		}
	}
	_, err := e.EvalBlock(def.Body)
	return err
}

// finalizeOverrides applies every queued override whose target now
// exists in the catalog; an override whose target is still undeclared
// is left queued for the next pass. checkUnsatisfiedOverrides is what
// turns a still-queued override into a user error once the loop
// converges (spec §4.6 step 3).
func (e *Evaluator) finalizeOverrides() error {
	for _, ov := range e.Ctx.overrides {
		if ov.applied {
			continue
		}
		if _, ok := e.Ctx.Catalog.Find(ov.Key); !ok {
			continue
		}
		if err := e.applyOverride(ov); err != nil {
			return err
		}
	}
	return nil
}

// finalizeRelationships records every queued relationship as a catalog
// edge, resolving each source/target operand to its concrete resource
// keys (spec §4.6 step 4). Unlike steps 1-3 this never enqueues more
// work and so never triggers another pass.
func (e *Evaluator) finalizeRelationships() error {
	for _, rel := range e.Ctx.relationships {
		for _, src := range rel.Sources {
			if _, ok := e.Ctx.Catalog.Find(src); !ok {
				return diagnostics.At(diagnostics.KindEvaluation, rel.Pos,
					"relationship source "+src.String()+" does not resolve to a declared resource")
			}
			for _, tgt := range rel.Targets {
				if _, ok := e.Ctx.Catalog.Find(tgt); !ok {
					return diagnostics.At(diagnostics.KindEvaluation, rel.Pos,
						"relationship target "+tgt.String()+" does not resolve to a declared resource")
				}
				if err := e.Ctx.Catalog.AddEdge(rel.Kind, src, tgt); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// queueSizes snapshots the three queues a pass can grow, so Finalize
// can detect a fixed point.
type queueSizes struct {
	collectors, definedTypes, overrides int
}

func (c *Context) queueSizes() queueSizes {
	return queueSizes{len(c.collectors), len(c.definedTypes), len(c.overrides)}
}
