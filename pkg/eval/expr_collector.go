package eval

import (
	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/value"
)

// evalCollectorExpr implements "Type <| predicate |>" / "Type <<| predicate |>>"
// (spec §4.4, §4.7): it compiles the predicate once and enqueues a
// CollectorItem; realization against catalog resources happens entirely
// in Finalize, since a virtual resource the predicate matches may not
// exist yet at the point the collector expression itself is evaluated.
func (e *Evaluator) evalCollectorExpr(n *ast.CollectorExpr) (value.Value, error) {
	compiled, err := e.Collector.Compile(n.Predicate)
	if err != nil {
		return value.Value{}, err
	}

	item := &CollectorItem{
		TypeName:   n.TypeName,
		Exported:   n.Exported,
		Predicate:  n.Predicate,
		Overrides:  n.Overrides,
		OwnerScope: e.Ctx.CurrentScope(),
		Pos:        n.Pos(),
	}
	e.compiled[item] = compiled
	e.Ctx.EnqueueCollector(item)
	return value.Undefined(), nil
}
