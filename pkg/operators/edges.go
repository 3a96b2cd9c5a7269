package operators

import (
	"fmt"

	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/diagnostics"
)

// EdgeDirective describes one "->"/"~>"/"<-"/"<~" chained-arrow edge
// expression's resolved (kind, source, target) triple (spec §4.7,
// §5(e)). The parser hands the evaluator a BinaryExpr with the arrow as
// Op; ResolveEdge turns that into concrete Edges to add to the catalog.
// "<-" and "<~" are the left-pointing spellings of "->" and "~>": they
// carry the same ordering/notify semantics with source and target
// swapped, not a distinct relationship kind (that distinction belongs to
// the require/subscribe resource metaparameters, tracked separately as
// catalog.RelRequire/RelSubscribe).
func ResolveEdge(op string, leftKeys, rightKeys []catalog.Key) ([]catalog.Edge, error) {
	var kind catalog.RelationshipKind
	var source, target []catalog.Key
	switch op {
	case "->":
		kind, source, target = catalog.RelBefore, leftKeys, rightKeys
	case "~>":
		kind, source, target = catalog.RelNotify, leftKeys, rightKeys
	case "<-":
		kind, source, target = catalog.RelBefore, rightKeys, leftKeys
	case "<~":
		kind, source, target = catalog.RelNotify, rightKeys, leftKeys
	default:
		return nil, diagnostics.New(diagnostics.KindInternal, fmt.Sprintf("unknown edge operator %q", op))
	}
	edges := make([]catalog.Edge, 0, len(source)*len(target))
	for _, s := range source {
		for _, t := range target {
			edges = append(edges, catalog.Edge{Kind: kind, Source: s, Target: t})
		}
	}
	return edges, nil
}
