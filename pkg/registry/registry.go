// Package registry indexes the class, defined-type, and node
// declarations discovered across a compile's source set, and resolves
// references to them during evaluation (spec §5's "Registry" module).
// It owns no parsing: Import consumes already-parsed *ast.TopLevel
// trees handed to it by an external collaborator.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
)

// AutoloadHook is consulted when a reference names a class, defined
// type, or function the registry has not yet indexed. It is the only
// extension point the core offers for module autoload policy (spec §5's
// "module autoload policy beyond this hook" non-goal) — the core defines
// the call signature and invokes it at the right moment, nothing more.
type AutoloadHook interface {
	// Autoload is given the unresolved name and should return a parsed
	// *ast.TopLevel containing its definition, or ok=false if it has
	// none to offer.
	Autoload(name string) (tree *ast.TopLevel, ok bool)
}

// noopAutoload is the zero-value hook: it never resolves anything.
type noopAutoload struct{}

func (noopAutoload) Autoload(string) (*ast.TopLevel, bool) { return nil, false }

// Registry indexes class, defined-type, and node declarations by name
// (or, for nodes, by matcher) across every *ast.TopLevel imported into a
// single compile.
type Registry struct {
	classes       map[string]*ast.ClassDefinition
	definedTypes  map[string]*ast.DefinedTypeDefinition
	exactNodes    map[string]*ast.NodeDefinition
	regexNodes    []regexNodeEntry
	defaultNode   *ast.NodeDefinition
	autoload      AutoloadHook
	sources       []*ast.TopLevel
}

type regexNodeEntry struct {
	re  *regexp.Regexp
	def *ast.NodeDefinition
}

// New creates an empty registry. hook may be nil, in which case
// unresolved references never autoload.
func New(hook AutoloadHook) *Registry {
	if hook == nil {
		hook = noopAutoload{}
	}
	return &Registry{
		classes:      make(map[string]*ast.ClassDefinition),
		definedTypes: make(map[string]*ast.DefinedTypeDefinition),
		exactNodes:   make(map[string]*ast.NodeDefinition),
		autoload:     hook,
	}
}

// Import indexes every class, defined-type, and node declaration in
// tree. It fails with a redefinition diagnostic on a duplicate
// class/defined-type name or duplicate node matcher (spec §5:
// "A class/defined type name is singular across the whole compile").
func (r *Registry) Import(tree *ast.TopLevel) error {
	for _, c := range tree.Classes {
		key := normalizeName(c.Name)
		if existing, ok := r.classes[key]; ok {
			return diagnostics.At(diagnostics.KindRedefinition, c.Pos(),
				fmt.Sprintf("class %q already declared at %s", c.Name, existing.Pos())).
				WithSymbol(c.Name)
		}
		r.classes[key] = c
	}
	for _, d := range tree.DefinedTypes {
		key := normalizeName(d.Name)
		if existing, ok := r.definedTypes[key]; ok {
			return diagnostics.At(diagnostics.KindRedefinition, d.Pos(),
				fmt.Sprintf("defined type %q already declared at %s", d.Name, existing.Pos())).
				WithSymbol(d.Name)
		}
		r.definedTypes[key] = d
	}
	for _, n := range tree.Nodes {
		if err := r.importNode(n); err != nil {
			return err
		}
	}
	r.sources = append(r.sources, tree)
	return nil
}

func (r *Registry) importNode(n *ast.NodeDefinition) error {
	for _, m := range n.Matchers {
		switch m.Kind {
		case ast.NodeMatcherDefault:
			if r.defaultNode != nil {
				return diagnostics.At(diagnostics.KindRedefinition, n.Pos(),
					"default node already declared")
			}
			r.defaultNode = n
		case ast.NodeMatcherExact:
			key := strings.ToLower(m.Pattern)
			if _, ok := r.exactNodes[key]; ok {
				return diagnostics.At(diagnostics.KindRedefinition, n.Pos(),
					fmt.Sprintf("node %q already declared", m.Pattern)).WithSymbol(m.Pattern)
			}
			r.exactNodes[key] = n
		case ast.NodeMatcherRegex:
			re, err := regexp.Compile(m.Pattern)
			if err != nil {
				return diagnostics.At(diagnostics.KindParse, n.Pos(),
					fmt.Sprintf("invalid node regex %q: %v", m.Pattern, err))
			}
			r.regexNodes = append(r.regexNodes, regexNodeEntry{re: re, def: n})
		}
	}
	return nil
}

// FindClass resolves name to its declaration, consulting the autoload
// hook (and indexing whatever it returns) on a miss.
func (r *Registry) FindClass(name string) (*ast.ClassDefinition, bool) {
	key := normalizeName(name)
	if c, ok := r.classes[key]; ok {
		return c, true
	}
	if r.tryAutoload(name) {
		c, ok := r.classes[key]
		return c, ok
	}
	return nil, false
}

// FindDefinedType resolves name to its declaration, consulting the
// autoload hook on a miss.
func (r *Registry) FindDefinedType(name string) (*ast.DefinedTypeDefinition, bool) {
	key := normalizeName(name)
	if d, ok := r.definedTypes[key]; ok {
		return d, true
	}
	if r.tryAutoload(name) {
		d, ok := r.definedTypes[key]
		return d, ok
	}
	return nil, false
}

// FindNode resolves hostname to the node declaration that applies to
// it: an exact match wins, then the longest-matching regex, then the
// default node, per spec §5's node-resolution rule.
func (r *Registry) FindNode(hostname string) (*ast.NodeDefinition, bool) {
	if n, ok := r.exactNodes[strings.ToLower(hostname)]; ok {
		return n, true
	}
	var best *regexNodeEntry
	for i := range r.regexNodes {
		entry := &r.regexNodes[i]
		if !entry.re.MatchString(hostname) {
			continue
		}
		if best == nil || len(entry.re.String()) > len(best.re.String()) {
			best = entry
		}
	}
	if best != nil {
		return best.def, true
	}
	if r.defaultNode != nil {
		return r.defaultNode, true
	}
	return nil, false
}

// ClassNames returns every registered class name, sorted, for
// diagnostics and introspection.
func (r *Registry) ClassNames() []string {
	names := make([]string, 0, len(r.classes))
	for _, c := range r.classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) tryAutoload(name string) bool {
	tree, ok := r.autoload.Autoload(name)
	if !ok || tree == nil {
		return false
	}
	return r.Import(tree) == nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, "::"))
}
