package registry

import (
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
)

func classTree(name string) *ast.TopLevel {
	return &ast.TopLevel{
		Classes: []*ast.ClassDefinition{{Name: name}},
	}
}

func TestImportAndFindClass(t *testing.T) {
	r := New(nil)
	if err := r.Import(classTree("webserver")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := r.FindClass("webserver")
	if !ok {
		t.Fatal("expected to find class")
	}
	if c.Name != "webserver" {
		t.Errorf("Name = %q, want webserver", c.Name)
	}
}

func TestDuplicateClassIsRedefinitionError(t *testing.T) {
	r := New(nil)
	_ = r.Import(classTree("webserver"))
	err := r.Import(classTree("webserver"))
	if err == nil {
		t.Fatal("expected redefinition error")
	}
}

func TestFindNodePrefersExactThenLongestRegexThenDefault(t *testing.T) {
	r := New(nil)
	exact := &ast.NodeDefinition{Matchers: []ast.NodeMatcher{{Kind: ast.NodeMatcherExact, Pattern: "web01.example.com"}}}
	regexShort := &ast.NodeDefinition{Matchers: []ast.NodeMatcher{{Kind: ast.NodeMatcherRegex, Pattern: "^web"}}}
	regexLong := &ast.NodeDefinition{Matchers: []ast.NodeMatcher{{Kind: ast.NodeMatcherRegex, Pattern: "^web\\d+\\.example\\.com$"}}}
	def := &ast.NodeDefinition{Matchers: []ast.NodeMatcher{{Kind: ast.NodeMatcherDefault}}}

	for _, tree := range []*ast.TopLevel{
		{Nodes: []*ast.NodeDefinition{exact}},
		{Nodes: []*ast.NodeDefinition{regexShort}},
		{Nodes: []*ast.NodeDefinition{regexLong}},
		{Nodes: []*ast.NodeDefinition{def}},
	} {
		if err := r.Import(tree); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if n, ok := r.FindNode("web01.example.com"); !ok || n != exact {
		t.Error("expected exact match to win for web01.example.com")
	}
	if n, ok := r.FindNode("web02.example.com"); !ok || n != regexLong {
		t.Error("expected longest regex match to win for web02.example.com")
	}
	if n, ok := r.FindNode("db01.example.com"); !ok || n != def {
		t.Error("expected default node for db01.example.com")
	}
}

type stubAutoload struct {
	trees map[string]*ast.TopLevel
}

func (s stubAutoload) Autoload(name string) (*ast.TopLevel, bool) {
	t, ok := s.trees[name]
	return t, ok
}

func TestAutoloadHookResolvesMissingClass(t *testing.T) {
	r := New(stubAutoload{trees: map[string]*ast.TopLevel{
		"profile::base": classTree("profile::base"),
	}})
	c, ok := r.FindClass("profile::base")
	if !ok {
		t.Fatal("expected autoload hook to resolve class")
	}
	if c.Name != "profile::base" {
		t.Errorf("Name = %q", c.Name)
	}
}
