package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/value"
)

// loadFacts reads a flat JSON object of facts from path. An empty path
// returns a small built-in fact set so the demo commands work with no
// setup.
func loadFacts(path string) (*value.Hash, error) {
	if path == "" {
		facts := value.NewHash()
		facts.Set(value.Str("os"), value.Str("linux"))
		facts.Set(value.Str("hostname"), value.Str(nodeName))
		return facts, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facts file: %w", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("parsing facts JSON: %w", err)
	}

	facts := value.NewHash()
	for k, v := range decoded {
		fv, err := jsonToValue(v)
		if err != nil {
			return nil, fmt.Errorf("fact %q: %w", k, err)
		}
		facts.Set(value.Str(k), fv)
	}
	return facts, nil
}

func jsonToValue(v any) (value.Value, error) {
	switch x := v.(type) {
	case nil:
		return value.Undefined(), nil
	case bool:
		return value.Bool(x), nil
	case string:
		return value.Str(x), nil
	case float64:
		if x == float64(int64(x)) {
			return value.Int(int64(x)), nil
		}
		return value.Float64(x), nil
	case []any:
		elems := make([]value.Value, len(x))
		for i, e := range x {
			ev, err := jsonToValue(e)
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = ev
		}
		return value.Arr(value.NewArray(elems)), nil
	case map[string]any:
		h := value.NewHash()
		for k, e := range x {
			ev, err := jsonToValue(e)
			if err != nil {
				return value.Value{}, err
			}
			h.Set(value.Str(k), ev)
		}
		return value.HashVal(h), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported JSON value %T", v)
	}
}

// demoProgram builds a small in-process manifest: a "motd" class taking
// a $content parameter, declared by a default node, realizing one File
// resource. It stands in for what a real parser would hand pkg/compiler
// after reading a .lattice source file.
func demoProgram() *ast.TopLevel {
	motdClass := &ast.ClassDefinition{
		Name: "motd",
		Params: []ast.Parameter{
			{
				Name:    "content",
				Default: ast.NewLiteral(ast.Position{}, value.Str("managed by latticec\n")),
			},
		},
		Body: []ast.Expression{
			&ast.ResourceExpr{
				TypeName: "File",
				Instances: []ast.ResourceInstance{
					{
						Title: ast.NewLiteral(ast.Position{}, value.Str("/etc/motd")),
						Attributes: []ast.ResourceAttribute{
							{Name: "ensure", Op: "=>", Value: ast.NewLiteral(ast.Position{}, value.Str("present"))},
							{Name: "content", Op: "=>", Value: &ast.VariableExpr{Name: "content"}},
						},
					},
				},
			},
		},
	}

	defaultNode := &ast.NodeDefinition{
		Matchers: []ast.NodeMatcher{{Kind: ast.NodeMatcherDefault}},
		Body: []ast.Expression{
			&ast.ResourceExpr{
				TypeName: "Class",
				Instances: []ast.ResourceInstance{
					{Title: ast.NewLiteral(ast.Position{}, value.Str("motd"))},
				},
			},
		},
	}

	return &ast.TopLevel{
		Classes: []*ast.ClassDefinition{motdClass},
		Nodes:   []*ast.NodeDefinition{defaultNode},
	}
}
