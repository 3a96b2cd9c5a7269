package compiler

import "github.com/latticelang/lattice/pkg/value"

// node is the compiler's own implementation of eval.Node: the identity
// and fact set a compile is bound to. Compile builds one from a Request
// so the evaluator sees only the eval.Node interface.
type node struct {
	name            string
	facts           *value.Hash
	environmentName string
}

func (n *node) Name() string            { return n.name }
func (n *node) Facts() *value.Hash      { return n.facts }
func (n *node) EnvironmentName() string { return n.environmentName }
