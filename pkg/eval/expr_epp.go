package eval

import (
	"regexp"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/diagnostics"
	"github.com/latticelang/lattice/pkg/value"
)

// evalEppRender implements an EPP render expression (spec §4.7, §5(iv)):
// the template has already been parsed into text/expression segments by
// the external parser (this core owns no template grammar, per the
// surface-syntax non-goal), so evaluation is just interleaving literal
// text with evaluated embedded-expression results into the active
// output stream.
func (e *Evaluator) evalEppRender(n *ast.EppRenderExpr) (value.Value, error) {
	if !e.Ctx.InEpp() {
		return value.Value{}, diagnostics.At(diagnostics.KindEvaluation, n.Pos(), "epp-not-allowed")
	}
	for _, seg := range n.Segments {
		if seg.Expr == nil {
			text := seg.Text
			if seg.TrimLeft {
				text = trimLeadingSpace(text)
			}
			if seg.TrimRight {
				text = trimTrailingSpace(text)
			}
			e.Ctx.WriteEpp(text)
			continue
		}
		v, err := e.Eval(seg.Expr)
		if err != nil {
			return value.Value{}, err
		}
		e.Ctx.WriteEpp(v.Display())
	}
	return value.Undefined(), nil
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return s[i:]
}

func trimTrailingSpace(s string) string {
	i := len(s)
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t' || s[i-1] == '\n') {
		i--
	}
	return s[:i]
}

var eppPlaceholder = regexp.MustCompile(`<%=\s*\$([A-Za-z_][A-Za-z0-9_]*)\s*%>`)

// renderEpp backs FunctionCallContext.RenderEpp for inline_epp(): since
// the template here arrives as a raw string (not a pre-parsed
// EppRenderExpr), and this core has no expression parser to turn
// embedded code back into an AST, it supports only bare variable
// interpolation ("<%= $name %>"), not arbitrary embedded expressions.
func (e *Evaluator) renderEpp(template string, params map[string]value.Value) (string, error) {
	out := eppPlaceholder.ReplaceAllStringFunc(template, func(match string) string {
		sub := eppPlaceholder.FindStringSubmatch(match)
		name := sub[1]
		if v, ok := params[name]; ok {
			return v.Display()
		}
		return e.Ctx.CurrentScope().Get(name).Display()
	})
	return out, nil
}
