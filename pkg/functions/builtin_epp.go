package functions

import "github.com/latticelang/lattice/pkg/value"

func registerEppBuiltins(d *Dispatcher) {
	d.Register("inline_epp", biInlineEpp)
}

// inline_epp(template[, params]) renders an EPP template string given as
// a literal argument (as opposed to a file loaded from a module's
// templates/ directory, which is an autoload-policy concern this core
// does not implement), against an optional parameter Hash (spec's
// Supplemented Features: inline_epp()).
func biInlineEpp(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) == 0 || args[0].Deref().Kind() != value.String {
		return value.Value{}, ctx.TypeError("inline_epp() requires a String template argument")
	}
	if ctx.RenderEpp == nil {
		return value.Value{}, ctx.EvalError("inline_epp() is unavailable: no EPP renderer configured")
	}

	params := make(map[string]value.Value)
	if len(args) > 1 {
		h := args[1].Deref()
		if h.Kind() != value.HashKind {
			return value.Value{}, ctx.TypeError("inline_epp()'s second argument must be a Hash")
		}
		h.AsHash().Each(func(k, v value.Value) {
			params[k.Display()] = v
		})
	}

	rendered, err := ctx.RenderEpp(args[0].Deref().AsString(), params)
	if err != nil {
		return value.Value{}, ctx.EvalError("inline_epp(): %v", err)
	}
	return value.Str(rendered), nil
}
