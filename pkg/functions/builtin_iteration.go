package functions

import "github.com/latticelang/lattice/pkg/value"

func registerIterationBuiltins(d *Dispatcher) {
	d.Register("each", biEach)
	d.Register("map", biMap)
	d.Register("filter", biFilter)
	d.Register("reduce", biReduce)
}

// lambdaArgs builds the argument list for one iteration step: a 1-arg
// lambda receives just the element, a 2-arg lambda receives (index/key,
// element) — the index for String/Integer/Array enumeration, the key
// for Hash enumeration (spec's "1-arg vs 2-arg lambda arity" rule for
// each/map/filter over Enumerable values).
func lambdaArgs(arity int, idx int, key, val value.Value) []value.Value {
	if arity <= 1 {
		return []value.Value{val}
	}
	if key.Kind() == value.Undef {
		return []value.Value{value.Int(int64(idx)), val}
	}
	return []value.Value{key, val}
}

func requireLambda(ctx *FunctionCallContext, name string) error {
	if !ctx.HasLambda {
		return ctx.TypeError("%s() requires a block", name)
	}
	return nil
}

// each(enumerable) |...| {...} invokes the block for every element and
// returns the original value unchanged (spec §4.5, §4.8).
func biEach(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ctx.TypeError("each() requires exactly 1 argument, got %d", len(args))
	}
	if err := requireLambda(ctx, "each"); err != nil {
		return value.Value{}, err
	}
	var iterErr error
	args[0].Enumerate(func(idx int, key, val value.Value) bool {
		if _, err := ctx.Lambda(lambdaArgs(ctx.LambdaArity, idx, key, val)); err != nil {
			iterErr = err
			return false
		}
		return true
	})
	if iterErr != nil {
		return value.Value{}, iterErr
	}
	return args[0], nil
}

// map(enumerable) |...| {...} returns a new Array of the block's return
// value for every element.
func biMap(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ctx.TypeError("map() requires exactly 1 argument, got %d", len(args))
	}
	if err := requireLambda(ctx, "map"); err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	var iterErr error
	args[0].Enumerate(func(idx int, key, val value.Value) bool {
		result, err := ctx.Lambda(lambdaArgs(ctx.LambdaArity, idx, key, val))
		if err != nil {
			iterErr = err
			return false
		}
		out = append(out, result)
		return true
	})
	if iterErr != nil {
		return value.Value{}, iterErr
	}
	return value.Arr(value.NewArray(out)), nil
}

// filter(enumerable) |...| {...} returns a new Array/Hash of elements
// for which the block's result was truthy.
func biFilter(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ctx.TypeError("filter() requires exactly 1 argument, got %d", len(args))
	}
	if err := requireLambda(ctx, "filter"); err != nil {
		return value.Value{}, err
	}
	subject := args[0].Deref()
	var iterErr error

	if subject.Kind() == value.HashKind {
		out := value.NewHash()
		subject.Enumerate(func(idx int, key, val value.Value) bool {
			keep, err := ctx.Lambda(lambdaArgs(ctx.LambdaArity, idx, key, val))
			if err != nil {
				iterErr = err
				return false
			}
			if keep.Truthy() {
				out.Set(key, val)
			}
			return true
		})
		if iterErr != nil {
			return value.Value{}, iterErr
		}
		return value.HashVal(out), nil
	}

	var out []value.Value
	subject.Enumerate(func(idx int, key, val value.Value) bool {
		keep, err := ctx.Lambda(lambdaArgs(ctx.LambdaArity, idx, key, val))
		if err != nil {
			iterErr = err
			return false
		}
		if keep.Truthy() {
			out = append(out, val)
		}
		return true
	})
	if iterErr != nil {
		return value.Value{}, iterErr
	}
	return value.Arr(value.NewArray(out)), nil
}

// reduce(enumerable[, init]) |memo, value| {...} folds the block over
// every element, seeding memo with init if given or the first element
// otherwise.
func biReduce(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return value.Value{}, ctx.TypeError("reduce() requires 1 or 2 arguments, got %d", len(args))
	}
	if err := requireLambda(ctx, "reduce"); err != nil {
		return value.Value{}, err
	}

	var memo value.Value
	haveMemo := false
	if len(args) == 2 {
		memo = args[1]
		haveMemo = true
	}

	var iterErr error
	args[0].Enumerate(func(_ int, _, val value.Value) bool {
		if !haveMemo {
			memo = val
			haveMemo = true
			return true
		}
		result, err := ctx.Lambda([]value.Value{memo, val})
		if err != nil {
			iterErr = err
			return false
		}
		memo = result
		return true
	})
	if iterErr != nil {
		return value.Value{}, iterErr
	}
	if !haveMemo {
		return value.Undefined(), nil
	}
	return memo, nil
}
