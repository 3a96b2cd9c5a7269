package functions

import (
	"fmt"
	"time"

	"go.starlark.net/starlark"

	"github.com/latticelang/lattice/pkg/value"
)

// StarlarkResolver resolves autoloaded functions backed by Starlark
// scripts: each script is expected to define a top-level function whose
// name matches the DSL function name it implements, taking and
// returning the same JSON-like value shapes pkg/value models (spec §8's
// Starlark function-resolver backend, grounded on the teacher's
// config.StarlarkEvaluator).
type StarlarkResolver struct {
	scripts map[string]string // function name -> Starlark source
	timeout time.Duration
}

// NewStarlarkResolver creates a resolver with no scripts loaded yet.
func NewStarlarkResolver(timeout time.Duration) *StarlarkResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StarlarkResolver{scripts: make(map[string]string), timeout: timeout}
}

// LoadScript registers name's implementation, given as a Starlark source
// string defining a function called name.
func (r *StarlarkResolver) LoadScript(name, source string) {
	r.scripts[name] = source
}

// Resolve implements Resolver.
func (r *StarlarkResolver) Resolve(name string) (Func, bool) {
	source, ok := r.scripts[name]
	if !ok {
		return nil, false
	}
	return func(args []value.Value) (value.Value, error) {
		return r.call(name, source, args)
	}, true
}

func (r *StarlarkResolver) call(name, source string, args []value.Value) (value.Value, error) {
	thread := &starlark.Thread{
		Name:  name,
		Print: func(*starlark.Thread, string) {},
	}

	globals, err := starlark.ExecFile(thread, name+".star", source, nil)
	if err != nil {
		return value.Value{}, fmt.Errorf("starlark function %q failed to load: %w", name, err)
	}
	fn, ok := globals[name]
	if !ok {
		return value.Value{}, fmt.Errorf("starlark script for %q does not define a function named %q", name, name)
	}

	starlarkArgs := make(starlark.Tuple, len(args))
	for i, a := range args {
		sv, err := toStarlark(a)
		if err != nil {
			return value.Value{}, fmt.Errorf("function %q argument %d: %w", name, i, err)
		}
		starlarkArgs[i] = sv
	}

	result, err := starlark.Call(thread, fn, starlarkArgs, nil)
	if err != nil {
		return value.Value{}, fmt.Errorf("function %q failed: %w", name, err)
	}
	return fromStarlark(result)
}

// toStarlark converts a runtime Value into its Starlark equivalent.
func toStarlark(v value.Value) (starlark.Value, error) {
	v = v.Deref()
	switch v.Kind() {
	case value.Undef:
		return starlark.None, nil
	case value.Boolean:
		return starlark.Bool(v.AsBool()), nil
	case value.Integer:
		return starlark.MakeInt64(v.AsInt()), nil
	case value.Float:
		return starlark.Float(v.AsFloat()), nil
	case value.String:
		return starlark.String(v.AsString()), nil
	case value.ArrayKind:
		elems := v.AsArray().Elements()
		list := make([]starlark.Value, len(elems))
		for i, e := range elems {
			sv, err := toStarlark(e)
			if err != nil {
				return nil, err
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil
	case value.HashKind:
		dict := starlark.NewDict(v.AsHash().Len())
		var convErr error
		v.AsHash().Each(func(k, val value.Value) {
			if convErr != nil {
				return
			}
			sv, err := toStarlark(val)
			if err != nil {
				convErr = err
				return
			}
			if err := dict.SetKey(starlark.String(k.Display()), sv); err != nil {
				convErr = err
			}
		})
		if convErr != nil {
			return nil, convErr
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("cannot convert %s to a starlark value", v.Kind())
	}
}

// fromStarlark converts a Starlark result back into a runtime Value.
func fromStarlark(v starlark.Value) (value.Value, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return value.Undefined(), nil
	case starlark.Bool:
		return value.Bool(bool(val)), nil
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			return value.Value{}, fmt.Errorf("starlark integer result too large")
		}
		return value.Int(i), nil
	case starlark.Float:
		return value.Float64(float64(val)), nil
	case starlark.String:
		return value.Str(string(val)), nil
	case *starlark.List:
		elems := make([]value.Value, val.Len())
		for i := 0; i < val.Len(); i++ {
			e, err := fromStarlark(val.Index(i))
			if err != nil {
				return value.Value{}, err
			}
			elems[i] = e
		}
		return value.Arr(value.NewArray(elems)), nil
	case *starlark.Dict:
		h := value.NewHash()
		for _, item := range val.Items() {
			k, err := fromStarlark(item[0])
			if err != nil {
				return value.Value{}, err
			}
			vv, err := fromStarlark(item[1])
			if err != nil {
				return value.Value{}, err
			}
			h.Set(k, vv)
		}
		return value.HashVal(h), nil
	default:
		return value.Value{}, fmt.Errorf("unsupported starlark result type %s", v.Type())
	}
}
