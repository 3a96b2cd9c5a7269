package functions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/latticelang/lattice/pkg/value"
)

// WASMResolver resolves autoloaded functions backed by a WASM module:
// each DSL function name must be exported from the module under the
// same name, taking (input_ptr, input_len uint32) and returning a
// packed (output_ptr<<32 | output_len) uint64, with arguments and result
// marshaled as JSON — the same calling convention the teacher's
// WASMBridge uses for provider calls, reused here for pure function
// calls (spec §8's WASM function-resolver backend).
type WASMResolver struct {
	runtime wazero.Runtime
	module  api.Module
	memory  api.Memory
	malloc  api.Function
	free    api.Function
	timeout time.Duration
	names   map[string]bool
}

// NewWASMResolver instantiates wasmBinary as a WASI module and indexes
// its exported functions (other than malloc/free/_start and WASI
// imports) as resolvable DSL function names.
func NewWASMResolver(ctx context.Context, wasmBinary []byte, timeout time.Duration) (*WASMResolver, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	runtime := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	compiled, err := runtime.CompileModule(ctx, wasmBinary)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("failed to compile WASM module: %w", err)
	}

	module, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASM module: %w", err)
	}

	memory := module.Memory()
	if memory == nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("WASM module does not export memory")
	}
	malloc := module.ExportedFunction("malloc")
	free := module.ExportedFunction("free")
	if malloc == nil || free == nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("WASM module does not export malloc/free")
	}

	names := make(map[string]bool)
	for exportName := range compiled.ExportedFunctions() {
		if exportName == "malloc" || exportName == "free" || exportName == "_start" || exportName == "memory" {
			continue
		}
		names[exportName] = true
	}

	return &WASMResolver{
		runtime: runtime,
		module:  module,
		memory:  memory,
		malloc:  malloc,
		free:    free,
		timeout: timeout,
		names:   names,
	}, nil
}

// Close releases the underlying wazero runtime.
func (r *WASMResolver) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Resolve implements Resolver.
func (r *WASMResolver) Resolve(name string) (Func, bool) {
	if !r.names[name] {
		return nil, false
	}
	return func(args []value.Value) (value.Value, error) {
		return r.call(name, args)
	}, true
}

func (r *WASMResolver) call(name string, args []value.Value) (value.Value, error) {
	raw := make([]any, len(args))
	for i, a := range args {
		jv, err := valueToJSON(a)
		if err != nil {
			return value.Value{}, fmt.Errorf("function %q argument %d: %w", name, i, err)
		}
		raw[i] = jv
	}
	input, err := json.Marshal(raw)
	if err != nil {
		return value.Value{}, fmt.Errorf("function %q: failed to marshal arguments: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	fn := r.module.ExportedFunction(name)
	output, err := r.invoke(ctx, fn, input)
	if err != nil {
		return value.Value{}, fmt.Errorf("function %q: %w", name, err)
	}

	var result any
	if err := json.Unmarshal(output, &result); err != nil {
		return value.Value{}, fmt.Errorf("function %q: failed to unmarshal result: %w", name, err)
	}
	return jsonToValue(result), nil
}

func (r *WASMResolver) invoke(ctx context.Context, fn api.Function, input []byte) ([]byte, error) {
	var inputPtr, inputLen uint32
	if len(input) > 0 {
		results, err := r.malloc.Call(ctx, uint64(len(input)))
		if err != nil {
			return nil, fmt.Errorf("malloc failed: %w", err)
		}
		inputPtr = uint32(results[0])
		inputLen = uint32(len(input))
		defer r.free.Call(ctx, uint64(inputPtr))

		if !r.memory.Write(inputPtr, input) {
			return nil, fmt.Errorf("failed to write input into WASM memory")
		}
	}

	results, err := fn.Call(ctx, uint64(inputPtr), uint64(inputLen))
	if err != nil {
		return nil, fmt.Errorf("WASM call failed: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("WASM function returned no results")
	}

	packed := results[0]
	outputPtr := uint32(packed >> 32)
	outputLen := uint32(packed & 0xFFFFFFFF)
	if outputLen == 0 {
		return []byte("null"), nil
	}

	output, ok := r.memory.Read(outputPtr, outputLen)
	if !ok {
		return nil, fmt.Errorf("failed to read output from WASM memory")
	}
	out := make([]byte, len(output))
	copy(out, output)
	_, _ = r.free.Call(ctx, uint64(outputPtr))
	return out, nil
}

func valueToJSON(v value.Value) (any, error) {
	v = v.Deref()
	switch v.Kind() {
	case value.Undef:
		return nil, nil
	case value.Boolean:
		return v.AsBool(), nil
	case value.Integer:
		return v.AsInt(), nil
	case value.Float:
		return v.AsFloat(), nil
	case value.String:
		return v.AsString(), nil
	case value.ArrayKind:
		elems := v.AsArray().Elements()
		out := make([]any, len(elems))
		for i, e := range elems {
			jv, err := valueToJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return out, nil
	case value.HashKind:
		out := make(map[string]any)
		var convErr error
		v.AsHash().Each(func(k, val value.Value) {
			if convErr != nil {
				return
			}
			jv, err := valueToJSON(val)
			if err != nil {
				convErr = err
				return
			}
			out[k.Display()] = jv
		})
		if convErr != nil {
			return nil, convErr
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot marshal a %s value to JSON", v.Kind())
	}
}

func jsonToValue(v any) value.Value {
	switch val := v.(type) {
	case nil:
		return value.Undefined()
	case bool:
		return value.Bool(val)
	case float64:
		if val == float64(int64(val)) {
			return value.Int(int64(val))
		}
		return value.Float64(val)
	case string:
		return value.Str(val)
	case []any:
		elems := make([]value.Value, len(val))
		for i, e := range val {
			elems[i] = jsonToValue(e)
		}
		return value.Arr(value.NewArray(elems))
	case map[string]any:
		h := value.NewHash()
		for k, e := range val {
			h.Set(value.Str(k), jsonToValue(e))
		}
		return value.HashVal(h)
	default:
		return value.Undefined()
	}
}
