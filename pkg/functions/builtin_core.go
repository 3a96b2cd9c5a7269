package functions

import (
	"strconv"
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

func registerCoreBuiltins(d *Dispatcher) {
	d.Register("fail", biFail)
	d.Register("versioncmp", biVersioncmp)
	d.Register("defined", biDefined)
	d.Register("size", biSize)
	d.Register("keys", biKeys)
	d.Register("values", biValues)
	d.Register("join", biJoin)
	d.Register("split", biSplit)
}

// fail(message...) aborts evaluation with an evaluation-error diagnostic
// built from the concatenated, space-joined Display() of every argument
// (spec's Supplemented Features: fail()).
func biFail(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Display()
	}
	return value.Value{}, ctx.EvalError("%s", strings.Join(parts, " "))
}

// versioncmp(a, b) compares two dotted version strings, returning -1, 0,
// or 1 (spec's Supplemented Features: versioncmp()), segment by segment,
// numeric segments compared numerically and non-numeric segments
// lexically, matching the original implementation's behavior.
func biVersioncmp(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, ctx.TypeError("versioncmp() requires exactly 2 arguments, got %d", len(args))
	}
	a, b := args[0], args[1]
	if a.Kind() != value.String || b.Kind() != value.String {
		return value.Value{}, ctx.TypeError("versioncmp() requires String arguments")
	}
	return value.Int(int64(compareVersions(a.AsString(), b.AsString()))), nil
}

func compareVersions(a, b string) int {
	as := strings.FieldsFunc(a, isVersionSep)
	bs := strings.FieldsFunc(b, isVersionSep)
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var sa, sb string
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		if sa == sb {
			continue
		}
		ia, aErr := strconv.Atoi(sa)
		ib, bErr := strconv.Atoi(sb)
		if aErr == nil && bErr == nil {
			switch {
			case ia < ib:
				return -1
			case ia > ib:
				return 1
			default:
				continue
			}
		}
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
	}
	return 0
}

func isVersionSep(r rune) bool { return r == '.' || r == '-' || r == '_' || r == '+' }

// defined('$var') reports whether any String argument names a variable
// bound in the calling scope (a leading "$" is stripped). Non-String
// arguments are skipped, and function, class and type names are not
// looked up.
func biDefined(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	for _, a := range args {
		if a.Kind() != value.String {
			continue
		}
		name := strings.TrimPrefix(a.AsString(), "$")
		if ctx.Scope.Has(name) {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

// size(x) returns the element count of a String (grapheme count), Array,
// or Hash.
func biSize(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ctx.TypeError("size() requires exactly 1 argument, got %d", len(args))
	}
	v := args[0].Deref()
	switch v.Kind() {
	case value.String:
		return value.Int(int64(len(value.Graphemes(v.AsString())))), nil
	case value.ArrayKind:
		return value.Int(int64(v.AsArray().Len())), nil
	case value.HashKind:
		return value.Int(int64(v.AsHash().Len())), nil
	default:
		return value.Value{}, ctx.TypeError("size() does not accept a %s argument", v.Kind())
	}
}

// keys(hash) returns a Hash's keys as an Array, in insertion order.
func biKeys(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Deref().Kind() != value.HashKind {
		return value.Value{}, ctx.TypeError("keys() requires exactly 1 Hash argument")
	}
	return value.Arr(value.NewArray(args[0].Deref().AsHash().Keys())), nil
}

// values(hash) returns a Hash's values as an Array, in insertion order.
func biValues(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Deref().Kind() != value.HashKind {
		return value.Value{}, ctx.TypeError("values() requires exactly 1 Hash argument")
	}
	h := args[0].Deref().AsHash()
	out := make([]value.Value, 0, h.Len())
	h.Each(func(_, v value.Value) { out = append(out, v) })
	return value.Arr(value.NewArray(out)), nil
}

// join(array, sep) joins an Array's Display()ed elements with sep
// (default "").
func biJoin(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) == 0 || args[0].Deref().Kind() != value.ArrayKind {
		return value.Value{}, ctx.TypeError("join() requires an Array as its first argument")
	}
	sep := ""
	if len(args) > 1 {
		sep = args[1].Display()
	}
	elems := args[0].Deref().AsArray().Elements()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.Display()
	}
	return value.Str(strings.Join(parts, sep)), nil
}

// split(string, pattern) splits a String on a literal or regex pattern
// into an Array of Strings.
func biSplit(ctx *FunctionCallContext, args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Deref().Kind() != value.String {
		return value.Value{}, ctx.TypeError("split() requires a String and a pattern argument")
	}
	s := args[0].Deref().AsString()
	pattern := args[1].Deref()

	var parts []string
	switch pattern.Kind() {
	case value.Regexp:
		parts = pattern.AsRegex().Split(s)
	case value.String:
		re, err := value.CompileRegex(pattern.AsString())
		if err != nil {
			return value.Value{}, ctx.EvalError("split(): %v", err)
		}
		parts = re.Split(s)
	default:
		return value.Value{}, ctx.TypeError("split() pattern must be a String or Regexp")
	}
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.Str(p)
	}
	return value.Arr(value.NewArray(out)), nil
}
