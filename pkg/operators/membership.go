package operators

import (
	"strings"

	"github.com/latticelang/lattice/pkg/value"
)

// In implements the "in" operator: array/string membership, or hash key
// membership, per spec §4.7. A String left operand against a String
// right operand tests substring containment; against an Array it tests
// element equality; against a Hash it tests key equality.
func In(needle, haystack value.Value) (value.Value, error) {
	needle, haystack = needle.Deref(), haystack.Deref()
	switch haystack.Kind() {
	case value.ArrayKind:
		for _, e := range haystack.AsArray().Elements() {
			if value.Equal(needle, e) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.HashKind:
		for _, k := range haystack.AsHash().Keys() {
			if value.Equal(needle, k) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.String:
		if needle.Kind() != value.String {
			return value.Bool(false), nil
		}
		return value.Bool(strings.Contains(haystack.AsString(), needle.AsString())), nil
	default:
		return value.Bool(false), nil
	}
}
