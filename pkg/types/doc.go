// Package types implements the Lattice DSL's structural type algebra: a
// tagged variant over Any, Undef, Default, Boolean, Integer, Float,
// String, Regexp, Enum, Pattern, Numeric, Scalar, Data, CatalogEntry,
// Collection, Array, Hash, Tuple, Struct, Variant, Optional, NotUndef,
// Callable, Class, Resource, Runtime, and Type (§3).
//
// Every Type implements IsInstance (membership) and IsSpecialization
// (strict subtyping), and both are used together to resolve Variant
// alternatives, validate parametric bounds, and back typed parameter
// checks and type-parameterized access in pkg/eval (the `in`/`=~`
// operators are handled by pkg/operators and do not use this package). Specialization
// induces a conservative, per-alternative join rather than a full
// lattice computation, exactly as spec §4.2 allows.
package types
