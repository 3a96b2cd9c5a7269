// Package functions implements function-call evaluation (spec §4.5,
// §8): a builtin dispatch table covering the core/iteration/EPP function
// families, plus a Resolver extension point for autoloaded functions
// backed by Starlark or WASM modules.
package functions
