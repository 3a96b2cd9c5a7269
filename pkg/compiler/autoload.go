package compiler

import (
	"github.com/rs/zerolog"

	"github.com/latticelang/lattice/pkg/registry"
)

// DefaultAutoload wires the core's one shipped AutoloadHook
// implementation, registry.PathAutoloadHook, as the compiler's default:
// a reference unresolved within the already-imported source set is
// looked up by module-directory convention under roots, parsed with
// parse, and watched for changes via fsnotify so a long-lived compiler
// process picks up manifests added after an initial miss.
//
// A caller that wants a different autoload policy (a database-backed
// module index, a remote fetch) implements registry.AutoloadHook
// directly and sets it on Options instead of calling this.
func DefaultAutoload(roots []string, parse registry.ParseFunc, logger zerolog.Logger) *registry.PathAutoloadHook {
	return registry.NewPathAutoloadHook(roots, parse, logger)
}
