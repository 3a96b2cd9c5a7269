package plugin

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/latticelang/lattice/pkg/functions"
)

// Registry discovers *.plugin.yaml manifests under one or more
// directories and instantiates each as a functions.WASMResolver, added
// to a functions.Dispatcher as a whole resolver; the resolver answers
// for every function its module exports, not only those the manifest
// lists.
type Registry struct {
	logger    zerolog.Logger
	resolvers []*functions.WASMResolver
}

// NewRegistry creates an empty plugin registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{logger: logger.With().Str("component", "function-plugin-registry").Logger()}
}

// LoadDir loads every *.plugin.yaml manifest directly under dir and
// wires its functions into dispatcher.
func (r *Registry) LoadDir(ctx context.Context, dir string, dispatcher *functions.Dispatcher, timeout time.Duration) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.plugin.yaml"))
	if err != nil {
		return fmt.Errorf("failed to glob plugin manifests in %s: %w", dir, err)
	}
	for _, path := range matches {
		if err := r.LoadManifest(ctx, path, dispatcher, timeout); err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("failed to load function plugin")
		}
	}
	return nil
}

// LoadManifest loads a single manifest file and wires its functions into
// dispatcher.
func (r *Registry) LoadManifest(ctx context.Context, path string, dispatcher *functions.Dispatcher, timeout time.Duration) error {
	loaded, err := LoadManifest(path)
	if err != nil {
		return err
	}
	resolver, err := functions.NewWASMResolver(ctx, loaded.Wasm, timeout)
	if err != nil {
		return fmt.Errorf("failed to instantiate plugin %q: %w", loaded.Manifest.Name, err)
	}
	r.resolvers = append(r.resolvers, resolver)
	dispatcher.AddResolver(resolver)

	r.logger.Info().
		Str("plugin", loaded.Manifest.Name).
		Int("functions", len(loaded.Manifest.Functions)).
		Msg("loaded function plugin")
	return nil
}

// Close releases every loaded plugin's WASM runtime.
func (r *Registry) Close(ctx context.Context) error {
	var firstErr error
	for _, res := range r.resolvers {
		if err := res.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
