// Package plugin loads WASM-backed function modules by manifest,
// adapted from the teacher's pkg/providers/host WASM provider loader:
// the same YAML-manifest-plus-checksum-plus-wazero-runtime shape,
// repurposed from "load a host-automation provider" to "load an
// autoloaded DSL function module" (spec §8's WASM function-resolver
// backend).
package plugin

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes one function-plugin module: the functions it
// exports and the path/checksum of the compiled WASM binary implementing
// them.
type Manifest struct {
	// Name identifies the plugin (for logging/diagnostics).
	Name string `yaml:"name" validate:"required"`
	// Functions lists the DSL function names this module implements;
	// each must be an exported WASM function of the same name.
	Functions []string `yaml:"functions" validate:"required,min=1"`
	// Wasm is the path to the compiled WASM module, relative to the
	// manifest file's directory.
	Wasm string `yaml:"wasm" validate:"required"`
	// SHA256 is the expected hex-encoded checksum of the WASM binary.
	// When set, LoadManifest refuses to load a module whose contents
	// don't match.
	SHA256 string `yaml:"sha256,omitempty"`
}

// LoadedModule pairs a parsed Manifest with its WASM bytes, ready to
// hand to functions.NewWASMResolver.
type LoadedModule struct {
	Manifest *Manifest
	Wasm     []byte
}

// LoadManifest reads and parses a YAML manifest at path, then loads and
// (if SHA256 is set) verifies its referenced WASM binary.
func LoadManifest(path string) (*LoadedModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse plugin manifest: %w", err)
	}
	if m.Name == "" || len(m.Functions) == 0 || m.Wasm == "" {
		return nil, fmt.Errorf("plugin manifest %s is missing required fields (name, functions, wasm)", path)
	}

	wasmPath := m.Wasm
	if !filepath.IsAbs(wasmPath) {
		wasmPath = filepath.Join(filepath.Dir(path), wasmPath)
	}
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read WASM module for plugin %q: %w", m.Name, err)
	}

	if m.SHA256 != "" {
		sum := sha256.Sum256(wasmBytes)
		got := hex.EncodeToString(sum[:])
		if got != m.SHA256 {
			return nil, fmt.Errorf("plugin %q WASM checksum mismatch: expected %s, got %s", m.Name, m.SHA256, got)
		}
	}

	return &LoadedModule{Manifest: &m, Wasm: wasmBytes}, nil
}
