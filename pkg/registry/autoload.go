package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/latticelang/lattice/pkg/ast"
)

// ParseFunc parses one module-path file's contents into a TopLevel tree.
// It is supplied by the host application (spec §1's external parser
// collaborator); this package only decides WHICH file to parse and WHEN
// to re-parse it, never how.
type ParseFunc func(path string, source []byte) (*ast.TopLevel, error)

// PathAutoloadHook implements the module-autoload-by-directory-
// convention policy: a reference to "a::b::c" maps to
// "<root>/a/manifests/b/c.pp" (and bare "a" maps to
// "<root>/a/manifests/init.pp"), mirroring the layout convention the
// original Puppet module system used. It is the one concrete
// AutoloadHook the core ships; a host is free to supply any other
// implementation of the interface instead.
type PathAutoloadHook struct {
	roots  []string
	parse  ParseFunc
	logger zerolog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	missed  map[string]bool // paths confirmed absent, to skip re-stat
}

// NewPathAutoloadHook creates a hook that searches roots, in order, for
// each referenced name's manifest file.
func NewPathAutoloadHook(roots []string, parse ParseFunc, logger zerolog.Logger) *PathAutoloadHook {
	return &PathAutoloadHook{
		roots:  roots,
		parse:  parse,
		logger: logger.With().Str("component", "autoload").Logger(),
		missed: make(map[string]bool),
	}
}

// Autoload implements AutoloadHook.
func (h *PathAutoloadHook) Autoload(name string) (*ast.TopLevel, bool) {
	rel := manifestRelPath(name)
	for _, root := range h.roots {
		path := filepath.Join(root, rel)

		h.mu.Lock()
		missed := h.missed[path]
		h.mu.Unlock()
		if missed {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				h.mu.Lock()
				h.missed[path] = true
				h.mu.Unlock()
			} else {
				h.logger.Warn().Err(err).Str("path", path).Msg("failed to read manifest file")
			}
			continue
		}

		tree, err := h.parse(path, data)
		if err != nil {
			h.logger.Warn().Err(err).Str("path", path).Msg("failed to parse autoloaded manifest")
			return nil, false
		}
		h.logger.Debug().Str("name", name).Str("path", path).Msg("autoloaded manifest")
		return tree, true
	}
	return nil, false
}

// manifestRelPath maps "module::sub::name" onto
// "module/manifests/sub/name.pp", and a bare "module" onto
// "module/manifests/init.pp".
func manifestRelPath(name string) string {
	parts := strings.Split(name, "::")
	module := parts[0]
	if len(parts) == 1 {
		return filepath.Join(module, "manifests", "init.pp")
	}
	rest := parts[1:]
	last := rest[len(rest)-1] + ".pp"
	segments := append([]string{module, "manifests"}, rest[:len(rest)-1]...)
	segments = append(segments, last)
	return filepath.Join(segments...)
}

// WatchForChanges starts an fsnotify watch over every module root so a
// long-lived compiler process (spec §5's registry autoload hook,
// SPEC_FULL §"Domain Stack") can invalidate its negative-lookup cache
// when manifests are added after a prior miss. It returns immediately;
// events are drained until stop is closed.
func (h *PathAutoloadHook) WatchForChanges(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create autoload watcher: %w", err)
	}
	h.watcher = watcher

	for _, root := range h.roots {
		if err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		}); err != nil {
			h.logger.Warn().Err(err).Str("root", root).Msg("failed to walk autoload root")
		}
	}

	go h.processEvents(stop)
	return nil
}

func (h *PathAutoloadHook) processEvents(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			_ = h.watcher.Close()
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				h.mu.Lock()
				delete(h.missed, event.Name)
				h.mu.Unlock()
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("autoload watcher error")
		}
	}
}
