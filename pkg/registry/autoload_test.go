package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/latticelang/lattice/pkg/ast"
)

func TestManifestRelPath(t *testing.T) {
	cases := map[string]string{
		"profile":            filepath.Join("profile", "manifests", "init.pp"),
		"profile::base":      filepath.Join("profile", "manifests", "base.pp"),
		"profile::web::tls":  filepath.Join("profile", "manifests", "web", "tls.pp"),
	}
	for name, want := range cases {
		if got := manifestRelPath(name); got != want {
			t.Errorf("manifestRelPath(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestPathAutoloadHookReadsAndParses(t *testing.T) {
	dir := t.TempDir()
	manifestDir := filepath.Join(dir, "profile", "manifests")
	if err := os.MkdirAll(manifestDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(manifestDir, "base.pp"), []byte("class profile::base {}"), 0644); err != nil {
		t.Fatal(err)
	}

	parseCalls := 0
	parse := func(path string, source []byte) (*ast.TopLevel, error) {
		parseCalls++
		return &ast.TopLevel{Classes: []*ast.ClassDefinition{{Name: "profile::base"}}}, nil
	}

	hook := NewPathAutoloadHook([]string{dir}, parse, zerolog.Nop())
	tree, ok := hook.Autoload("profile::base")
	if !ok {
		t.Fatal("expected autoload hit")
	}
	if len(tree.Classes) != 1 || tree.Classes[0].Name != "profile::base" {
		t.Errorf("unexpected tree: %+v", tree)
	}
	if parseCalls != 1 {
		t.Errorf("parseCalls = %d, want 1", parseCalls)
	}

	if _, ok := hook.Autoload("profile::missing"); ok {
		t.Error("expected miss for nonexistent manifest")
	}
}
