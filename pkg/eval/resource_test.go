package eval

import (
	"context"
	"testing"

	"github.com/latticelang/lattice/pkg/ast"
	"github.com/latticelang/lattice/pkg/catalog"
	"github.com/latticelang/lattice/pkg/value"
)

func TestEvalResourceDeclaresAttributes(t *testing.T) {
	e, ctx := newTestEvaluator()
	res := &ast.ResourceExpr{
		TypeName: "file",
		Instances: []ast.ResourceInstance{
			{
				Title: lit(value.Str("/etc/motd")),
				Attributes: []ast.ResourceAttribute{
					{Name: "ensure", Op: "=>", Value: lit(value.Str("present"))},
				},
			},
		},
	}
	if _, err := e.Eval(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := ctx.Catalog.Find(catalog.CanonicalKey("File", "/etc/motd"))
	if !ok {
		t.Fatal("expected File[/etc/motd] to be declared")
	}
	if got := r.Attributes["ensure"]; got.AsString() != "present" {
		t.Errorf("expected ensure=present, got %v", got)
	}
}

func TestEvalResourceDefaultTitleMergesAttributes(t *testing.T) {
	e, ctx := newTestEvaluator()
	res := &ast.ResourceExpr{
		TypeName: "file",
		Instances: []ast.ResourceInstance{
			{
				Title: lit(value.DefaultValue()),
				Attributes: []ast.ResourceAttribute{
					{Name: "owner", Op: "=>", Value: lit(value.Str("root"))},
				},
			},
			{
				Title: lit(value.Str("/tmp/a")),
				Attributes: []ast.ResourceAttribute{
					{Name: "ensure", Op: "=>", Value: lit(value.Str("file"))},
				},
			},
		},
	}

	if _, err := e.Eval(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, ok := ctx.Catalog.Find(catalog.CanonicalKey("File", "/tmp/a"))
	if !ok {
		t.Fatal("expected File[/tmp/a] to be declared")
	}
	if r.Attributes["owner"].AsString() != "root" {
		t.Errorf("expected default owner=root to carry over, got %v", r.Attributes["owner"])
	}
	if r.Attributes["ensure"].AsString() != "file" {
		t.Errorf("expected instance's own ensure=file to win, got %v", r.Attributes["ensure"])
	}
}

func TestEvalResourceRejectsAppendOperator(t *testing.T) {
	e, _ := newTestEvaluator()
	res := &ast.ResourceExpr{
		TypeName: "file",
		Instances: []ast.ResourceInstance{
			{
				Title: lit(value.Str("/tmp/b")),
				Attributes: []ast.ResourceAttribute{
					{Name: "tag", Op: "+>", Value: lit(value.Str("x"))},
				},
			},
		},
	}
	if _, err := e.Eval(res); err == nil {
		t.Error("expected an error for +> inside a plain resource body")
	}
}

func TestOverrideAppliesImmediatelyWhenTargetExists(t *testing.T) {
	e, ctx := newTestEvaluator()
	res := &ast.ResourceExpr{
		TypeName: "file",
		Instances: []ast.ResourceInstance{
			{Title: lit(value.Str("/tmp/c")), Attributes: []ast.ResourceAttribute{
				{Name: "ensure", Op: "=>", Value: lit(value.Str("present"))},
			}},
		},
	}
	if _, err := e.Eval(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	override := &ast.ResourceOverrideExpr{
		TypeName: "File",
		Title:    lit(value.Str("/tmp/c")),
		Attributes: []ast.ResourceAttribute{
			{Name: "owner", Op: "=>", Value: lit(value.Str("root"))},
		},
	}
	if _, err := e.Eval(override); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, _ := ctx.Catalog.Find(catalog.CanonicalKey("File", "/tmp/c"))
	if r.Attributes["owner"].AsString() != "root" {
		t.Errorf("expected owner=root applied immediately, got %v", r.Attributes["owner"])
	}
}

func TestOverrideOfClassIsProhibited(t *testing.T) {
	e, _ := newTestEvaluator()
	override := &ast.ResourceOverrideExpr{
		TypeName: "class",
		Title:    lit(value.Str("ntp")),
		Attributes: []ast.ResourceAttribute{
			{Name: "servers", Op: "=>", Value: lit(value.Arr(value.NewArray(nil)))},
		},
	}
	if _, err := e.Eval(override); err == nil {
		t.Error("expected overriding a Class[...] reference to be prohibited")
	}
}

func TestOverrideQueuedUntilTargetDeclared(t *testing.T) {
	e, ctx := newTestEvaluator()
	override := &ast.ResourceOverrideExpr{
		TypeName: "File",
		Title:    lit(value.Str("/tmp/late")),
		Attributes: []ast.ResourceAttribute{
			{Name: "owner", Op: "=>", Value: lit(value.Str("root"))},
		},
	}
	if _, err := e.Eval(override); err != nil {
		t.Fatalf("unexpected error enqueuing override: %v", err)
	}
	if _, ok := ctx.Catalog.Find(catalog.CanonicalKey("File", "/tmp/late")); ok {
		t.Fatal("target should not exist yet")
	}

	res := &ast.ResourceExpr{
		TypeName: "file",
		Instances: []ast.ResourceInstance{
			{Title: lit(value.Str("/tmp/late")), Attributes: []ast.ResourceAttribute{
				{Name: "ensure", Op: "=>", Value: lit(value.Str("present"))},
			}},
		},
	}
	if _, err := e.Eval(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Finalize(context.Background()); err != nil {
		t.Fatalf("unexpected finalize error: %v", err)
	}
	r, _ := ctx.Catalog.Find(catalog.CanonicalKey("File", "/tmp/late"))
	if r.Attributes["owner"].AsString() != "root" {
		t.Errorf("expected queued override to apply during finalize, got %v", r.Attributes["owner"])
	}
}
