package catalog

import (
	"testing"

	"github.com/latticelang/lattice/pkg/value"
)

func newResource(typeName, title string) *Resource {
	return &Resource{Key: CanonicalKey(typeName, title)}
}

func TestAddAndFind(t *testing.T) {
	c := New()
	r := newResource("File", "/etc/motd")
	if err := c.Add(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, ok := c.Find(CanonicalKey("file", "/etc/motd"))
	if !ok {
		t.Fatal("expected to find resource by canonical key")
	}
	if found != r {
		t.Error("expected identical pointer back")
	}
}

func TestAddDuplicateFails(t *testing.T) {
	c := New()
	_ = c.Add(newResource("File", "/etc/motd"))
	if err := c.Add(newResource("File", "/etc/motd")); err == nil {
		t.Error("expected redefinition error on duplicate (type, title)")
	}
}

func TestSetAttributeOverwrite(t *testing.T) {
	c := New()
	r := newResource("File", "/etc/motd")
	_ = c.Add(r)
	_ = c.SetAttribute(r.Key, "ensure", "=>", value.Str("present"))
	_ = c.SetAttribute(r.Key, "ensure", "=>", value.Str("absent"))
	if got := r.Attributes["ensure"].AsString(); got != "absent" {
		t.Errorf("ensure = %q, want absent", got)
	}
}

func TestSetAttributeAppendPromotesScalarToArray(t *testing.T) {
	c := New()
	r := newResource("File", "/etc/motd")
	_ = c.Add(r)
	_ = c.SetAttribute(r.Key, "require", "=>", value.Str("File[/etc]"))
	_ = c.SetAttribute(r.Key, "require", "+>", value.Str("File[/other]"))

	arr := r.Attributes["require"].AsArray()
	if arr == nil || arr.Len() != 2 {
		t.Fatalf("expected 2-element array, got %v", r.Attributes["require"])
	}
	if arr.Elements()[0].AsString() != "File[/etc]" || arr.Elements()[1].AsString() != "File[/other]" {
		t.Errorf("unexpected array contents: %v", arr.Elements())
	}
}

func TestSetAttributeAppendOntoExistingArray(t *testing.T) {
	c := New()
	r := newResource("File", "/etc/motd")
	_ = c.Add(r)
	_ = c.SetAttribute(r.Key, "require", "=>", value.Arr(value.NewArray([]value.Value{value.Str("a")})))
	_ = c.SetAttribute(r.Key, "require", "+>", value.Str("b"))

	arr := r.Attributes["require"].AsArray()
	if arr.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", arr.Len())
	}
}

func TestAddEdgeRequiresBothEndpoints(t *testing.T) {
	c := New()
	a := newResource("File", "a")
	_ = c.Add(a)
	if err := c.AddEdge(RelRequire, a.Key, CanonicalKey("File", "missing")); err == nil {
		t.Error("expected error for missing target")
	}
}

func TestByTypeSortedByTitle(t *testing.T) {
	c := New()
	_ = c.Add(newResource("File", "z"))
	_ = c.Add(newResource("File", "a"))
	_ = c.Add(newResource("Package", "nginx"))

	files := c.ByType("file")
	if len(files) != 2 || files[0].Key.Title != "a" || files[1].Key.Title != "z" {
		t.Errorf("unexpected ByType result: %+v", files)
	}
}
