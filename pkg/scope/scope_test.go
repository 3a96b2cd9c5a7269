package scope

import (
	"testing"

	"github.com/latticelang/lattice/pkg/value"
)

func TestSetThenGet(t *testing.T) {
	s := New("", nil, nil)
	if err := s.Set("x", value.Int(14)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Get("x"); got.AsInt() != 14 {
		t.Errorf("expected 14, got %v", got)
	}
}

func TestDoubleAssignmentFails(t *testing.T) {
	s := New("", nil, nil)
	if err := s.Set("x", value.Int(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("x", value.Int(2)); err == nil {
		t.Error("expected redefinition error on double assignment")
	}
}

func TestParentChainLookup(t *testing.T) {
	top := New("", nil, nil)
	_ = top.Set("shared", value.Str("from-top"))
	child := New("foo", top, nil)
	_ = child.Set("local", value.Str("from-child"))

	if got := child.Get("shared"); got.AsString() != "from-top" {
		t.Errorf("expected shared to resolve via parent chain, got %v", got)
	}
	if got := top.Get("local"); got.Kind() != value.Undef {
		t.Error("top scope must not see child's local variable")
	}
}

func TestGetUnresolvedReturnsUndef(t *testing.T) {
	s := New("", nil, nil)
	if got := s.Get("nope"); got.Kind() != value.Undef {
		t.Errorf("expected undef for unresolved lookup, got %v", got)
	}
}

func TestQualify(t *testing.T) {
	top := New("", nil, nil)
	child := New("foo::bar", top, nil)
	if got := child.Qualify("baz"); got != "foo::bar::baz" {
		t.Errorf("expected foo::bar::baz, got %s", got)
	}
	if got := top.Qualify("baz"); got != "baz" {
		t.Errorf("expected bare baz, got %s", got)
	}
}

func TestMatchStackLastPushedWins(t *testing.T) {
	ms := NewMatchStack()
	g1 := ms.PushGuard([]value.Value{value.Str("outer0")})
	g2 := ms.PushGuard([]value.Value{value.Str("inner0"), value.Str("inner1")})

	if got := ms.Get(0); got.AsString() != "inner0" {
		t.Errorf("expected inner0, got %v", got)
	}
	g2.Close()
	if got := ms.Get(0); got.AsString() != "outer0" {
		t.Errorf("expected outer0 after popping inner frame, got %v", got)
	}
	g1.Close()
	if got := ms.Get(0); got.Kind() != value.Undef {
		t.Error("expected undef with no open match scope")
	}
}
