package ast

import (
	"testing"

	"github.com/latticelang/lattice/pkg/value"
)

func TestPositionString(t *testing.T) {
	p := NewPosition("site.pp", 3, 5, 4)
	if got, want := p.String(), "site.pp:3:5"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if p.Length != 4 {
		t.Errorf("Length = %d, want 4", p.Length)
	}
}

func TestLiteralIsNode(t *testing.T) {
	pos := NewPosition("site.pp", 1, 1, 1)
	lit := NewLiteral(pos, value.Int(42))
	var n Node = lit
	if n.Pos() != pos {
		t.Errorf("Pos() = %v, want %v", n.Pos(), pos)
	}
	var _ Expression = lit
}

func TestBinaryExprNesting(t *testing.T) {
	pos := NewPosition("site.pp", 1, 1, 1)
	left := NewLiteral(pos, value.Int(1))
	right := NewLiteral(pos, value.Int(2))
	be := &BinaryExpr{base: base{pos}, Op: "+", Left: left, Right: right}
	if be.Op != "+" {
		t.Errorf("Op = %q, want %q", be.Op, "+")
	}
	if be.Left.(*Literal).Value.AsInt() != 1 {
		t.Error("Left operand lost")
	}
}
