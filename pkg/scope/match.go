package scope

import "github.com/latticelang/lattice/pkg/value"

// MatchStack holds the stack of regex-capture-group frames (§4.3,
// §5(i)): each match scope pushes a fresh captures vector and pops it on
// exit, LIFO, including on error unwinding.
type MatchStack struct {
	frames [][]value.Value
}

// NewMatchStack creates an empty match stack.
func NewMatchStack() *MatchStack {
	return &MatchStack{}
}

// Push opens a new match scope with the given capture groups ($0 is
// conventionally the whole match).
func (m *MatchStack) Push(captures []value.Value) {
	m.frames = append(m.frames, captures)
}

// Pop closes the innermost match scope. It is a no-op if the stack is
// empty, so a defensive defer Pop() never panics during error unwinding.
func (m *MatchStack) Pop() {
	if len(m.frames) == 0 {
		return
	}
	m.frames = m.frames[:len(m.frames)-1]
}

// Depth returns the number of open match scopes.
func (m *MatchStack) Depth() int {
	return len(m.frames)
}

// Get returns $i from the innermost open match scope, or undef if there
// is no open match scope or the index is out of range (§4.3: get_match
// "returns the last pushed capture group or undef").
func (m *MatchStack) Get(i int) value.Value {
	if len(m.frames) == 0 {
		return value.Undefined()
	}
	top := m.frames[len(m.frames)-1]
	if i < 0 || i >= len(top) {
		return value.Undefined()
	}
	return top[i]
}

// Guard is a scoped acquisition for a match frame: Close() pops it. Used
// via `defer` to guarantee release on every exit path (§5(i)).
type Guard struct {
	stack *MatchStack
}

// PushGuard pushes captures and returns a Guard whose Close pops them.
func (m *MatchStack) PushGuard(captures []value.Value) *Guard {
	m.Push(captures)
	return &Guard{stack: m}
}

// Close releases the match frame this guard opened.
func (g *Guard) Close() {
	g.stack.Pop()
}
