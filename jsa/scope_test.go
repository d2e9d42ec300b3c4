package jsa

import "testing"

// trackingToken records scope traffic from the backend's side.
type trackingToken struct {
	escaped []PointerValue
	popped  bool
}

func (t *trackingToken) EscapeToParent(pv PointerValue) {
	t.escaped = append(t.escaped, pv)
}

func TestScope_PushPopPairing(t *testing.T) {
	tok := &trackingToken{}
	pushes := 0
	ctx := &stubContext{
		pushScope: func() ScopeState { pushes++; return tok },
		popScope: func(state ScopeState) {
			if state != ScopeState(tok) {
				t.Fatal("PopScope received a different token than PushScope returned")
			}
			tok.popped = true
		},
	}

	s := NewScope(ctx)
	if pushes != 1 {
		t.Fatalf("pushes = %d", pushes)
	}
	s.Close()
	if !tok.popped {
		t.Fatal("Close did not pop the scope")
	}
}

func TestScope_CloseTwiceIsNoOp(t *testing.T) {
	pops := 0
	ctx := &stubContext{
		popScope: func(ScopeState) { pops++ },
	}

	s := NewScope(ctx)
	s.Close()
	s.Close()
	if pops != 1 {
		t.Fatalf("pops = %d, want 1", pops)
	}
}

func TestScope_EscapeForwardsToToken(t *testing.T) {
	tok := &trackingToken{}
	ctx := &stubContext{
		pushScope: func() ScopeState { return tok },
	}

	s := NewScope(ctx)
	pv := &fakePV{}
	h := MakeObject(pv)
	got := s.Escape(h)

	if got != PointerLike(h) {
		t.Fatal("Escape must return the handle it was given")
	}
	if len(tok.escaped) != 1 || tok.escaped[0] != PointerValue(pv) {
		t.Fatal("escape did not reach the backend token")
	}
}

func TestScope_EscapeOnAdvisoryBackend(t *testing.T) {
	// nil token: the backend ignores scopes. Escape must be a safe no-op.
	ctx := &stubContext{}
	s := NewScope(ctx)
	h := MakeObject(&fakePV{})
	if s.Escape(h) != PointerLike(h) {
		t.Fatal("advisory Escape must still return the handle")
	}
	s.Close()
}

func TestCallInNewScope_ReturnsResult(t *testing.T) {
	tok := &trackingToken{}
	ctx := &stubContext{
		pushScope: func() ScopeState { return tok },
		popScope:  func(ScopeState) { tok.popped = true },
	}

	got := CallInNewScope(ctx, func(s *Scope) int {
		if tok.popped {
			t.Fatal("scope popped before fn finished")
		}
		return 42
	})
	if got != 42 {
		t.Fatalf("result = %d", got)
	}
	if !tok.popped {
		t.Fatal("scope not popped after fn returned")
	}
}
