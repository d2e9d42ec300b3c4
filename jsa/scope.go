package jsa

// ScopeState is an opaque backend token bounding the handles created since
// a Scope began. Backends that implement eager reclamation return a token
// from PushScope; advisory no-op backends may return nil.
type ScopeState any

// scopeEscaper is implemented by ScopeState tokens of backends that
// support promoting a handle out of the closing scope.
type scopeEscaper interface {
	EscapeToParent(pv PointerValue)
}

// Scope advises the backend to track handles created between its
// construction and Close so they can be reclaimed eagerly instead of
// floating until the next VM collection. Backends may ignore scopes
// entirely.
//
// A Scope is a stack-scoped resource: create it with NewScope, close it
// with Close on the same goroutine the context is confined to. Scopes are
// not copied, not shared between goroutines, and close in LIFO order.
type Scope struct {
	ctx    Context
	state  ScopeState
	closed bool
}

// NewScope opens a scope on ctx.
func NewScope(ctx Context) *Scope {
	return &Scope{ctx: ctx, state: ctx.PushScope()}
}

// Escape promotes a handle created inside this scope to the parent scope,
// so it survives Close. Returns the handle it was given. A no-op on
// backends that ignore scopes.
func (s *Scope) Escape(p PointerLike) PointerLike {
	if esc, ok := s.state.(scopeEscaper); ok {
		if pv := GetPointerValue(p); pv != nil {
			esc.EscapeToParent(pv)
		}
	}
	return p
}

// Close pops the scope. Handles created inside it and not escaped become
// eligible for reclamation. Closing twice is a no-op.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ctx.PopScope(s.state)
}

// CallInNewScope runs fn inside a freshly pushed scope and returns its
// result. Handles fn creates and does not escape are reclaimed before
// CallInNewScope returns.
func CallInNewScope[T any](ctx Context, fn func(*Scope) T) T {
	s := NewScope(ctx)
	defer s.Close()
	return fn(s)
}
