package engine

import (
	"github.com/wippyai/jsa-runtime/jsa"
	"github.com/wippyai/jsa-runtime/resource"
)

// scopeToken is the backend ScopeState. It carries the tracker frame depth
// so popping reclaims exactly what the scope created.
type scopeToken struct {
	c     *GojaContext
	depth int
}

// EscapeToParent promotes a handle out of the closing scope. Called by
// jsa.Scope.Escape.
func (t *scopeToken) EscapeToParent(pv jsa.PointerValue) {
	gp, ok := pv.(*gojaPointer)
	if !ok || gp == nil {
		return
	}
	t.c.tracker.Escape(gp.track)
}

// PushScope opens an eager-reclamation frame. Returns nil when eager
// scopes are disabled; scopes are then purely advisory.
func (c *GojaContext) PushScope() jsa.ScopeState {
	if !c.eagerScopes {
		return nil
	}
	return &scopeToken{c: c, depth: c.tracker.PushScope()}
}

// PopScope closes a frame, invalidating the handles it still owns.
func (c *GojaContext) PopScope(state jsa.ScopeState) {
	tok, ok := state.(*scopeToken)
	if !ok || tok == nil {
		return
	}
	c.tracker.PopScope(tok.depth)
}

// Tracker exposes the handle lifecycle table for diagnostics and tests.
func (c *GojaContext) Tracker() *resource.Tracker {
	return c.tracker
}
