package engine

import (
	"sync/atomic"
	"weak"

	"github.com/dop251/goja"

	"github.com/wippyai/jsa-runtime/jsa"
	"github.com/wippyai/jsa-runtime/resource"
)

// Handle categories reported to the resource tracker.
const (
	catString resource.Category = iota + 1
	catSymbol
	catObject
	catPropName
	catWeak
)

// gojaPointer backs every handle the goja context mints. It holds a strong
// goja reference until invalidated, except for weak-kind pointers, which
// hold only a weak.Pointer to the referent. Invalidate is idempotent at
// this level so that an explicit handle release and a later scope pop (or
// teardown) over the same pointer cannot double-free.
type gojaPointer struct {
	val      goja.Value
	ref      weak.Pointer[goja.Object] // payload for weak pointers
	name     string                    // payload for PropNameID pointers
	track    resource.Handle
	owner    *resource.Tracker
	released atomic.Bool
}

// Invalidate drops the backend reference and forgets the tracker entry.
// When the tracker itself initiated the release (scope pop, Close) the
// entry is already gone and the nested Release is a no-op.
func (p *gojaPointer) Invalidate() {
	if p.released.CompareAndSwap(false, true) {
		p.val = nil
		p.ref = weak.Pointer[goja.Object]{}
		if p.owner != nil {
			p.owner.Release(p.track)
		}
	}
}

// Invalidated reports backend-side invalidation (scope pop, teardown) so
// handle IsReleased checks observe it without going through Release.
func (p *gojaPointer) Invalidated() bool {
	return p.released.Load()
}

// newPointer mints a pointer for v and registers it in the current scope
// frame.
func (c *GojaContext) newPointer(cat resource.Category, v goja.Value) *gojaPointer {
	p := &gojaPointer{val: v, owner: c.tracker}
	p.track = c.tracker.Track(cat, p.Invalidate)
	return p
}

func (c *GojaContext) newNamePointer(name string) *gojaPointer {
	p := &gojaPointer{name: name, owner: c.tracker}
	p.track = c.tracker.Track(catPropName, p.Invalidate)
	return p
}

// newWeakPointer mints a pointer that does not keep obj alive. The VM, or
// another live handle, must hold the only strong references.
func (c *GojaContext) newWeakPointer(obj *goja.Object) *gojaPointer {
	p := &gojaPointer{ref: weak.Make(obj), owner: c.tracker}
	p.track = c.tracker.Track(catWeak, p.Invalidate)
	return p
}

// deref returns the goja value behind a live handle.
func deref(p jsa.PointerLike) goja.Value {
	gp, ok := jsa.GetPointerValue(p).(*gojaPointer)
	if !ok || gp == nil {
		return nil
	}
	return gp.val
}

func derefName(p jsa.PointerLike) string {
	gp, ok := jsa.GetPointerValue(p).(*gojaPointer)
	if !ok || gp == nil {
		return ""
	}
	return gp.name
}

// derefObject returns the goja object behind a live object-kind handle.
func derefObject(p jsa.PointerLike) *goja.Object {
	obj, _ := deref(p).(*goja.Object)
	return obj
}

func clonePointer(c *GojaContext, cat resource.Category, pv jsa.PointerValue) jsa.PointerValue {
	gp, ok := pv.(*gojaPointer)
	if !ok || gp == nil {
		return c.newPointer(cat, nil)
	}
	if gp.name != "" || cat == catPropName {
		return c.newNamePointer(gp.name)
	}
	return c.newPointer(cat, gp.val)
}
