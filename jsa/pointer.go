package jsa

import "sync/atomic"

// PointerValue is a backend-defined handle to a single VM-managed resource.
// Invalidate releases the resource. The layer guarantees it is reached once
// over the owning handle's lifetime; backends keep it safe to call again so
// that scope reclamation and an explicit Release on the same handle cannot
// double-free.
type PointerValue interface {
	Invalidate()
}

// cell carries the one-shot release guard shared by a handle and every
// Value copied from it without a clone. Release may run from any goroutine.
type cell struct {
	pv       PointerValue
	released atomic.Bool
}

func (c *cell) release() {
	if c == nil || c.pv == nil {
		return
	}
	if c.released.CompareAndSwap(false, true) {
		c.pv.Invalidate()
	}
}

// Pointer is the ownership base embedded by every handle type. It wraps
// exactly one PointerValue and ends its lifetime exactly once.
type Pointer struct {
	c *cell
}

// Release ends the handle's lifetime and invalidates the backing
// PointerValue. Safe to call from any goroutine, and a second call on the
// same handle is a no-op. Using the handle after Release is a programming
// error.
func (p Pointer) Release() {
	p.c.release()
}

// invalidated is an optional PointerValue extension. Backends that can be
// invalidated from outside the handle (scope reclamation, context teardown)
// implement it so IsReleased observes those paths too.
type invalidated interface {
	Invalidated() bool
}

// IsReleased reports whether the handle's lifetime has already ended,
// whether through Release or through backend-side invalidation.
func (p Pointer) IsReleased() bool {
	if p.c == nil || p.c.released.Load() {
		return true
	}
	if iv, ok := p.c.pv.(invalidated); ok {
		return iv.Invalidated()
	}
	return false
}

// cell is the restricted access path to Pointer internals: only types in
// this package can embed Pointer, so only they satisfy PointerLike.
func (p Pointer) cellRef() *cell { return p.c }

// PointerLike is satisfied by every handle type and by pointer-backed
// Values. Backends use it with GetPointerValue to reach the raw resource
// handle of their own making.
type PointerLike interface {
	Release()
	IsReleased() bool
	cellRef() *cell
}

// GetPointerValue returns the raw backend resource behind a handle. It is
// intended for backend implementations only; embedders never need it.
func GetPointerValue(p PointerLike) PointerValue {
	c := p.cellRef()
	if c == nil {
		return nil
	}
	return c.pv
}

func makePointer(pv PointerValue) Pointer {
	if pv == nil {
		return Pointer{}
	}
	return Pointer{c: &cell{pv: pv}}
}
