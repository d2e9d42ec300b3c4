package jsa

import "github.com/wippyai/jsa-runtime/errors"

// HostFunc is a native callable exposed into the VM as a Function. The VM
// invokes it with the calling context, the `this` value, and the argument
// slice. Whether the VM coerces `this` is engine-defined; it can be any
// value. A returned error is wrapped into a VM Error and thrown into
// script, with the error's message as the Error's message.
//
// The args slice is read-only and only valid for the duration of the call.
type HostFunc func(ctx Context, this Value, args []Value) (Value, error)

// HostObject is a native capability attached to a VM Object. Every property
// access the VM performs against the object dispatches here. An error
// returned from Get or Set is wrapped into a VM Error catchable by script.
//
// The native instance's lifetime is owned by the VM's garbage collector: it
// may be finalized at an arbitrary time up to context teardown, on an
// arbitrary goroutine. Finalization must not call back into the Context or
// perform any other VM operation; use ThreadScope to hand such work to the
// UI thread instead. This contract is documented, not detected.
type HostObject interface {
	// Get returns the value for a property. Returning an undefined Value
	// with a nil error means "no such property".
	Get(ctx Context, name PropNameID) (Value, error)

	// Set stores a property value.
	Set(ctx Context, name PropNameID, v Value) error

	// PropertyNames returns the object's own property names, in order.
	PropertyNames(ctx Context) []PropNameID
}

// HostFinalizer is optionally implemented by HostObjects (and HostFunc
// receivers) that need a teardown notification. Finalize may run on any
// goroutine and must not touch the Context.
type HostFinalizer interface {
	Finalize()
}

// BaseHostObject implements the default HostObject behavior: Get returns
// undefined, Set fails the way a frozen object fails under strict mode,
// and PropertyNames is empty. The Set failure is always surfaced to script
// as a catchable TypeError, regardless of the caller's strictness.
//
// Embed it to implement only part of the interface:
//
//	type config struct {
//	    jsa.BaseHostObject
//	    values map[string]string
//	}
type BaseHostObject struct{}

// Get returns undefined for every property.
func (BaseHostObject) Get(ctx Context, name PropNameID) (Value, error) {
	return Undefined(), nil
}

// Set fails with a frozen-object TypeError condition.
func (BaseHostObject) Set(ctx Context, name PropNameID, v Value) error {
	return errors.FrozenObject(name.String(ctx))
}

// PropertyNames returns an empty ordered sequence.
func (BaseHostObject) PropertyNames(ctx Context) []PropNameID {
	return nil
}
