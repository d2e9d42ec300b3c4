// Package engine provides the goja-backed implementation of jsa.Context.
//
// goja is a pure Go ECMAScript implementation, which makes it the default
// backend: no cgo, no shipped VM artifact, and handle memory is ordinary Go
// memory reclaimed by the Go collector. Any other VM can be plugged in
// behind jsa.Context without touching embedder code.
//
// # Handle lifecycle
//
// Every handle the backend mints wraps a strong goja.Value reference inside
// a one-shot pointer. Pointers are registered with a resource.Tracker under
// the current scope frame: popping a scope eagerly invalidates what the
// scope created (unless escaped), an explicit Release invalidates one
// handle and forgets its tracker entry, and Close invalidates everything
// else. Invalidation drops the goja reference, returning the underlying
// object to the collector. Weak handles hold a weak.Pointer instead of a
// strong reference and resolve to undefined once the referent is
// collected.
//
// # Host objects
//
// HostObjects are attached through goja dynamic objects, so every property
// access the VM performs dispatches to the native Get/Set/PropertyNames.
// Native errors are wrapped into VM Error objects and thrown into script;
// the default frozen-object Set failure is always surfaced as a catchable
// TypeError.
//
// # Threading
//
// A GojaContext is thread-confined. Handle release is the only operation
// safe from other goroutines. Cross-thread work escapes through the bound
// jsa.ThreadScope.
package engine
