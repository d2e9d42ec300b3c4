// Package jsa defines the engine-agnostic JavaScript abstraction layer.
//
// Native code uses this package to create, inspect and invoke JavaScript
// values, to register native objects and functions into the VM heap, and to
// manage cross-boundary object lifetime, independent of which concrete VM
// backend is linked in.
//
// # Architecture
//
// The package is built bottom-up from a small set of types:
//
//	PointerValue  - backend-owned resource handle with a one-shot Invalidate
//	Pointer       - shared ownership base embedded by every handle type
//	Value         - tagged union over undefined/null/bool/number/handle
//	String, Symbol, PropNameID, Object, Array, ArrayBuffer, Function,
//	WeakObject   - typed wrappers over Pointer
//	HostObject, HostFunc - native capabilities exposed into the VM heap
//	Scope         - advisory region for eager handle reclamation
//	ThreadScope   - fire-and-forget task channel out of GC-side finalizers
//	Context       - the facade a concrete backend implements
//
// # Thread confinement
//
// A Context and every handle derived from it are thread-confined, not
// thread-safe: all mutating operations must originate from one logical
// goroutine, or be serialized externally. Releasing a handle is the sole
// exception and may happen from any goroutine; closing a Scope is not an
// exception and must happen on the context's goroutine.
//
// # Shutdown ordering
//
// Every handle created from a Context must be released before the Context
// is closed, except releases performed from host object finalizers running
// as part of the context's own teardown. Violating this ordering is a
// programming error that the layer does not detect.
package jsa
