package jsa

// Instrumentation is the diagnostic surface of a backend. All methods are
// side-effect-free reads; a backend with nothing to report returns the
// no-op implementation.
type Instrumentation interface {
	// HeapStats returns backend-defined heap metrics, empty when the
	// backend records none.
	HeapStats() map[string]uint64

	// GCStats returns a backend-defined description of collector activity.
	GCStats() string
}

type noopInstrumentation struct{}

func (noopInstrumentation) HeapStats() map[string]uint64 { return nil }
func (noopInstrumentation) GCStats() string              { return "" }

// NoopInstrumentation returns an Instrumentation that records no metrics.
var NoopInstrumentation Instrumentation = noopInstrumentation{}

// Context is a JS execution context backed by a concrete VM. It is the
// sole arbiter of the VM heap: every handle is created by a Context
// factory (or handed to a host callback by the VM), and every accessor
// goes back through the Context.
//
// A Context is thread-confined. See the package documentation for the
// confinement and shutdown-ordering rules.
//
// The factory, accessor, predicate and clone methods below are the backend
// surface; embedders normally reach them through the convenience methods
// on Value and the handle types.
type Context interface {
	// EvaluateJavaScript runs code and returns its completion value.
	// sourceURL annotates stack traces; startLine offsets reported line
	// numbers for sources excerpted from a larger file. code may be UTF-8
	// source or a backend-specific precompiled form; an unknown format or
	// a parse/runtime failure yields a *errors.JSError.
	//
	// This is the slow blanket entry point. Calling a known global
	// function through Global() + property lookup + Call is much faster
	// than re-evaluating source.
	EvaluateJavaScript(code []byte, sourceURL string, startLine int) (Value, error)

	// Global returns the VM global object.
	Global() Object

	// Description returns a short printable description of the backend,
	// for logging and debugging only.
	Description() string

	// IsInspectable reports whether the backend supports remote debugging.
	IsInspectable() bool

	// Instrumentation returns the backend's metrics surface.
	Instrumentation() Instrumentation

	// GlobalImpl exposes the backend's native global handle for advanced
	// interop. Prefer Global.
	GlobalImpl() any

	// BindThreadScope installs the context's ThreadScope. Meaningful at
	// most once, at configuration time.
	BindThreadScope(ts ThreadScope)

	// ThreadScope returns the bound ThreadScope, or nil when none was
	// bound; nil means no cross-thread marshaling is available, not an
	// error.
	ThreadScope() ThreadScope

	// Close tears the context down, releasing every remaining handle.
	Close() error

	// Clone surface: each returns a new PointerValue referencing the same
	// VM resource with independent invalidate semantics. Cloning while the
	// VM is alive does not fail.
	CloneSymbol(pv PointerValue) PointerValue
	CloneString(pv PointerValue) PointerValue
	CloneObject(pv PointerValue) PointerValue
	ClonePropNameID(pv PointerValue) PointerValue

	CreatePropNameIDFromASCII(s string) PropNameID
	CreatePropNameIDFromUTF8(b []byte) PropNameID
	CreatePropNameIDFromString(s String) PropNameID
	PropNameIDString(p PropNameID) string
	PropNameIDEquals(a, b PropNameID) bool

	SymbolToString(s Symbol) string

	CreateStringFromASCII(s string) String
	CreateStringFromUTF8(b []byte) String
	StringUTF8(s String) string

	CreateObject() Object
	CreateHostObject(ho HostObject) Object
	HostObject(o Object) (HostObject, bool)

	GetProperty(o Object, name PropNameID) (Value, error)
	HasProperty(o Object, name PropNameID) bool
	SetProperty(o Object, name PropNameID, v Value) error
	PropertyNames(o Object) (Array, error)

	IsArray(o Object) bool
	IsArrayBuffer(o Object) bool
	IsFunction(o Object) bool
	IsHostObject(o Object) bool
	IsHostFunction(f Function) bool

	CreateWeakObject(o Object) (WeakObject, error)
	LockWeakObject(w WeakObject) Value

	CreateArray(length int) Array
	CreateArrayBuffer(data []byte) ArrayBuffer
	ArraySize(a Array) int
	ArrayBufferSize(b ArrayBuffer) int
	ArrayBufferData(b ArrayBuffer) []byte
	ValueAtIndex(a Array, i int) (Value, error)
	SetValueAtIndex(a Array, i int, v Value) error

	// CreateFunctionFromHostFunc exposes fn as a VM function with the
	// given name and declared arity.
	CreateFunctionFromHostFunc(name PropNameID, paramCount int, fn HostFunc) Function
	HostFunction(f Function) (HostFunc, bool)

	// Call invokes f synchronously and returns only after the VM
	// completes or throws.
	Call(f Function, this Value, args []Value) (Value, error)
	CallAsConstructor(f Function, args []Value) (Value, error)

	// Scope surface, advisory. A backend may return nil from PushScope
	// and ignore PopScope.
	PushScope() ScopeState
	PopScope(state ScopeState)

	StrictEqualsSymbol(a, b Symbol) bool
	StrictEqualsString(a, b String) bool
	StrictEqualsObject(a, b Object) bool

	InstanceOf(o Object, f Function) (bool, error)
}
