package engine

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/wippyai/jsa-runtime/errors"
	"github.com/wippyai/jsa-runtime/jsa"
	"github.com/wippyai/jsa-runtime/resource"
)

// Config holds configuration for context creation.
type Config struct {
	// MaxCallStackSize bounds JS recursion depth. 0 means the goja
	// default (unbounded until Go stack exhaustion).
	MaxCallStackSize int

	// DisableEagerScopes makes PushScope/PopScope advisory no-ops;
	// handles are then reclaimed only at context teardown.
	DisableEagerScopes bool

	// Logger overrides the package logger for this context.
	Logger *zap.Logger
}

// GojaContext implements jsa.Context on a goja runtime.
type GojaContext struct {
	vm      *goja.Runtime
	tracker *resource.Tracker
	log     *zap.Logger

	threadScope jsa.ThreadScope

	hostObjects map[*goja.Object]jsa.HostObject
	hostFuncs   map[*goja.Object]jsa.HostFunc

	// Helpers compiled once at construction; goja has no direct host API
	// for these operations.
	hasPropFn  goja.Callable // (o, k) => k in o
	instanceFn goja.Callable // (o, f) => o instanceof f

	eagerScopes bool
	closed      bool
}

var _ jsa.Context = (*GojaContext)(nil)

const helperSource = `({
	hasProp: function (o, k) { return k in o; },
	instanceOf: function (o, f) { return o instanceof f; }
})`

// NewGojaContext creates a live context. The returned context is confined
// to the calling goroutine.
func NewGojaContext(cfg *Config) (*GojaContext, error) {
	c := &GojaContext{
		vm:          goja.New(),
		tracker:     resource.NewTracker(),
		log:         Logger(),
		hostObjects: make(map[*goja.Object]jsa.HostObject),
		hostFuncs:   make(map[*goja.Object]jsa.HostFunc),
		eagerScopes: true,
	}
	if cfg != nil {
		if cfg.Logger != nil {
			c.log = cfg.Logger
		}
		if cfg.MaxCallStackSize > 0 {
			c.vm.SetMaxCallStackSize(cfg.MaxCallStackSize)
		}
		if cfg.DisableEagerScopes {
			c.eagerScopes = false
		}
	}

	if err := c.compileHelpers(); err != nil {
		return nil, err
	}

	c.log.Debug("jsa context created", zap.String("backend", c.Description()))
	return c, nil
}

func (c *GojaContext) compileHelpers() error {
	v, err := c.vm.RunScript("jsa:helpers", helperSource)
	if err != nil {
		return errors.Wrap(errors.PhaseParse, errors.KindSyntax, err, "compile context helpers")
	}
	obj := v.ToObject(c.vm)

	get := func(name string) (goja.Callable, bool) {
		fn, ok := goja.AssertFunction(obj.Get(name))
		return fn, ok
	}

	var ok bool
	if c.hasPropFn, ok = get("hasProp"); !ok {
		return errors.NotInitialized(errors.PhaseParse, "hasProp helper")
	}
	if c.instanceFn, ok = get("instanceOf"); !ok {
		return errors.NotInitialized(errors.PhaseParse, "instanceOf helper")
	}
	return nil
}

// EvaluateJavaScript runs code and returns its completion value. This is
// the slow blanket entry point; prefer Global + property lookup + Call for
// hot paths.
func (c *GojaContext) EvaluateJavaScript(code []byte, sourceURL string, startLine int) (jsa.Value, error) {
	if sourceURL == "" {
		sourceURL = "<eval>"
	}
	src := string(code)
	if startLine > 1 {
		// goja has no start-line offset; pad so stack traces line up with
		// the enclosing document.
		src = strings.Repeat("\n", startLine-1) + src
	}

	// Compile separately so syntax errors surface as compiler errors
	// instead of a thrown SyntaxError from inside the VM.
	prog, err := goja.Compile(sourceURL, src, false)
	if err != nil {
		return jsa.Undefined(), c.evalError(err, sourceURL)
	}
	res, err := c.vm.RunProgram(prog)
	if err != nil {
		return jsa.Undefined(), c.evalError(err, sourceURL)
	}
	return c.fromGoja(res), nil
}

// Global returns the VM global object.
func (c *GojaContext) Global() jsa.Object {
	return jsa.MakeObject(c.newPointer(catObject, c.vm.GlobalObject()))
}

// Description identifies the backend for logging and debugging.
func (c *GojaContext) Description() string {
	return "goja (pure Go ECMAScript)"
}

// IsInspectable reports remote-debugging support; goja has none.
func (c *GojaContext) IsInspectable() bool { return false }

// Instrumentation exposes handle-table metrics.
func (c *GojaContext) Instrumentation() jsa.Instrumentation {
	return contextInstrumentation{c}
}

// GlobalImpl returns the underlying *goja.Runtime for advanced interop.
func (c *GojaContext) GlobalImpl() any { return c.vm }

// BindThreadScope installs the cross-thread task channel. Only the first
// bind takes effect.
func (c *GojaContext) BindThreadScope(ts jsa.ThreadScope) {
	if c.threadScope != nil {
		c.log.Warn("thread scope already bound, ignoring rebind")
		return
	}
	c.threadScope = ts
}

// ThreadScope returns the bound task channel, or nil when none was bound.
func (c *GojaContext) ThreadScope() jsa.ThreadScope { return c.threadScope }

// Close tears the context down: finalizes host objects, invalidates every
// remaining handle, and drops the VM.
func (c *GojaContext) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	// Host finalizers may only be reached during teardown here; goja hands
	// object memory to the Go collector, which gives no per-object hook.
	for _, ho := range c.hostObjects {
		if f, ok := ho.(jsa.HostFinalizer); ok {
			f.Finalize()
		}
	}
	c.hostObjects = nil
	c.hostFuncs = nil

	c.tracker.Close()
	c.log.Debug("jsa context closed")
	return nil
}

// Clone surface.

func (c *GojaContext) CloneSymbol(pv jsa.PointerValue) jsa.PointerValue {
	return clonePointer(c, catSymbol, pv)
}

func (c *GojaContext) CloneString(pv jsa.PointerValue) jsa.PointerValue {
	return clonePointer(c, catString, pv)
}

func (c *GojaContext) CloneObject(pv jsa.PointerValue) jsa.PointerValue {
	return clonePointer(c, catObject, pv)
}

func (c *GojaContext) ClonePropNameID(pv jsa.PointerValue) jsa.PointerValue {
	return clonePointer(c, catPropName, pv)
}

// PropNameID surface. goja addresses properties by string, so prop names
// carry a plain string payload.

func (c *GojaContext) CreatePropNameIDFromASCII(s string) jsa.PropNameID {
	return jsa.MakePropNameID(c.newNamePointer(s))
}

func (c *GojaContext) CreatePropNameIDFromUTF8(b []byte) jsa.PropNameID {
	return jsa.MakePropNameID(c.newNamePointer(string(b)))
}

func (c *GojaContext) CreatePropNameIDFromString(s jsa.String) jsa.PropNameID {
	return jsa.MakePropNameID(c.newNamePointer(c.StringUTF8(s)))
}

func (c *GojaContext) PropNameIDString(p jsa.PropNameID) string {
	return derefName(p)
}

func (c *GojaContext) PropNameIDEquals(a, b jsa.PropNameID) bool {
	return derefName(a) == derefName(b)
}

// Symbol surface.

func (c *GojaContext) SymbolToString(s jsa.Symbol) string {
	v := deref(s)
	if v == nil {
		return ""
	}
	return v.String()
}

// String surface.

func (c *GojaContext) CreateStringFromASCII(s string) jsa.String {
	return jsa.MakeString(c.newPointer(catString, c.vm.ToValue(s)))
}

func (c *GojaContext) CreateStringFromUTF8(b []byte) jsa.String {
	return jsa.MakeString(c.newPointer(catString, c.vm.ToValue(string(b))))
}

func (c *GojaContext) StringUTF8(s jsa.String) string {
	v := deref(s)
	if v == nil {
		return ""
	}
	return v.String()
}

// Object surface.

func (c *GojaContext) CreateObject() jsa.Object {
	return jsa.MakeObject(c.newPointer(catObject, c.vm.NewObject()))
}

func (c *GojaContext) GetProperty(o jsa.Object, name jsa.PropNameID) (jsa.Value, error) {
	obj := derefObject(o)
	if obj == nil {
		return jsa.Undefined(), errors.InvalidHandle(errors.PhaseAPI, "get property on released object")
	}

	var got goja.Value
	err := c.guard("GetProperty", func() {
		got = obj.Get(derefName(name))
	})
	if err != nil {
		return jsa.Undefined(), err
	}
	return c.fromGoja(got), nil
}

func (c *GojaContext) HasProperty(o jsa.Object, name jsa.PropNameID) bool {
	obj := derefObject(o)
	if obj == nil {
		return false
	}
	res, err := c.hasPropFn(goja.Undefined(), obj, c.vm.ToValue(derefName(name)))
	if err != nil {
		return false
	}
	return res.ToBoolean()
}

func (c *GojaContext) SetProperty(o jsa.Object, name jsa.PropNameID, v jsa.Value) error {
	obj := derefObject(o)
	if obj == nil {
		return errors.InvalidHandle(errors.PhaseAPI, "set property on released object")
	}

	return c.guard("SetProperty", func() {
		if err := obj.Set(derefName(name), c.toGoja(v)); err != nil {
			panic(err)
		}
	})
}

func (c *GojaContext) PropertyNames(o jsa.Object) (jsa.Array, error) {
	obj := derefObject(o)
	if obj == nil {
		return jsa.Array{}, errors.InvalidHandle(errors.PhaseAPI, "property names of released object")
	}

	var arr *goja.Object
	err := c.guard("PropertyNames", func() {
		keys := obj.Keys()
		items := make([]any, len(keys))
		for i, k := range keys {
			items[i] = k
		}
		arr = c.vm.NewArray(items...)
	})
	if err != nil {
		return jsa.Array{}, err
	}
	return jsa.MakeArray(c.newPointer(catObject, arr)), nil
}

// Type predicates. All O(1), no side effects.

func (c *GojaContext) IsArray(o jsa.Object) bool {
	obj := derefObject(o)
	return obj != nil && obj.ClassName() == "Array"
}

func (c *GojaContext) IsArrayBuffer(o jsa.Object) bool {
	obj := derefObject(o)
	if obj == nil {
		return false
	}
	_, ok := obj.Export().(goja.ArrayBuffer)
	return ok
}

func (c *GojaContext) IsFunction(o jsa.Object) bool {
	obj := derefObject(o)
	if obj == nil {
		return false
	}
	_, ok := goja.AssertFunction(obj)
	return ok
}

func (c *GojaContext) IsHostObject(o jsa.Object) bool {
	_, ok := c.hostObjects[derefObject(o)]
	return ok
}

func (c *GojaContext) IsHostFunction(f jsa.Function) bool {
	_, ok := c.hostFuncs[derefObject(f)]
	return ok
}

// Weak references. The weak handle does not keep the referent alive; once
// the Go collector reclaims the object, LockWeakObject returns undefined.

func (c *GojaContext) CreateWeakObject(o jsa.Object) (jsa.WeakObject, error) {
	obj := derefObject(o)
	if obj == nil {
		return jsa.WeakObject{}, errors.InvalidHandle(errors.PhaseAPI, "weak reference to released object")
	}
	return jsa.MakeWeakObject(c.newWeakPointer(obj)), nil
}

func (c *GojaContext) LockWeakObject(w jsa.WeakObject) jsa.Value {
	gp, ok := jsa.GetPointerValue(w).(*gojaPointer)
	if !ok || gp == nil || gp.released.Load() {
		return jsa.Undefined()
	}
	obj := gp.ref.Value()
	if obj == nil {
		return jsa.Undefined()
	}
	return c.fromGoja(obj)
}

// Array and ArrayBuffer surface.

func (c *GojaContext) CreateArray(length int) jsa.Array {
	arr := c.vm.NewArray()
	if length > 0 {
		_ = arr.Set("length", length)
	}
	return jsa.MakeArray(c.newPointer(catObject, arr))
}

func (c *GojaContext) CreateArrayBuffer(data []byte) jsa.ArrayBuffer {
	buf := c.vm.NewArrayBuffer(data)
	obj := c.vm.ToValue(buf).(*goja.Object)
	return jsa.MakeArrayBuffer(c.newPointer(catObject, obj))
}

func (c *GojaContext) ArraySize(a jsa.Array) int {
	obj := derefObject(a)
	if obj == nil {
		return 0
	}
	return int(obj.Get("length").ToInteger())
}

func (c *GojaContext) ArrayBufferSize(b jsa.ArrayBuffer) int {
	return len(c.ArrayBufferData(b))
}

func (c *GojaContext) ArrayBufferData(b jsa.ArrayBuffer) []byte {
	obj := derefObject(b)
	if obj == nil {
		return nil
	}
	if ab, ok := obj.Export().(goja.ArrayBuffer); ok {
		return ab.Bytes()
	}
	return nil
}

func (c *GojaContext) ValueAtIndex(a jsa.Array, i int) (jsa.Value, error) {
	obj := derefObject(a)
	if obj == nil {
		return jsa.Undefined(), errors.InvalidHandle(errors.PhaseAPI, "index into released array")
	}
	if n := c.ArraySize(a); i < 0 || i >= n {
		return jsa.Undefined(), errors.OutOfBounds(errors.PhaseAPI, i, n)
	}

	var got goja.Value
	err := c.guard("ValueAtIndex", func() {
		got = obj.Get(strconv.Itoa(i))
	})
	if err != nil {
		return jsa.Undefined(), err
	}
	return c.fromGoja(got), nil
}

func (c *GojaContext) SetValueAtIndex(a jsa.Array, i int, v jsa.Value) error {
	obj := derefObject(a)
	if obj == nil {
		return errors.InvalidHandle(errors.PhaseAPI, "index into released array")
	}
	if n := c.ArraySize(a); i < 0 || i >= n {
		return errors.OutOfBounds(errors.PhaseAPI, i, n)
	}

	return c.guard("SetValueAtIndex", func() {
		if err := obj.Set(strconv.Itoa(i), c.toGoja(v)); err != nil {
			panic(err)
		}
	})
}

// Function surface.

func (c *GojaContext) Call(f jsa.Function, this jsa.Value, args []jsa.Value) (jsa.Value, error) {
	obj := derefObject(f)
	if obj == nil {
		return jsa.Undefined(), errors.InvalidHandle(errors.PhaseAPI, "call on released function")
	}
	callable, ok := goja.AssertFunction(obj)
	if !ok {
		return jsa.Undefined(), &errors.APIError{Op: "Call", Detail: "value is not callable"}
	}

	gargs := make([]goja.Value, len(args))
	for i, a := range args {
		gargs[i] = c.toGoja(a)
	}

	res, err := callable(c.toGoja(this), gargs...)
	if err != nil {
		return jsa.Undefined(), c.evalError(err, "")
	}
	return c.fromGoja(res), nil
}

func (c *GojaContext) CallAsConstructor(f jsa.Function, args []jsa.Value) (jsa.Value, error) {
	obj := derefObject(f)
	if obj == nil {
		return jsa.Undefined(), errors.InvalidHandle(errors.PhaseAPI, "construct on released function")
	}

	gargs := make([]goja.Value, len(args))
	for i, a := range args {
		gargs[i] = c.toGoja(a)
	}

	res, err := c.vm.New(obj, gargs...)
	if err != nil {
		return jsa.Undefined(), c.evalError(err, "")
	}
	return c.fromGoja(res), nil
}

// Equality and instanceOf.

func (c *GojaContext) StrictEqualsSymbol(a, b jsa.Symbol) bool { return strictEquals(deref(a), deref(b)) }
func (c *GojaContext) StrictEqualsString(a, b jsa.String) bool { return strictEquals(deref(a), deref(b)) }
func (c *GojaContext) StrictEqualsObject(a, b jsa.Object) bool { return strictEquals(deref(a), deref(b)) }

func strictEquals(a, b goja.Value) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StrictEquals(b)
}

func (c *GojaContext) InstanceOf(o jsa.Object, f jsa.Function) (bool, error) {
	obj, fn := derefObject(o), derefObject(f)
	if obj == nil || fn == nil {
		return false, errors.InvalidHandle(errors.PhaseAPI, "instanceOf on released handle")
	}
	res, err := c.instanceFn(goja.Undefined(), obj, fn)
	if err != nil {
		return false, c.evalError(err, "")
	}
	return res.ToBoolean(), nil
}

// contextInstrumentation reads handle-table metrics. Side-effect free.
type contextInstrumentation struct {
	c *GojaContext
}

func (i contextInstrumentation) HeapStats() map[string]uint64 {
	return map[string]uint64{
		"tracked_handles": uint64(i.c.tracker.Len()),
	}
}

func (i contextInstrumentation) GCStats() string { return "" }
