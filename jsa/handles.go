package jsa

// Handle types are thin typed views over Pointer. Typed views obtained from
// an Object (AsArray, AsFunction, ...) share the underlying handle lifetime
// rather than cloning it; use Clone when an independent lifetime is needed.

// PropNameID identifies a property name. Backends may intern these, so
// comparing two PropNameIDs through Equals is cheaper than comparing the
// extracted strings.
type PropNameID struct {
	Pointer
}

// String returns the property name as UTF-8.
func (p PropNameID) String(ctx Context) string {
	return ctx.PropNameIDString(p)
}

// Equals reports whether two property names are the same per VM semantics.
func (p PropNameID) Equals(ctx Context, other PropNameID) bool {
	return ctx.PropNameIDEquals(p, other)
}

// Clone returns an independent PropNameID for the same name.
func (p PropNameID) Clone(ctx Context) PropNameID {
	return MakePropNameID(ctx.ClonePropNameID(GetPointerValue(p)))
}

// Symbol wraps a VM symbol.
type Symbol struct {
	Pointer
}

// ToString returns the symbol's description, e.g. "Symbol(tag)".
func (s Symbol) ToString(ctx Context) string {
	return ctx.SymbolToString(s)
}

// StrictEquals reports identity per VM semantics.
func (s Symbol) StrictEquals(ctx Context, other Symbol) bool {
	return ctx.StrictEqualsSymbol(s, other)
}

// Clone returns an independent handle to the same symbol.
func (s Symbol) Clone(ctx Context) Symbol {
	return MakeSymbol(ctx.CloneSymbol(GetPointerValue(s)))
}

// String wraps a VM string.
type String struct {
	Pointer
}

// UTF8 extracts the string contents.
func (s String) UTF8(ctx Context) string {
	return ctx.StringUTF8(s)
}

// StrictEquals reports value equality per VM semantics.
func (s String) StrictEquals(ctx Context, other String) bool {
	return ctx.StrictEqualsString(s, other)
}

// Clone returns an independent handle to the same string.
func (s String) Clone(ctx Context) String {
	return MakeString(ctx.CloneString(GetPointerValue(s)))
}

// Object wraps a VM object.
type Object struct {
	Pointer
}

// Clone returns an independent handle to the same object.
func (o Object) Clone(ctx Context) Object {
	return MakeObject(ctx.CloneObject(GetPointerValue(o)))
}

// GetProperty reads a property by name.
func (o Object) GetProperty(ctx Context, name string) (Value, error) {
	id := ctx.CreatePropNameIDFromUTF8([]byte(name))
	defer id.Release()
	return ctx.GetProperty(o, id)
}

// GetPropertyID reads a property by PropNameID.
func (o Object) GetPropertyID(ctx Context, name PropNameID) (Value, error) {
	return ctx.GetProperty(o, name)
}

// HasProperty reports whether the object has the named property.
func (o Object) HasProperty(ctx Context, name string) bool {
	id := ctx.CreatePropNameIDFromUTF8([]byte(name))
	defer id.Release()
	return ctx.HasProperty(o, id)
}

// SetProperty writes a property by name.
func (o Object) SetProperty(ctx Context, name string, v Value) error {
	id := ctx.CreatePropNameIDFromUTF8([]byte(name))
	defer id.Release()
	return ctx.SetProperty(o, id, v)
}

// SetPropertyID writes a property by PropNameID.
func (o Object) SetPropertyID(ctx Context, name PropNameID, v Value) error {
	return ctx.SetProperty(o, name, v)
}

// PropertyNames returns the object's enumerable property names.
func (o Object) PropertyNames(ctx Context) (Array, error) {
	return ctx.PropertyNames(o)
}

// IsArray reports whether the object is a VM array. O(1), no side effects.
func (o Object) IsArray(ctx Context) bool { return ctx.IsArray(o) }

// IsArrayBuffer reports whether the object is an ArrayBuffer.
func (o Object) IsArrayBuffer(ctx Context) bool { return ctx.IsArrayBuffer(o) }

// IsFunction reports whether the object is callable.
func (o Object) IsFunction(ctx Context) bool { return ctx.IsFunction(o) }

// IsHostObject reports whether the object is backed by a native HostObject.
func (o Object) IsHostObject(ctx Context) bool { return ctx.IsHostObject(o) }

// HostObject returns the native HostObject backing this object, if any.
func (o Object) HostObject(ctx Context) (HostObject, bool) {
	return ctx.HostObject(o)
}

// AsArray returns an Array view of the object. The view shares the
// receiver's handle lifetime.
func (o Object) AsArray(ctx Context) (Array, error) {
	if !ctx.IsArray(o) {
		return Array{}, errNotCoercible("Array")
	}
	return Array{o}, nil
}

// AsArrayBuffer returns an ArrayBuffer view of the object.
func (o Object) AsArrayBuffer(ctx Context) (ArrayBuffer, error) {
	if !ctx.IsArrayBuffer(o) {
		return ArrayBuffer{}, errNotCoercible("ArrayBuffer")
	}
	return ArrayBuffer{o}, nil
}

// AsFunction returns a Function view of the object.
func (o Object) AsFunction(ctx Context) (Function, error) {
	if !ctx.IsFunction(o) {
		return Function{}, errNotCoercible("Function")
	}
	return Function{o}, nil
}

// InstanceOf reports whether the object is an instance of f.
func (o Object) InstanceOf(ctx Context, f Function) (bool, error) {
	return ctx.InstanceOf(o, f)
}

// StrictEquals reports reference identity per VM semantics.
func (o Object) StrictEquals(ctx Context, other Object) bool {
	return ctx.StrictEqualsObject(o, other)
}

// Array is an Object known to be a VM array.
type Array struct {
	Object
}

// Size returns the array length.
func (a Array) Size(ctx Context) int { return ctx.ArraySize(a) }

// ValueAtIndex reads the i-th element.
func (a Array) ValueAtIndex(ctx Context, i int) (Value, error) {
	return ctx.ValueAtIndex(a, i)
}

// SetValueAtIndex writes the i-th element.
func (a Array) SetValueAtIndex(ctx Context, i int, v Value) error {
	return ctx.SetValueAtIndex(a, i, v)
}

// ArrayBuffer is an Object known to be a VM ArrayBuffer.
type ArrayBuffer struct {
	Object
}

// Size returns the buffer length in bytes.
func (b ArrayBuffer) Size(ctx Context) int { return ctx.ArrayBufferSize(b) }

// Data returns the buffer contents. The slice aliases VM memory and is only
// valid while the handle is live and the context is not re-entered.
func (b ArrayBuffer) Data(ctx Context) []byte { return ctx.ArrayBufferData(b) }

// Function is an Object known to be callable.
type Function struct {
	Object
}

// Call invokes the function with undefined `this`.
func (f Function) Call(ctx Context, args ...Value) (Value, error) {
	return ctx.Call(f, Undefined(), args)
}

// CallWithThis invokes the function with an explicit `this` value.
func (f Function) CallWithThis(ctx Context, this Value, args ...Value) (Value, error) {
	return ctx.Call(f, this, args)
}

// CallAsConstructor invokes the function as `new f(...)`.
func (f Function) CallAsConstructor(ctx Context, args ...Value) (Value, error) {
	return ctx.CallAsConstructor(f, args)
}

// IsHostFunction reports whether the function is backed by a native HostFunc.
func (f Function) IsHostFunction(ctx Context) bool {
	return ctx.IsHostFunction(f)
}

// HostFunc returns the native callable backing this function, if any.
func (f Function) HostFunc(ctx Context) (HostFunc, bool) {
	return ctx.HostFunction(f)
}

// WeakObject is a weak reference to an Object. It never extends the
// referent's lifetime; once the VM has reclaimed the referent, Lock
// resolves to undefined.
type WeakObject struct {
	Pointer
}

// Lock returns a strong Value for the referent, or undefined if the
// referent has been collected.
func (w WeakObject) Lock(ctx Context) Value {
	return ctx.LockWeakObject(w)
}

// Factories below construct handles from raw backend resources. They are
// the only way to build a handle outside this package, which keeps
// PointerValue internals confined to backend code.

// MakePropNameID wraps a backend resource as a PropNameID.
func MakePropNameID(pv PointerValue) PropNameID {
	return PropNameID{makePointer(pv)}
}

// MakeSymbol wraps a backend resource as a Symbol.
func MakeSymbol(pv PointerValue) Symbol {
	return Symbol{makePointer(pv)}
}

// MakeString wraps a backend resource as a String.
func MakeString(pv PointerValue) String {
	return String{makePointer(pv)}
}

// MakeObject wraps a backend resource as an Object.
func MakeObject(pv PointerValue) Object {
	return Object{makePointer(pv)}
}

// MakeArray wraps a backend resource as an Array.
func MakeArray(pv PointerValue) Array {
	return Array{MakeObject(pv)}
}

// MakeArrayBuffer wraps a backend resource as an ArrayBuffer.
func MakeArrayBuffer(pv PointerValue) ArrayBuffer {
	return ArrayBuffer{MakeObject(pv)}
}

// MakeFunction wraps a backend resource as a Function.
func MakeFunction(pv PointerValue) Function {
	return Function{MakeObject(pv)}
}

// MakeWeakObject wraps a backend resource as a WeakObject.
func MakeWeakObject(pv PointerValue) WeakObject {
	return WeakObject{makePointer(pv)}
}
