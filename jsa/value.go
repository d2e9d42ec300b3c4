package jsa

import (
	"strconv"

	"github.com/wippyai/jsa-runtime/errors"
)

// Kind tags the variants of a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSymbol
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union over undefined, null, boolean, number and the
// pointer-backed handle kinds. A Value is immutable once constructed;
// independent copies are made with Clone, which duplicates the backing
// PointerValue rather than aliasing it.
type Value struct {
	ptr  Pointer
	num  float64
	kind Kind
	b    bool
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a number value from an int.
func Int(i int) Value { return Value{kind: KindNumber, num: float64(i)} }

// StringValue adopts a String handle into a Value. The Value shares the
// handle's lifetime; releasing either releases both.
func StringValue(s String) Value { return Value{kind: KindString, ptr: s.Pointer} }

// SymbolValue adopts a Symbol handle into a Value.
func SymbolValue(s Symbol) Value { return Value{kind: KindSymbol, ptr: s.Pointer} }

// ObjectValue adopts an Object handle into a Value.
func ObjectValue(o Object) Value { return Value{kind: KindObject, ptr: o.Pointer} }

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsBool() bool      { return v.kind == KindBool }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsSymbol() bool    { return v.kind == KindSymbol }
func (v Value) IsObject() bool    { return v.kind == KindObject }

// GetBool returns the boolean payload. Valid only when IsBool.
func (v Value) GetBool() bool { return v.b }

// GetNumber returns the number payload. Valid only when IsNumber.
func (v Value) GetNumber() float64 { return v.num }

// GetString returns the string handle sharing this value's lifetime.
// Valid only when IsString.
func (v Value) GetString() String { return String{v.ptr} }

// GetSymbol returns the symbol handle sharing this value's lifetime.
func (v Value) GetSymbol() Symbol { return Symbol{v.ptr} }

// GetObject returns the object handle sharing this value's lifetime.
func (v Value) GetObject() Object { return Object{v.ptr} }

// AsString returns the string handle or fails if the value is not a string.
func (v Value) AsString() (String, error) {
	if v.kind != KindString {
		return String{}, errors.TypeMismatch(errors.PhaseAPI, v.kind.String(), "string")
	}
	return String{v.ptr}, nil
}

// AsObject returns the object handle or fails if the value is not an object.
func (v Value) AsObject() (Object, error) {
	if v.kind != KindObject {
		return Object{}, errors.TypeMismatch(errors.PhaseAPI, v.kind.String(), "object")
	}
	return Object{v.ptr}, nil
}

// UTF8 extracts a string value's contents.
func (v Value) UTF8(ctx Context) (string, error) {
	s, err := v.AsString()
	if err != nil {
		return "", err
	}
	return s.UTF8(ctx), nil
}

// Clone returns an independent copy. For pointer-backed kinds the backing
// PointerValue is duplicated via the context; primitives copy by value.
func (v Value) Clone(ctx Context) Value {
	switch v.kind {
	case KindString:
		return StringValue(String{v.ptr}.Clone(ctx))
	case KindSymbol:
		return SymbolValue(Symbol{v.ptr}.Clone(ctx))
	case KindObject:
		return ObjectValue(Object{v.ptr}.Clone(ctx))
	default:
		return v
	}
}

// Release ends the lifetime of a pointer-backed value. A no-op for
// primitive kinds. Safe to call from any goroutine.
func (v Value) Release() {
	v.ptr.Release()
}

// IsReleased reports whether a pointer-backed value has been released.
// Primitive kinds are never released.
func (v Value) IsReleased() bool {
	switch v.kind {
	case KindString, KindSymbol, KindObject:
		return v.ptr.IsReleased()
	default:
		return false
	}
}

func (v Value) cellRef() *cell { return v.ptr.c }

// StrictEquals compares per VM semantics: value equality for primitives,
// reference identity for objects. Symmetric for all inputs.
func (v Value) StrictEquals(ctx Context, other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindString:
		return ctx.StrictEqualsString(String{v.ptr}, String{other.ptr})
	case KindSymbol:
		return ctx.StrictEqualsSymbol(Symbol{v.ptr}, Symbol{other.ptr})
	case KindObject:
		return ctx.StrictEqualsObject(Object{v.ptr}, Object{other.ptr})
	}
	return false
}

func errNotCoercible(want string) error {
	return errors.TypeMismatch(errors.PhaseAPI, "object", want)
}
