package jsa

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/wippyai/jsa-runtime/errors"
)

// stubContext satisfies Context for tests that never reach a real VM.
// Methods a test needs are overridden through the function fields; calling
// anything else panics through the nil embedded interface, which is the
// point: it flags an unexpected backend call.
type stubContext struct {
	Context
	pushScope       func() ScopeState
	popScope        func(ScopeState)
	propNameString  func(PropNameID) string
	strictEqualsStr func(a, b String) bool
	cloneString     func(pv PointerValue) PointerValue
}

func (s *stubContext) PushScope() ScopeState {
	if s.pushScope != nil {
		return s.pushScope()
	}
	return nil
}

func (s *stubContext) PopScope(state ScopeState) {
	if s.popScope != nil {
		s.popScope(state)
	}
}

func (s *stubContext) PropNameIDString(p PropNameID) string {
	if s.propNameString != nil {
		return s.propNameString(p)
	}
	return ""
}

func (s *stubContext) StrictEqualsString(a, b String) bool {
	if s.strictEqualsStr != nil {
		return s.strictEqualsStr(a, b)
	}
	return false
}

func (s *stubContext) CloneString(pv PointerValue) PointerValue {
	if s.cloneString != nil {
		return s.cloneString(pv)
	}
	return pv
}

func TestValue_KindsAndPredicates(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"undefined", Undefined(), KindUndefined},
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"number", Number(1.5), KindNumber},
		{"int", Int(3), KindNumber},
		{"string", StringValue(MakeString(&fakePV{})), KindString},
		{"symbol", SymbolValue(MakeSymbol(&fakePV{})), KindSymbol},
		{"object", ObjectValue(MakeObject(&fakePV{})), KindObject},
	}

	for _, tt := range tests {
		if tt.v.Kind() != tt.kind {
			t.Errorf("%s: kind = %v, want %v", tt.name, tt.v.Kind(), tt.kind)
		}
	}

	if !Undefined().IsUndefined() || Undefined().IsNull() {
		t.Error("undefined predicates wrong")
	}
	if !Bool(true).GetBool() || Bool(false).GetBool() {
		t.Error("bool payload wrong")
	}
	if Int(7).GetNumber() != 7 {
		t.Error("int payload wrong")
	}
}

func TestValue_AsConversions(t *testing.T) {
	var e *errors.Error

	_, err := Number(1).AsString()
	if !stderrors.As(err, &e) || e.Kind != errors.KindTypeMismatch {
		t.Fatalf("AsString on number = %v, want type_mismatch", err)
	}

	_, err = Null().AsObject()
	if !stderrors.As(err, &e) || e.Kind != errors.KindTypeMismatch {
		t.Fatalf("AsObject on null = %v, want type_mismatch", err)
	}

	obj := ObjectValue(MakeObject(&fakePV{}))
	if _, err := obj.AsObject(); err != nil {
		t.Fatalf("AsObject on object: %v", err)
	}
}

func TestValue_StrictEqualsPrimitives(t *testing.T) {
	ctx := &stubContext{}

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"undefined==undefined", Undefined(), Undefined(), true},
		{"null==null", Null(), Null(), true},
		{"undefined!=null", Undefined(), Null(), false},
		{"true==true", Bool(true), Bool(true), true},
		{"true!=false", Bool(true), Bool(false), false},
		{"1==1", Number(1), Number(1), true},
		{"1!=2", Number(1), Number(2), false},
		{"NaN!=NaN", Number(math.NaN()), Number(math.NaN()), false},
		{"number!=bool", Number(1), Bool(true), false},
	}

	for _, tt := range tests {
		if got := tt.a.StrictEquals(ctx, tt.b); got != tt.want {
			t.Errorf("%s: StrictEquals = %v, want %v", tt.name, got, tt.want)
		}
		// Symmetry holds for every pair.
		if tt.a.StrictEquals(ctx, tt.b) != tt.b.StrictEquals(ctx, tt.a) {
			t.Errorf("%s: StrictEquals not symmetric", tt.name)
		}
	}
}

func TestValue_StrictEqualsDelegatesForStrings(t *testing.T) {
	called := false
	ctx := &stubContext{
		strictEqualsStr: func(a, b String) bool {
			called = true
			return true
		},
	}

	a := StringValue(MakeString(&fakePV{}))
	b := StringValue(MakeString(&fakePV{}))
	if !a.StrictEquals(ctx, b) {
		t.Fatal("expected delegated comparison to report true")
	}
	if !called {
		t.Fatal("string comparison did not reach the backend")
	}
}

func TestValue_CloneDuplicatesPointer(t *testing.T) {
	origPV := &fakePV{}
	clonePV := &fakePV{}
	ctx := &stubContext{
		cloneString: func(pv PointerValue) PointerValue {
			if pv != PointerValue(origPV) {
				t.Fatal("clone received the wrong resource")
			}
			return clonePV
		},
	}

	orig := StringValue(MakeString(origPV))
	dup := orig.Clone(ctx)

	dup.Release()
	if clonePV.invalidations() != 1 {
		t.Fatal("clone release did not invalidate the duplicate")
	}
	if origPV.invalidations() != 0 {
		t.Fatal("clone release leaked into the original")
	}
	if orig.IsReleased() {
		t.Fatal("original reports released after clone release")
	}
}

func TestValue_ClonePrimitivesCopyByValue(t *testing.T) {
	ctx := &stubContext{}
	v := Number(4.25)
	if got := v.Clone(ctx); got.GetNumber() != 4.25 || got.Kind() != KindNumber {
		t.Fatal("primitive clone changed the value")
	}
}

func TestValue_ReleaseSharesHandleLifetime(t *testing.T) {
	pv := &fakePV{}
	obj := MakeObject(pv)
	v := ObjectValue(obj)

	obj.Release()
	if !v.IsReleased() {
		t.Fatal("value not released through shared handle")
	}
	v.Release()
	if pv.invalidations() != 1 {
		t.Fatalf("invalidations = %d, want 1", pv.invalidations())
	}
}

func TestValue_PrimitivesNeverReleased(t *testing.T) {
	for _, v := range []Value{Undefined(), Null(), Bool(true), Number(1)} {
		if v.IsReleased() {
			t.Errorf("%v reports released", v.Kind())
		}
		v.Release() // no-op, must not panic
	}
}

func TestKind_String(t *testing.T) {
	if KindSymbol.String() != "symbol" || KindObject.String() != "object" {
		t.Fatal("Kind.String labels wrong")
	}
	if Kind(99).String() == "" {
		t.Fatal("unknown kind must still format")
	}
}
