package engine

import (
	"strings"
	"testing"

	"github.com/wippyai/jsa-runtime/errors"
	"github.com/wippyai/jsa-runtime/jsa"
)

// counterHost exposes a read-only "count" property and records lifecycle
// calls.
type counterHost struct {
	jsa.BaseHostObject
	count     int
	gets      int
	finalized bool
}

func (h *counterHost) Get(ctx jsa.Context, name jsa.PropNameID) (jsa.Value, error) {
	h.gets++
	if name.String(ctx) == "count" {
		return jsa.Int(h.count), nil
	}
	return jsa.Undefined(), nil
}

func (h *counterHost) PropertyNames(ctx jsa.Context) []jsa.PropNameID {
	return []jsa.PropNameID{ctx.CreatePropNameIDFromASCII("count")}
}

func (h *counterHost) Finalize() { h.finalized = true }

// storeHost accepts writes into a map.
type storeHost struct {
	jsa.BaseHostObject
	props map[string]jsa.Value
}

func (h *storeHost) Get(ctx jsa.Context, name jsa.PropNameID) (jsa.Value, error) {
	if v, ok := h.props[name.String(ctx)]; ok {
		return v, nil
	}
	return jsa.Undefined(), nil
}

func (h *storeHost) Set(ctx jsa.Context, name jsa.PropNameID, v jsa.Value) error {
	h.props[name.String(ctx)] = v
	return nil
}

func TestHostObject_GetFromScript(t *testing.T) {
	ctx := newTestContext(t)

	host := &counterHost{count: 7}
	obj := ctx.CreateHostObject(host)

	if !obj.IsHostObject(ctx) {
		t.Fatal("IsHostObject = false")
	}
	back, ok := obj.HostObject(ctx)
	if !ok || back != jsa.HostObject(host) {
		t.Fatal("HostObject did not return the registered implementation")
	}

	global := ctx.Global()
	if err := global.SetProperty(ctx, "counter", jsa.ObjectValue(obj)); err != nil {
		t.Fatal(err)
	}

	v := eval(t, ctx, "counter.count")
	if v.GetNumber() != 7 {
		t.Fatalf("counter.count = %v", v.GetNumber())
	}
	if host.gets == 0 {
		t.Fatal("property read did not dispatch to the host")
	}
}

func TestHostObject_DefaultSetThrowsCatchableTypeError(t *testing.T) {
	ctx := newTestContext(t)

	obj := ctx.CreateHostObject(&counterHost{})
	global := ctx.Global()
	if err := global.SetProperty(ctx, "frozen", jsa.ObjectValue(obj)); err != nil {
		t.Fatal(err)
	}

	// Catchable from sloppy-mode script.
	v := eval(t, ctx, `
		(function () {
			try { frozen.x = 1; return "no throw" }
			catch (e) { return e instanceof TypeError ? "typeerror" : String(e) }
		})()`)
	s, err := v.UTF8(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s != "typeerror" {
		t.Fatalf("sloppy-mode write result = %q, want typeerror", s)
	}

	// And under strict mode.
	v = eval(t, ctx, `
		(function () {
			"use strict";
			try { frozen.x = 1; return "no throw" }
			catch (e) { return e instanceof TypeError ? "typeerror" : String(e) }
		})()`)
	if s, _ := v.UTF8(ctx); s != "typeerror" {
		t.Fatalf("strict-mode write result = %q, want typeerror", s)
	}
}

func TestHostObject_DefaultGetAndNames(t *testing.T) {
	ctx := newTestContext(t)

	type bare struct{ jsa.BaseHostObject }
	obj := ctx.CreateHostObject(&bare{})
	global := ctx.Global()
	if err := global.SetProperty(ctx, "bare", jsa.ObjectValue(obj)); err != nil {
		t.Fatal(err)
	}

	v := eval(t, ctx, "bare.anything")
	if !v.IsUndefined() {
		t.Fatalf("default Get = %v, want undefined", v.Kind())
	}

	v = eval(t, ctx, "Object.keys(bare).length")
	if v.GetNumber() != 0 {
		t.Fatalf("default PropertyNames exposes %v keys", v.GetNumber())
	}
}

func TestHostObject_SetStoresValue(t *testing.T) {
	ctx := newTestContext(t)

	host := &storeHost{props: map[string]jsa.Value{}}
	obj := ctx.CreateHostObject(host)
	global := ctx.Global()
	if err := global.SetProperty(ctx, "store", jsa.ObjectValue(obj)); err != nil {
		t.Fatal(err)
	}

	eval(t, ctx, "store.answer = 42")
	got, ok := host.props["answer"]
	if !ok {
		t.Fatal("write did not dispatch to the host")
	}
	if got.GetNumber() != 42 {
		t.Fatalf("stored value = %v", got.GetNumber())
	}

	v := eval(t, ctx, "store.answer")
	if v.GetNumber() != 42 {
		t.Fatalf("read back = %v", v.GetNumber())
	}
}

func TestHostObject_FinalizeOnClose(t *testing.T) {
	ctx, err := NewGojaContext(nil)
	if err != nil {
		t.Fatal(err)
	}

	host := &counterHost{}
	ctx.CreateHostObject(host)

	if err := ctx.Close(); err != nil {
		t.Fatal(err)
	}
	if !host.finalized {
		t.Fatal("Finalize not called on context close")
	}
}

func TestHostFunction_CallFromScript(t *testing.T) {
	ctx := newTestContext(t)

	name := ctx.CreatePropNameIDFromASCII("add")
	fn := ctx.CreateFunctionFromHostFunc(name, 2, func(c jsa.Context, this jsa.Value, args []jsa.Value) (jsa.Value, error) {
		sum := 0.0
		for _, a := range args {
			sum += a.GetNumber()
		}
		return jsa.Number(sum), nil
	})

	if !fn.IsFunction(ctx) {
		t.Fatal("host function is not a function")
	}
	if !fn.IsHostFunction(ctx) {
		t.Fatal("IsHostFunction = false")
	}
	if _, ok := fn.HostFunc(ctx); !ok {
		t.Fatal("HostFunc lookup failed")
	}

	global := ctx.Global()
	if err := global.SetProperty(ctx, "add", jsa.ObjectValue(fn.Object)); err != nil {
		t.Fatal(err)
	}

	v := eval(t, ctx, "add(2, 3)")
	if v.GetNumber() != 5 {
		t.Fatalf("add(2,3) = %v", v.GetNumber())
	}

	// name and length are observable from script.
	if v := eval(t, ctx, "add.name"); func() string { s, _ := v.UTF8(ctx); return s }() != "add" {
		t.Error("function name not set")
	}
	if v := eval(t, ctx, "add.length"); v.GetNumber() != 2 {
		t.Errorf("function length = %v", v.GetNumber())
	}
}

func TestHostFunction_ErrorIsCatchable(t *testing.T) {
	ctx := newTestContext(t)

	name := ctx.CreatePropNameIDFromASCII("fail")
	fn := ctx.CreateFunctionFromHostFunc(name, 0, func(c jsa.Context, this jsa.Value, args []jsa.Value) (jsa.Value, error) {
		return jsa.Value{}, errors.InvalidInput(errors.PhaseHost, "native failure detail")
	})
	global := ctx.Global()
	if err := global.SetProperty(ctx, "fail", jsa.ObjectValue(fn.Object)); err != nil {
		t.Fatal(err)
	}

	v := eval(t, ctx, "(function () { try { fail() } catch (e) { return String(e) } })()")
	s, err := v.UTF8(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s, "native failure detail") {
		t.Fatalf("caught message %q does not carry the native detail", s)
	}

	// An uncaught host error surfaces as a JSError to the embedder.
	_, err = ctx.EvaluateJavaScript([]byte("fail()"), "host.js", 0)
	if _, ok := errors.IsJSError(err); !ok {
		t.Fatalf("uncaught host error = %T, want JSError", err)
	}
}

func TestHostFunction_ThisAndHandleArgs(t *testing.T) {
	ctx := newTestContext(t)

	var gotThisTag string
	name := ctx.CreatePropNameIDFromASCII("inspect")
	fn := ctx.CreateFunctionFromHostFunc(name, 1, func(c jsa.Context, this jsa.Value, args []jsa.Value) (jsa.Value, error) {
		if this.IsObject() {
			tag, err := this.GetObject().GetProperty(c, "tag")
			if err != nil {
				return jsa.Value{}, err
			}
			gotThisTag, _ = tag.UTF8(c)
		}
		if len(args) > 0 && args[0].IsObject() {
			return args[0].GetObject().GetProperty(c, "inner")
		}
		return jsa.Undefined(), nil
	})
	global := ctx.Global()
	if err := global.SetProperty(ctx, "inspect", jsa.ObjectValue(fn.Object)); err != nil {
		t.Fatal(err)
	}

	v := eval(t, ctx, `({tag: "self", inspect: inspect}).inspect({inner: 99})`)
	if v.GetNumber() != 99 {
		t.Fatalf("returned arg property = %v", v.GetNumber())
	}
	if gotThisTag != "self" {
		t.Fatalf("this.tag = %q", gotThisTag)
	}
}
