package engine

import (
	"github.com/dop251/goja"

	"github.com/wippyai/jsa-runtime/jsa"
)

// hostObjectAdapter bridges a jsa.HostObject into a goja dynamic object,
// so every VM property access dispatches to the native implementation.
type hostObjectAdapter struct {
	ctx *GojaContext
	ho  jsa.HostObject
}

func (a *hostObjectAdapter) Get(key string) goja.Value {
	id := a.ctx.CreatePropNameIDFromASCII(key)
	defer id.Release()

	v, err := a.ho.Get(a.ctx, id)
	if err != nil {
		panic(a.ctx.throwable(err))
	}
	return a.ctx.toGoja(v)
}

func (a *hostObjectAdapter) Set(key string, val goja.Value) bool {
	id := a.ctx.CreatePropNameIDFromASCII(key)
	defer id.Release()

	if err := a.ho.Set(a.ctx, id, a.ctx.fromGoja(val)); err != nil {
		// Thrown, not reported through the dynamic-object protocol:
		// returning false is only a TypeError under strict callers, and
		// the contract wants host failures catchable everywhere.
		panic(a.ctx.throwable(err))
	}
	return true
}

func (a *hostObjectAdapter) Has(key string) bool {
	for _, id := range a.ho.PropertyNames(a.ctx) {
		if a.ctx.PropNameIDString(id) == key {
			return true
		}
	}
	return false
}

func (a *hostObjectAdapter) Delete(key string) bool {
	// Host objects own their property set; deletion is never forwarded.
	return false
}

func (a *hostObjectAdapter) Keys() []string {
	ids := a.ho.PropertyNames(a.ctx)
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, a.ctx.PropNameIDString(id))
	}
	return keys
}

// CreateHostObject attaches a native HostObject to a fresh VM object.
func (c *GojaContext) CreateHostObject(ho jsa.HostObject) jsa.Object {
	obj := c.vm.NewDynamicObject(&hostObjectAdapter{ctx: c, ho: ho})
	c.hostObjects[obj] = ho
	return jsa.MakeObject(c.newPointer(catObject, obj))
}

// HostObject returns the native implementation behind a host-backed object.
func (c *GojaContext) HostObject(o jsa.Object) (jsa.HostObject, bool) {
	ho, ok := c.hostObjects[derefObject(o)]
	return ho, ok
}

// CreateFunctionFromHostFunc exposes fn as a VM function. A native error
// from fn is wrapped into a VM Error and thrown into script; it never
// crosses the VM boundary as a Go panic.
func (c *GojaContext) CreateFunctionFromHostFunc(name jsa.PropNameID, paramCount int, fn jsa.HostFunc) jsa.Function {
	fnName := c.PropNameIDString(name)

	wrapped := func(call goja.FunctionCall) goja.Value {
		args := make([]jsa.Value, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = c.fromGoja(a)
		}
		this := c.fromGoja(call.This)

		res, err := fn(c, this, args)
		if err != nil {
			panic(c.throwable(err))
		}
		return c.toGoja(res)
	}

	obj := c.vm.ToValue(wrapped).(*goja.Object)
	_ = obj.DefineDataProperty("name", c.vm.ToValue(fnName), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	_ = obj.DefineDataProperty("length", c.vm.ToValue(paramCount), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)

	c.hostFuncs[obj] = fn
	return jsa.MakeFunction(c.newPointer(catObject, obj))
}

// HostFunction returns the native callable behind a host-backed function.
func (c *GojaContext) HostFunction(f jsa.Function) (jsa.HostFunc, bool) {
	fn, ok := c.hostFuncs[derefObject(f)]
	return fn, ok
}
