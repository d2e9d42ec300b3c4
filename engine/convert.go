package engine

import (
	"fmt"
	"reflect"

	"github.com/dop251/goja"

	"github.com/wippyai/jsa-runtime/errors"
	"github.com/wippyai/jsa-runtime/jsa"
)

// fromGoja wraps a goja value into a jsa.Value, minting tracked handles
// for pointer-backed kinds.
func (c *GojaContext) fromGoja(v goja.Value) jsa.Value {
	if v == nil || goja.IsUndefined(v) {
		return jsa.Undefined()
	}
	if goja.IsNull(v) {
		return jsa.Null()
	}

	switch tv := v.(type) {
	case *goja.Object:
		return jsa.ObjectValue(jsa.MakeObject(c.newPointer(catObject, tv)))
	case *goja.Symbol:
		return jsa.SymbolValue(jsa.MakeSymbol(c.newPointer(catSymbol, tv)))
	}

	if et := v.ExportType(); et != nil {
		switch et.Kind() {
		case reflect.Bool:
			return jsa.Bool(v.ToBoolean())
		case reflect.String:
			return jsa.StringValue(jsa.MakeString(c.newPointer(catString, v)))
		case reflect.Int64, reflect.Float64:
			return jsa.Number(v.ToFloat())
		}
	}

	// Anything else still boxes to an object.
	return jsa.ObjectValue(jsa.MakeObject(c.newPointer(catObject, v.ToObject(c.vm))))
}

// toGoja unwraps a jsa.Value into the backend representation.
func (c *GojaContext) toGoja(v jsa.Value) goja.Value {
	switch v.Kind() {
	case jsa.KindUndefined:
		return goja.Undefined()
	case jsa.KindNull:
		return goja.Null()
	case jsa.KindBool:
		return c.vm.ToValue(v.GetBool())
	case jsa.KindNumber:
		return c.vm.ToValue(v.GetNumber())
	case jsa.KindString:
		if gv := deref(v.GetString()); gv != nil {
			return gv
		}
	case jsa.KindSymbol:
		if gv := deref(v.GetSymbol()); gv != nil {
			return gv
		}
	case jsa.KindObject:
		if gv := deref(v.GetObject()); gv != nil {
			return gv
		}
	}
	// Released handle: the VM sees undefined rather than a dangling ref.
	return goja.Undefined()
}

// evalError maps a goja failure into the embedder-facing taxonomy.
func (c *GojaContext) evalError(err error, sourceURL string) error {
	switch e := err.(type) {
	case *goja.Exception:
		msg := ""
		var exported any
		if v := e.Value(); v != nil {
			msg = v.String()
			exported = v.Export()
		}
		return &errors.JSError{
			Phase:     errors.PhaseExecute,
			Message:   msg,
			Stack:     e.String(),
			SourceURL: sourceURL,
			Exported:  exported,
			Cause:     e,
		}
	case *goja.CompilerSyntaxError:
		return &errors.JSError{
			Phase:     errors.PhaseParse,
			Message:   e.Error(),
			SourceURL: sourceURL,
			Cause:     e,
		}
	case *goja.CompilerReferenceError:
		return &errors.JSError{
			Phase:     errors.PhaseParse,
			Message:   e.Error(),
			SourceURL: sourceURL,
			Cause:     e,
		}
	case *goja.StackOverflowError:
		return &errors.JSError{
			Phase:     errors.PhaseExecute,
			Message:   "stack overflow",
			SourceURL: sourceURL,
			Cause:     e,
		}
	default:
		return &errors.JSError{
			Phase:     errors.PhaseExecute,
			Message:   err.Error(),
			SourceURL: sourceURL,
			Cause:     err,
		}
	}
}

// guard runs fn and converts a goja throw (or an error panic raised inside
// fn) into an error return.
func (c *GojaContext) guard(op string, fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch rv := r.(type) {
		case *goja.Exception:
			err = c.evalError(rv, "")
		case error:
			err = c.evalError(rv, "")
		case goja.Value:
			err = &errors.JSError{
				Phase:   errors.PhaseExecute,
				Message: rv.String(),
			}
		default:
			err = &errors.APIError{Op: op, Detail: fmt.Sprintf("%v", rv)}
		}
	}()
	fn()
	return nil
}

// throwable converts a native host failure into a value goja will throw as
// a script-visible exception. Frozen-object failures become TypeErrors so
// the default HostObject Set is catchable everywhere; other failures keep
// the native message on a regular Error.
func (c *GojaContext) throwable(err error) goja.Value {
	var structured *errors.Error
	if e, ok := err.(*errors.Error); ok {
		structured = e
	}
	if structured != nil && structured.Kind == errors.KindFrozenObject {
		return c.vm.NewTypeError(structured.Detail)
	}
	return c.vm.NewGoError(err)
}
