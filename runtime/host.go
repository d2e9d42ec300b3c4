package runtime

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/wippyai/jsa-runtime/errors"
	"github.com/wippyai/jsa-runtime/jsa"
)

var (
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	jsaValueType = reflect.TypeOf(jsa.Value{})
)

// RegisterHost exposes a Go struct as a global script object. Every
// exported method becomes a property holding a host function; method names
// convert from PascalCase to camelCase (GetValue -> getValue,
// ParseHTTPURL -> parseHTTPURL). Arguments and results convert through the
// same rules as ToValue; a trailing error result becomes a thrown script
// exception.
func (r *Runtime) RegisterHost(name string, h any) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseAPI, "host name cannot be empty")
	}
	rv := reflect.ValueOf(h)
	if !rv.IsValid() {
		return errors.InvalidInput(errors.PhaseAPI, "host cannot be nil")
	}

	obj := r.ctx.CreateObject()
	rt := rv.Type()

	for i := 0; i < rt.NumMethod(); i++ {
		method := rt.Method(i)
		if !method.IsExported() {
			continue
		}

		jsName := toCamelCase(method.Name)
		hostFn, err := adaptMethod(rv.Method(i))
		if err != nil {
			return errors.Registration(name+"."+jsName, err)
		}

		id := r.ctx.CreatePropNameIDFromASCII(jsName)
		fn := r.ctx.CreateFunctionFromHostFunc(id, rv.Method(i).Type().NumIn(), hostFn)
		id.Release()

		if err := obj.SetProperty(r.ctx, jsName, jsa.ObjectValue(fn.Object)); err != nil {
			return errors.Registration(name+"."+jsName, err)
		}
	}

	global := r.ctx.Global()
	defer global.Release()
	if err := global.SetProperty(r.ctx, name, jsa.ObjectValue(obj)); err != nil {
		return errors.Registration(name, err)
	}
	return nil
}

// adaptMethod wraps a reflected Go method as a jsa.HostFunc.
func adaptMethod(fn reflect.Value) (jsa.HostFunc, error) {
	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, errors.Unsupported(errors.PhaseAPI, "variadic host methods")
	}
	if ft.NumOut() > 2 {
		return nil, errors.Unsupported(errors.PhaseAPI, "host methods with more than two results")
	}
	if ft.NumOut() == 2 && ft.Out(1) != errorType {
		return nil, errors.Unsupported(errors.PhaseAPI, "second result must be error")
	}

	return func(ctx jsa.Context, this jsa.Value, args []jsa.Value) (jsa.Value, error) {
		if len(args) < ft.NumIn() {
			return jsa.Undefined(), errors.InvalidInput(errors.PhaseHost,
				"not enough arguments")
		}

		in := make([]reflect.Value, ft.NumIn())
		for i := 0; i < ft.NumIn(); i++ {
			arg, err := valueToReflect(ctx, args[i], ft.In(i))
			if err != nil {
				return jsa.Undefined(), err
			}
			in[i] = arg
		}

		out := fn.Call(in)

		switch ft.NumOut() {
		case 0:
			return jsa.Undefined(), nil
		case 1:
			if ft.Out(0) == errorType {
				if !out[0].IsNil() {
					return jsa.Undefined(), out[0].Interface().(error)
				}
				return jsa.Undefined(), nil
			}
			return ToValue(ctx, out[0].Interface())
		default:
			if !out[1].IsNil() {
				return jsa.Undefined(), out[1].Interface().(error)
			}
			return ToValue(ctx, out[0].Interface())
		}
	}, nil
}

// valueToReflect converts a script argument to the Go parameter type.
func valueToReflect(ctx jsa.Context, v jsa.Value, t reflect.Type) (reflect.Value, error) {
	if t == jsaValueType {
		return reflect.ValueOf(v), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		if !v.IsBool() {
			return reflect.Value{}, argMismatch(v, "boolean")
		}
		return reflect.ValueOf(v.GetBool()).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if !v.IsNumber() {
			return reflect.Value{}, argMismatch(v, "number")
		}
		return reflect.ValueOf(v.GetNumber()).Convert(t), nil

	case reflect.String:
		if !v.IsString() {
			return reflect.Value{}, argMismatch(v, "string")
		}
		return reflect.ValueOf(v.GetString().UTF8(ctx)), nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			obj, err := v.AsObject()
			if err != nil {
				return reflect.Value{}, argMismatch(v, "ArrayBuffer")
			}
			buf, err := obj.AsArrayBuffer(ctx)
			if err != nil {
				return reflect.Value{}, argMismatch(v, "ArrayBuffer")
			}
			data := buf.Data(ctx)
			out := make([]byte, len(data))
			copy(out, data)
			return reflect.ValueOf(out), nil
		}

	case reflect.Interface:
		if t.NumMethod() == 0 {
			exported, err := Export(ctx, v)
			if err != nil {
				return reflect.Value{}, err
			}
			rv := reflect.ValueOf(&exported).Elem()
			return rv, nil
		}
	}

	return reflect.Value{}, errors.New(errors.PhaseHost, errors.KindUnsupported).
		GoType(t.String()).
		Detail("no conversion from JS argument").
		Build()
}

func argMismatch(v jsa.Value, want string) *errors.Error {
	return errors.TypeMismatch(errors.PhaseHost, v.Kind().String(), want)
}

// toCamelCase converts PascalCase to camelCase.
// Acronyms keep their tail: ParseHTTPURL -> parseHTTPURL, ID -> id.
func toCamelCase(s string) string {
	if len(s) == 0 {
		return ""
	}

	runes := []rune(s)

	// Lower the leading uppercase run, keeping its last letter uppercase
	// when it starts the next word: "HTTPServer" -> "httpServer".
	upperEnd := 0
	for upperEnd < len(runes) && unicode.IsUpper(runes[upperEnd]) {
		upperEnd++
	}
	if upperEnd == 0 {
		return s
	}
	if upperEnd > 1 && upperEnd < len(runes) && unicode.IsLower(runes[upperEnd]) {
		upperEnd--
	}

	var result strings.Builder
	for i := 0; i < upperEnd; i++ {
		result.WriteRune(unicode.ToLower(runes[i]))
	}
	result.WriteString(string(runes[upperEnd:]))
	return result.String()
}
