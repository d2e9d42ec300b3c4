package runtime

import (
	"fmt"
	"reflect"

	"github.com/wippyai/jsa-runtime/errors"
	"github.com/wippyai/jsa-runtime/jsa"
)

// ToValue converts a Go value into a jsa.Value on ctx. Supported: nil,
// booleans, all integer and float widths, strings, []byte (as
// ArrayBuffer), []any, map[string]any, and jsa handle types passed
// through as-is.
func ToValue(ctx jsa.Context, v any) (jsa.Value, error) {
	switch tv := v.(type) {
	case nil:
		return jsa.Null(), nil
	case jsa.Value:
		return tv, nil
	case jsa.Object:
		return jsa.ObjectValue(tv), nil
	case jsa.Array:
		return jsa.ObjectValue(tv.Object), nil
	case jsa.Function:
		return jsa.ObjectValue(tv.Object), nil
	case jsa.String:
		return jsa.StringValue(tv), nil
	case jsa.Symbol:
		return jsa.SymbolValue(tv), nil
	case bool:
		return jsa.Bool(tv), nil
	case string:
		return jsa.StringValue(ctx.CreateStringFromUTF8([]byte(tv))), nil
	case []byte:
		return jsa.ObjectValue(ctx.CreateArrayBuffer(tv).Object), nil
	case int:
		return jsa.Int(tv), nil
	case int8:
		return jsa.Number(float64(tv)), nil
	case int16:
		return jsa.Number(float64(tv)), nil
	case int32:
		return jsa.Number(float64(tv)), nil
	case int64:
		return jsa.Number(float64(tv)), nil
	case uint:
		return jsa.Number(float64(tv)), nil
	case uint8:
		return jsa.Number(float64(tv)), nil
	case uint16:
		return jsa.Number(float64(tv)), nil
	case uint32:
		return jsa.Number(float64(tv)), nil
	case uint64:
		return jsa.Number(float64(tv)), nil
	case float32:
		return jsa.Number(float64(tv)), nil
	case float64:
		return jsa.Number(tv), nil
	case []any:
		arr := ctx.CreateArray(len(tv))
		for i, item := range tv {
			jv, err := ToValue(ctx, item)
			if err != nil {
				return jsa.Undefined(), err
			}
			if err := arr.SetValueAtIndex(ctx, i, jv); err != nil {
				return jsa.Undefined(), err
			}
		}
		return jsa.ObjectValue(arr.Object), nil
	case map[string]any:
		obj := ctx.CreateObject()
		for k, item := range tv {
			jv, err := ToValue(ctx, item)
			if err != nil {
				return jsa.Undefined(), err
			}
			if err := obj.SetProperty(ctx, k, jv); err != nil {
				return jsa.Undefined(), err
			}
		}
		return jsa.ObjectValue(obj), nil
	default:
		return jsa.Undefined(), errors.New(errors.PhaseAPI, errors.KindUnsupported).
			GoType(reflect.TypeOf(v).String()).
			Detail("no JS conversion for Go value").
			Build()
	}
}

// Export converts a jsa.Value back into plain Go data: nil, bool, float64,
// string, []any for arrays, map[string]any for objects, []byte for
// ArrayBuffers. Functions and symbols export as their printable string.
// Cycles are cut off by depth.
func Export(ctx jsa.Context, v jsa.Value) (any, error) {
	return exportValue(ctx, v, 0)
}

const maxExportDepth = 32

func exportValue(ctx jsa.Context, v jsa.Value, depth int) (any, error) {
	if depth > maxExportDepth {
		return nil, errors.InvalidInput(errors.PhaseAPI, "export depth exceeded")
	}

	switch v.Kind() {
	case jsa.KindUndefined, jsa.KindNull:
		return nil, nil
	case jsa.KindBool:
		return v.GetBool(), nil
	case jsa.KindNumber:
		return v.GetNumber(), nil
	case jsa.KindString:
		return v.GetString().UTF8(ctx), nil
	case jsa.KindSymbol:
		return v.GetSymbol().ToString(ctx), nil
	case jsa.KindObject:
		return exportObject(ctx, v.GetObject(), depth)
	}
	return nil, errors.InvalidInput(errors.PhaseAPI, fmt.Sprintf("unknown value kind %v", v.Kind()))
}

func exportObject(ctx jsa.Context, o jsa.Object, depth int) (any, error) {
	switch {
	case ctx.IsArrayBuffer(o):
		buf, err := o.AsArrayBuffer(ctx)
		if err != nil {
			return nil, err
		}
		data := buf.Data(ctx)
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil

	case ctx.IsArray(o):
		arr, err := o.AsArray(ctx)
		if err != nil {
			return nil, err
		}
		n := arr.Size(ctx)
		out := make([]any, n)
		for i := 0; i < n; i++ {
			item, err := arr.ValueAtIndex(ctx, i)
			if err != nil {
				return nil, err
			}
			if out[i], err = exportValue(ctx, item, depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil

	case ctx.IsFunction(o):
		return "[function]", nil

	default:
		names, err := o.PropertyNames(ctx)
		if err != nil {
			return nil, err
		}
		n := names.Size(ctx)
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			kv, err := names.ValueAtIndex(ctx, i)
			if err != nil {
				return nil, err
			}
			key, err := kv.UTF8(ctx)
			if err != nil {
				return nil, err
			}
			pv, err := o.GetProperty(ctx, key)
			if err != nil {
				return nil, err
			}
			if out[key], err = exportValue(ctx, pv, depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}
