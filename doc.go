// Package jsaruntime provides a JavaScript engine abstraction for Go.
//
// The library wraps a concrete ECMAScript engine behind an engine-neutral
// bridge, so embedding code compiles against one API regardless of which
// VM executes the scripts.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	jsa-runtime/         Root package with version information
//	├── jsa/             Engine-neutral bridge: Value, handles, Context
//	├── engine/          goja-backed Context implementation
//	├── runtime/         High-level embedding facade and Go<->JS conversion
//	├── resource/        Handle lifecycle table with scoped reclamation
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Evaluate a script and call into it:
//
//	rt, err := runtime.New(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	if _, err := rt.Eval("function greet(n) { return 'Hello, ' + n }"); err != nil {
//	    log.Fatal(err)
//	}
//	v, err := rt.Call("greet", "World")
//	fmt.Println(v) // "Hello, World"
//
// # Host Integration
//
// Expose Go code into script through host functions and host objects:
//
//	rt.RegisterFunc("now", func(ctx jsa.Context, this jsa.Value, args []jsa.Value) (jsa.Value, error) {
//	    return jsa.Number(float64(time.Now().UnixMilli())), nil
//	})
//
// # Thread Safety
//
// A Context and all handles minted from it are confined to one goroutine.
// The single exception is handle release: Release and Value.Release are
// safe from any goroutine, which lets Go finalizers drop references
// without marshaling to the owning goroutine. Work that must touch
// UI-affine state from a finalizer goes through jsa.ThreadScope.
package jsaruntime

// Version is the library version.
const Version = "0.1.0"
