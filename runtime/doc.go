// Package runtime is the high-level embedding facade over the JSA layer.
//
// A Runtime owns one jsa.Context and adds the conveniences an application
// needs: Eval with a default source URL, the fast Call path (global lookup
// plus invocation, without re-evaluating source), Go-to-JS value
// conversion, and reflection-based registration of Go functions and
// structs as script-visible globals.
//
// The Runtime inherits the context's thread confinement: use it from one
// goroutine, or serialize access externally.
package runtime
