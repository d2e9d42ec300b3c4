package runtime

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"go.uber.org/zap"

	"github.com/wippyai/jsa-runtime/engine"
	"github.com/wippyai/jsa-runtime/errors"
	"github.com/wippyai/jsa-runtime/jsa"
)

// Options configures a Runtime.
type Options struct {
	// SourceURL annotates stack traces for Eval. Defaults to "<eval>".
	SourceURL string

	// EnableConsole installs a Node-style console backed by the require
	// registry. Only meaningful on the goja backend.
	EnableConsole bool

	// MaxCallStackSize bounds JS recursion depth. 0 means unbounded.
	MaxCallStackSize int

	// DisableEagerScopes turns jsa.Scope into an advisory no-op.
	DisableEagerScopes bool

	// ThreadScope, when set, is bound to the context at construction so
	// GC-side finalizers can post work to the UI thread.
	ThreadScope jsa.ThreadScope

	// Logger overrides the engine package logger.
	Logger *zap.Logger
}

// Runtime owns a jsa.Context and the embedding conveniences around it.
type Runtime struct {
	ctx       jsa.Context
	log       *zap.Logger
	registry  *require.Registry
	sourceURL string
}

// New creates a Runtime on a fresh goja-backed context.
func New(opts *Options) (*Runtime, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, err := engine.NewGojaContext(&engine.Config{
		MaxCallStackSize:   opts.MaxCallStackSize,
		DisableEagerScopes: opts.DisableEagerScopes,
		Logger:             opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	if opts.ThreadScope != nil {
		ctx.BindThreadScope(opts.ThreadScope)
	}

	log := opts.Logger
	if log == nil {
		log = engine.Logger()
	}

	r := &Runtime{
		ctx:       ctx,
		log:       log,
		sourceURL: opts.SourceURL,
	}
	if r.sourceURL == "" {
		r.sourceURL = "<eval>"
	}

	if opts.EnableConsole {
		if err := r.enableConsole(); err != nil {
			_ = ctx.Close()
			return nil, err
		}
	}

	return r, nil
}

// enableConsole wires goja_nodejs console/require through the context's
// native escape hatch.
func (r *Runtime) enableConsole() error {
	vm, ok := r.ctx.GlobalImpl().(*goja.Runtime)
	if !ok {
		return errors.Unsupported(errors.PhaseAPI, "console requires the goja backend")
	}
	r.registry = require.NewRegistry()
	r.registry.Enable(vm)
	console.Enable(vm)
	return nil
}

// Context returns the underlying jsa.Context for direct bridge access.
func (r *Runtime) Context() jsa.Context { return r.ctx }

// Eval evaluates source with the runtime's default source URL.
func (r *Runtime) Eval(code string) (jsa.Value, error) {
	return r.ctx.EvaluateJavaScript([]byte(code), r.sourceURL, 0)
}

// EvalSource evaluates source with an explicit source URL and start line,
// for code excerpted from a larger document.
func (r *Runtime) EvalSource(code, sourceURL string, startLine int) (jsa.Value, error) {
	return r.ctx.EvaluateJavaScript([]byte(code), sourceURL, startLine)
}

// Call invokes a global function by name. This is the fast path for
// invoking known functions: a property lookup plus a call, instead of
// re-evaluating source through Eval.
func (r *Runtime) Call(name string, args ...any) (jsa.Value, error) {
	global := r.ctx.Global()
	defer global.Release()

	v, err := global.GetProperty(r.ctx, name)
	if err != nil {
		return jsa.Undefined(), err
	}
	if !v.IsObject() {
		return jsa.Undefined(), &errors.APIError{Op: "Call", Detail: name + " is not a function", Cause: errors.NotFunction(name)}
	}
	fn, err := v.GetObject().AsFunction(r.ctx)
	if err != nil {
		return jsa.Undefined(), &errors.APIError{Op: "Call", Detail: name + " is not a function", Cause: err}
	}

	jsArgs := make([]jsa.Value, len(args))
	for i, a := range args {
		jv, err := ToValue(r.ctx, a)
		if err != nil {
			return jsa.Undefined(), err
		}
		jsArgs[i] = jv
	}

	return fn.Call(r.ctx, jsArgs...)
}

// RegisterFunc exposes a jsa.HostFunc as a global function.
func (r *Runtime) RegisterFunc(name string, fn jsa.HostFunc) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseAPI, "function name cannot be empty")
	}

	id := r.ctx.CreatePropNameIDFromASCII(name)
	defer id.Release()

	f := r.ctx.CreateFunctionFromHostFunc(id, 0, fn)
	global := r.ctx.Global()
	defer global.Release()

	if err := global.SetProperty(r.ctx, name, jsa.ObjectValue(f.Object)); err != nil {
		return errors.Registration(name, err)
	}
	r.log.Debug("registered host function", zap.String("name", name))
	return nil
}

// RegisterHostObject exposes a jsa.HostObject as a global.
func (r *Runtime) RegisterHostObject(name string, ho jsa.HostObject) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseAPI, "object name cannot be empty")
	}

	obj := r.ctx.CreateHostObject(ho)
	global := r.ctx.Global()
	defer global.Release()

	if err := global.SetProperty(r.ctx, name, jsa.ObjectValue(obj)); err != nil {
		return errors.Registration(name, err)
	}
	r.log.Debug("registered host object", zap.String("name", name))
	return nil
}

// RegisterVar exposes a Go value as a global, converted through ToValue.
func (r *Runtime) RegisterVar(name string, v any) error {
	jv, err := ToValue(r.ctx, v)
	if err != nil {
		return errors.Registration(name, err)
	}

	global := r.ctx.Global()
	defer global.Release()

	if err := global.SetProperty(r.ctx, name, jv); err != nil {
		return errors.Registration(name, err)
	}
	return nil
}

// Close tears the runtime and its context down.
func (r *Runtime) Close() error {
	return r.ctx.Close()
}
