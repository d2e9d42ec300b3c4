package errors

import "strings"

// JSError is a JavaScript-level failure surfaced to the embedder: either a
// parse/compile error (PhaseParse) or a thrown script exception
// (PhaseExecute). The context that produced it remains usable; only the
// failing operation aborted.
type JSError struct {
	// Phase is PhaseParse or PhaseExecute.
	Phase Phase

	// Message is the VM error's message.
	Message string

	// Stack is the VM stack trace when the backend provides one.
	Stack string

	// SourceURL annotates which source produced the failure.
	SourceURL string

	// Exported carries the thrown value in the backend's exported form.
	// nil for parse errors.
	Exported any

	// Cause is the backend's native error, when one exists.
	Cause error
}

func (e *JSError) Error() string {
	var b strings.Builder
	b.WriteString("js ")
	b.WriteString(string(e.Phase))
	b.WriteString(" error")
	if e.SourceURL != "" {
		b.WriteString(" in ")
		b.WriteString(e.SourceURL)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *JSError) Unwrap() error { return e.Cause }

// Is matches any JSError in the same phase.
func (e *JSError) Is(target error) bool {
	if t, ok := target.(*JSError); ok {
		return t.Phase == "" || t.Phase == e.Phase
	}
	return false
}

// IsJSError reports whether err is (or wraps) a JSError, and returns it.
func IsJSError(err error) (*JSError, bool) {
	for err != nil {
		if js, ok := err.(*JSError); ok {
			return js, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// APIError reports host API misuse: the embedder asked the bridge for
// something structurally impossible (calling a non-function, indexing past
// an array's length). Distinct from JSError so callers can tell JS
// execution failures from their own mistakes.
type APIError struct {
	Op     string
	Detail string
	Cause  error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("jsa api misuse")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Cause }

// Is matches any APIError.
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}
