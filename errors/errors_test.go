package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "phase and kind only",
			err:  &Error{Phase: PhaseExecute, Kind: KindException},
			want: "[execute] exception",
		},
		{
			name: "with path",
			err:  &Error{Phase: PhaseHost, Kind: KindFrozenObject, Path: []string{"obj", "k"}},
			want: "[host] frozen_object at obj.k",
		},
		{
			name: "with types",
			err:  &Error{Phase: PhaseAPI, Kind: KindTypeMismatch, GoType: "int", JSType: "string"},
			want: "[api] type_mismatch: Go type int, JS type string",
		},
		{
			name: "with detail",
			err:  &Error{Phase: PhaseParse, Kind: KindSyntax, Detail: "unexpected token"},
			want: "[parse] syntax_error: unexpected token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_CauseChain(t *testing.T) {
	cause := fmt.Errorf("native failure")
	err := Wrap(PhaseHost, KindException, cause, "host get")

	if !strings.Contains(err.Error(), "caused by: native failure") {
		t.Errorf("Error() missing cause: %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := FrozenObject("k")
	b := &Error{Phase: PhaseHost, Kind: KindFrozenObject}
	c := &Error{Phase: PhaseHost, Kind: KindException}

	if !stderrors.Is(a, b) {
		t.Error("same phase/kind should match")
	}
	if stderrors.Is(a, c) {
		t.Error("different kind should not match")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseHost, KindTypeMismatch).
		Path("config", "port").
		GoType("string").
		Detail("expected %s", "number").
		Build()

	if err.Phase != PhaseHost || err.Kind != KindTypeMismatch {
		t.Fatalf("unexpected phase/kind: %v/%v", err.Phase, err.Kind)
	}
	if err.Detail != "expected number" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if got := err.Error(); !strings.Contains(got, "at config.port") {
		t.Errorf("Error() missing path: %q", got)
	}
}

func TestJSError(t *testing.T) {
	err := &JSError{
		Phase:     PhaseExecute,
		Message:   "nonexistent is not defined",
		SourceURL: "app.js",
	}

	want := "js execute error in app.js: nonexistent is not defined"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := fmt.Errorf("eval: %w", err)
	js, ok := IsJSError(wrapped)
	if !ok {
		t.Fatal("IsJSError failed on wrapped JSError")
	}
	if js.Message != err.Message {
		t.Error("IsJSError returned a different error")
	}

	if !stderrors.Is(err, &JSError{Phase: PhaseExecute}) {
		t.Error("phase-matched Is failed")
	}
	if stderrors.Is(err, &JSError{Phase: PhaseParse}) {
		t.Error("phase mismatch should not match")
	}
	if !stderrors.Is(err, &JSError{}) {
		t.Error("phase-agnostic Is failed")
	}
}

func TestAPIError_Distinct(t *testing.T) {
	api := &APIError{Op: "Call", Detail: "not a function"}
	js := &JSError{Phase: PhaseExecute}

	if _, ok := IsJSError(api); ok {
		t.Error("APIError must not match IsJSError")
	}
	if stderrors.Is(api, js) {
		t.Error("APIError must not match JSError")
	}
	if !strings.Contains(api.Error(), "api misuse in Call") {
		t.Errorf("Error() = %q", api.Error())
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if err := FrozenObject("k"); err.Kind != KindFrozenObject || err.Phase != PhaseHost {
		t.Error("FrozenObject wrong phase/kind")
	}
	if err := NotFunction("f"); !strings.Contains(err.Error(), `"f" is not a function`) {
		t.Errorf("NotFunction message: %q", err.Error())
	}
	if err := OutOfBounds(PhaseAPI, 7, 3); !strings.Contains(err.Error(), "index 7 out of bounds (length 3)") {
		t.Errorf("OutOfBounds message: %q", err.Error())
	}
	if err := NotInitialized(PhaseTeardown, "thread scope"); err.Kind != KindNotInitialized {
		t.Error("NotInitialized wrong kind")
	}
}
