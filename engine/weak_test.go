package engine

import (
	"runtime"
	"testing"

	"github.com/wippyai/jsa-runtime/jsa"
)

func TestWeakObject_LockWhileLive(t *testing.T) {
	ctx := newTestContext(t)

	obj := ctx.CreateObject()
	if err := obj.SetProperty(ctx, "mark", jsa.Int(1)); err != nil {
		t.Fatal(err)
	}

	weak, err := ctx.CreateWeakObject(obj)
	if err != nil {
		t.Fatalf("CreateWeakObject: %v", err)
	}

	v := weak.Lock(ctx)
	if !v.IsObject() {
		t.Fatalf("Lock on live referent = %v, want object", v.Kind())
	}
	if !ctx.StrictEqualsObject(v.GetObject(), obj) {
		t.Fatal("locked object is not the referent")
	}

	mark, err := v.GetObject().GetProperty(ctx, "mark")
	if err != nil {
		t.Fatal(err)
	}
	if mark.GetNumber() != 1 {
		t.Fatalf("mark = %v", mark.GetNumber())
	}
}

func TestWeakObject_ReleasedReferentHandle(t *testing.T) {
	ctx := newTestContext(t)

	obj := ctx.CreateObject()
	obj.Release()

	if _, err := ctx.CreateWeakObject(obj); err == nil {
		t.Fatal("expected error for weak reference to released handle")
	}
}

func TestWeakObject_LockAfterWeakRelease(t *testing.T) {
	ctx := newTestContext(t)

	obj := ctx.CreateObject()
	weak, err := ctx.CreateWeakObject(obj)
	if err != nil {
		t.Fatal(err)
	}
	weak.Release()

	if v := weak.Lock(ctx); !v.IsUndefined() {
		t.Fatalf("Lock on released weak handle = %v, want undefined", v.Kind())
	}
}

func TestWeakObject_CollectedReferent(t *testing.T) {
	ctx := newTestContext(t)

	obj := ctx.CreateObject()
	weak, err := ctx.CreateWeakObject(obj)
	if err != nil {
		t.Fatal(err)
	}

	// Drop the only strong reference; the weak handle must not pin the
	// referent.
	obj.Release()

	collected := false
	for i := 0; i < 5; i++ {
		runtime.GC()
		v := weak.Lock(ctx)
		if v.IsUndefined() {
			collected = true
			break
		}
		// A successful lock mints a strong handle; release it so it does
		// not keep the referent alive for the next attempt.
		v.Release()
	}
	if !collected {
		t.Fatal("referent never collected, weak handle pins it")
	}
}
