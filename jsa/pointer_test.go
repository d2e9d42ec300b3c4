package jsa

import (
	"sync"
	"testing"
)

// fakePV counts invalidations so tests can assert the exactly-once contract.
type fakePV struct {
	mu    sync.Mutex
	count int
}

func (f *fakePV) Invalidate() {
	f.mu.Lock()
	f.count++
	f.mu.Unlock()
}

func (f *fakePV) invalidations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func TestPointer_ReleaseExactlyOnce(t *testing.T) {
	pv := &fakePV{}
	p := makePointer(pv)

	if p.IsReleased() {
		t.Fatal("fresh handle reports released")
	}

	p.Release()
	p.Release()
	p.Release()

	if got := pv.invalidations(); got != 1 {
		t.Fatalf("invalidations = %d, want 1", got)
	}
	if !p.IsReleased() {
		t.Fatal("IsReleased = false after Release")
	}
}

func TestPointer_ConcurrentRelease(t *testing.T) {
	pv := &fakePV{}
	p := makePointer(pv)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Release()
		}()
	}
	wg.Wait()

	if got := pv.invalidations(); got != 1 {
		t.Fatalf("invalidations = %d, want 1", got)
	}
}

func TestPointer_ZeroValue(t *testing.T) {
	var p Pointer
	if !p.IsReleased() {
		t.Fatal("zero Pointer must report released")
	}
	p.Release() // must not panic
	if GetPointerValue(p) != nil {
		t.Fatal("zero Pointer must have no backend resource")
	}
}

func TestPointer_SharedCellAcrossViews(t *testing.T) {
	pv := &fakePV{}
	obj := MakeObject(pv)
	val := ObjectValue(obj)

	// A Value adopted from a handle shares its lifetime.
	val.Release()
	if got := pv.invalidations(); got != 1 {
		t.Fatalf("invalidations = %d, want 1", got)
	}
	if !obj.IsReleased() {
		t.Fatal("handle not released through the shared cell")
	}
	obj.Release()
	if got := pv.invalidations(); got != 1 {
		t.Fatalf("invalidations after second release = %d, want 1", got)
	}
}

// invalidatedPV simulates a backend that was invalidated externally, the way
// scope reclamation or teardown invalidates pointers without Release.
type invalidatedPV struct {
	fakePV
	dead bool
}

func (f *invalidatedPV) Invalidated() bool { return f.dead }

func TestPointer_ObservesBackendInvalidation(t *testing.T) {
	pv := &invalidatedPV{}
	p := makePointer(pv)

	if p.IsReleased() {
		t.Fatal("live handle reports released")
	}
	pv.dead = true
	if !p.IsReleased() {
		t.Fatal("backend invalidation not visible through IsReleased")
	}
}

func TestGetPointerValue_RoundTrip(t *testing.T) {
	pv := &fakePV{}
	s := MakeString(pv)
	if got := GetPointerValue(s); got != PointerValue(pv) {
		t.Fatal("GetPointerValue did not return the wrapped resource")
	}
}
