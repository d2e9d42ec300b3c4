package resource

import "sync"

// Tracker records live VM handles per scope frame so a backend can reclaim
// everything a scope created when the scope pops, and everything else at
// context teardown. Release functions are required to be idempotent; the
// tracker runs each one exactly once, but a handle's owner may have
// released the underlying resource on its own first.
//
// The tracker itself is goroutine-safe because handle release may happen
// off the context goroutine.
type Tracker struct {
	mu        sync.Mutex
	next      Handle
	frames    []*frame
	entries   map[Handle]*entry
	observers []Observer
	closed    bool
}

type frame struct {
	depth   int
	handles map[Handle]struct{}
}

type entry struct {
	category Category
	release  func()
	frame    *frame
}

// NewTracker creates a tracker with a root frame.
func NewTracker() *Tracker {
	return &Tracker{
		next:    1,
		frames:  []*frame{{depth: 0, handles: make(map[Handle]struct{})}},
		entries: make(map[Handle]*entry),
	}
}

// Track registers a handle in the current (innermost) frame. release runs
// when the frame pops, when Release is called, or at Close, whichever
// comes first.
func (t *Tracker) Track(cat Category, release func()) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}
	h := t.next
	t.next++
	f := t.frames[len(t.frames)-1]
	t.entries[h] = &entry{category: cat, release: release, frame: f}
	f.handles[h] = struct{}{}
	obs, depth := t.observersLocked(), f.depth
	t.mu.Unlock()

	notify(obs, Event{Handle: h, Category: cat, Type: EventTracked, Scope: depth})
	return h
}

// PushScope opens a new frame and returns its depth token.
func (t *Tracker) PushScope() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	f := &frame{depth: len(t.frames), handles: make(map[Handle]struct{})}
	t.frames = append(t.frames, f)
	return f.depth
}

// PopScope closes the frame at depth and every frame nested inside it,
// releasing the handles they still own. Scopes close LIFO; popping an
// already-popped depth is a no-op.
func (t *Tracker) PopScope(depth int) {
	if depth <= 0 {
		return
	}
	t.mu.Lock()
	var doomed []*frame
	for len(t.frames) > depth {
		last := t.frames[len(t.frames)-1]
		t.frames = t.frames[:len(t.frames)-1]
		if last.depth >= depth {
			doomed = append(doomed, last)
		}
	}
	var releases []func()
	var events []Event
	obs := t.observersLocked()
	for _, f := range doomed {
		for h := range f.handles {
			e := t.entries[h]
			if e == nil {
				continue
			}
			delete(t.entries, h)
			releases = append(releases, e.release)
			events = append(events, Event{Handle: h, Category: e.category, Type: EventReleased, Scope: f.depth})
		}
	}
	t.mu.Unlock()

	for _, r := range releases {
		if r != nil {
			r()
		}
	}
	for _, ev := range events {
		notify(obs, ev)
	}
}

// Escape moves a handle from its current frame to the parent frame so it
// survives the current scope's pop. Returns false for unknown handles and
// for handles already in the root frame.
func (t *Tracker) Escape(h Handle) bool {
	t.mu.Lock()
	e, ok := t.entries[h]
	if !ok || e.frame.depth == 0 {
		t.mu.Unlock()
		return false
	}
	parent := t.frames[0]
	for _, f := range t.frames {
		if f.depth < e.frame.depth && f.depth > parent.depth {
			parent = f
		}
	}
	delete(e.frame.handles, h)
	e.frame = parent
	parent.handles[h] = struct{}{}
	obs, depth := t.observersLocked(), parent.depth
	t.mu.Unlock()

	notify(obs, Event{Handle: h, Category: e.category, Type: EventEscaped, Scope: depth})
	return true
}

// Release runs a tracked handle's release function now and forgets it.
// Safe from any goroutine.
func (t *Tracker) Release(h Handle) bool {
	t.mu.Lock()
	e, ok := t.entries[h]
	if !ok {
		t.mu.Unlock()
		return false
	}
	delete(t.entries, h)
	delete(e.frame.handles, h)
	obs, depth := t.observersLocked(), e.frame.depth
	t.mu.Unlock()

	if e.release != nil {
		e.release()
	}
	notify(obs, Event{Handle: h, Category: e.category, Type: EventReleased, Scope: depth})
	return true
}

// Len returns the number of live tracked handles.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Depth returns the current scope nesting depth (0 = root only).
func (t *Tracker) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.frames) - 1
}

// Subscribe adds a lifecycle observer.
func (t *Tracker) Subscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Tracker) Unsubscribe(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close releases every remaining handle, innermost frames first, and stops
// accepting new registrations.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	var releases []func()
	var events []Event
	obs := t.observersLocked()
	for i := len(t.frames) - 1; i >= 0; i-- {
		f := t.frames[i]
		for h := range f.handles {
			e := t.entries[h]
			if e == nil {
				continue
			}
			delete(t.entries, h)
			releases = append(releases, e.release)
			events = append(events, Event{Handle: h, Category: e.category, Type: EventReleased, Scope: f.depth})
		}
	}
	t.frames = t.frames[:1]
	t.mu.Unlock()

	for _, r := range releases {
		if r != nil {
			r()
		}
	}
	for _, ev := range events {
		notify(obs, ev)
	}
}

func (t *Tracker) observersLocked() []Observer {
	if len(t.observers) == 0 {
		return nil
	}
	out := make([]Observer, len(t.observers))
	copy(out, t.observers)
	return out
}

func notify(obs []Observer, e Event) {
	for _, o := range obs {
		o.OnHandleEvent(e)
	}
}
