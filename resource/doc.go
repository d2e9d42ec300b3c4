// Package resource tracks live VM handle lifetimes per scope frame.
//
// Backends register each handle they mint with a Tracker. When an advisory
// scope pops, the tracker eagerly releases every handle the scope still
// owns; at context teardown it releases whatever is left. Observers can
// subscribe to lifecycle events for leak diagnostics and tests.
package resource
