package resource

// Handle is an opaque reference to a tracked VM handle.
// Handle 0 is reserved and always invalid.
type Handle uint64

// Category codes for tracked handles, backend-assigned.
type Category uint32

// EventType for lifecycle notifications.
type EventType uint8

const (
	EventTracked EventType = iota
	EventReleased
	EventEscaped
)

// Event describes a handle lifecycle transition.
type Event struct {
	Handle   Handle
	Category Category
	Type     EventType
	// Scope is the depth of the scope frame involved: 0 for the root
	// frame, 1 for the outermost explicit scope, and so on.
	Scope int
}

// Observer receives handle lifecycle events. Callbacks run synchronously
// on the goroutine performing the tracker operation.
type Observer interface {
	OnHandleEvent(Event)
}
