package mcclient

// EventKind names a session lifecycle event.
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventSpawn  EventKind = "spawn"
	EventError  EventKind = "error"
	EventKicked EventKind = "kicked"
	EventEnd    EventKind = "end"
)

// Kinds lists every event a session emits, in lifecycle order.
var Kinds = []EventKind{EventLogin, EventSpawn, EventError, EventKicked, EventEnd}

// Event is one lifecycle notification. Only the field matching Kind is set.
type Event struct {
	Kind     EventKind
	Username string // login
	Reason   string // kicked
	Err      error  // error
}

// Handler observes a session event. Handlers run on the session goroutine
// and must not block.
type Handler func(Event)
