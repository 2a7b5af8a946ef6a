package session

// EventKind is the lifecycle stage of one unit.
type EventKind uint8

const (
	EventQueued EventKind = iota + 1
	EventWorking
	EventDone
	EventError
	EventSkipped
)

func (k EventKind) String() string {
	switch k {
	case EventQueued:
		return "queued"
	case EventWorking:
		return "working"
	case EventDone:
		return "done"
	case EventError:
		return "error"
	case EventSkipped:
		return "skipped"
	}
	return "unknown"
}

// Event reports progress of one unit. Events may arrive from several
// goroutines at once.
type Event struct {
	Unit string
	Path string
	Kind EventKind
}
