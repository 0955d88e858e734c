package indexer

import "fmt"

// StateKind is a Block Consumer state.
type StateKind uint8

const (
	StateIdle StateKind = iota
	StateFetching
	StateApplying
	StateCommitted
	StateFailed
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateApplying:
		return "applying"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(k))
	}
}

// State is a snapshot of the consumer. Height is the cursor for Idle and the
// block being handled otherwise; Cause is set for Failed.
type State struct {
	Kind   StateKind
	Height uint64
	Cause  error
}

func (s State) String() string {
	if s.Kind == StateFailed {
		return fmt.Sprintf("%s(%d, %v)", s.Kind, s.Height, s.Cause)
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.Height)
}
