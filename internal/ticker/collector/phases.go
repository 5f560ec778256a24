package collector

import (
	"fmt"
	"sync"
)

// Phase is the run state of the pipeline. The progression is strictly
// linear: Idle -> Streaming -> Cancelling -> Visualizing -> Done. Making it
// explicit is what guarantees the store is never read while writes are in
// flight: scanning only happens in the Visualizing phase, which is only
// reachable after the ingest goroutine has fully returned.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStreaming
	PhaseCancelling
	PhaseVisualizing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStreaming:
		return "streaming"
	case PhaseCancelling:
		return "cancelling"
	case PhaseVisualizing:
		return "visualizing"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

type phaseTracker struct {
	mu    sync.Mutex
	phase Phase
}

func newPhaseTracker() *phaseTracker {
	return &phaseTracker{phase: PhaseIdle}
}

// transition advances to the next phase, rejecting anything that is not the
// immediate successor of the current phase.
func (t *phaseTracker) transition(to Phase) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if to != t.phase+1 {
		return fmt.Errorf("invalid phase transition %s -> %s", t.phase, to)
	}
	t.phase = to
	return nil
}

func (t *phaseTracker) current() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}
