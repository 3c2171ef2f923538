package loop

import "github.com/Cyclone1070/aiagent/internal/provider"

// State is a position in the run state machine:
// AwaitingModel → Dispatching → AwaitingModel … → Done | Aborted.
type State int

const (
	AwaitingModel State = iota
	Dispatching
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case AwaitingModel:
		return "awaiting_model"
	case Dispatching:
		return "dispatching"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome describes how a run ended.
type Outcome struct {
	State State
	// Answer is the model's final text when State is Done.
	Answer string
	// Reason says why the run was Aborted.
	Reason error
	// Rounds counts model responses received.
	Rounds int
	// Usage sums token counts over all rounds.
	Usage      provider.Usage
	Transcript []provider.Message
}
