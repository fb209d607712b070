package dialog

// TurnState is where a session stands within its current turn.
type TurnState int

const (
	// StateIdle means no turn is in flight.
	StateIdle TurnState = iota

	// StateListening means the caller is speaking and transcripts are arriving.
	StateListening

	// StateDeciding means the model is choosing the turn's response.
	StateDeciding

	// StateExecuting means the turn's tool calls are running, in order.
	StateExecuting

	// StateSpeaking means the turn's spoken lines are being delivered.
	StateSpeaking
)

// String returns the state's wire name.
func (s TurnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateDeciding:
		return "deciding"
	case StateExecuting:
		return "executing"
	case StateSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// CanTransition reports whether moving from s to next is a legal turn step.
// A turn runs Idle, Listening, Deciding, Executing, Speaking, then back to
// Idle. Deciding skips straight to Speaking when the decision carries no
// tool calls, and Listening repeats while partial transcripts arrive.
func (s TurnState) CanTransition(next TurnState) bool {
	switch s {
	case StateIdle:
		return next == StateListening
	case StateListening:
		return next == StateListening || next == StateDeciding
	case StateDeciding:
		return next == StateExecuting || next == StateSpeaking
	case StateExecuting:
		return next == StateSpeaking
	case StateSpeaking:
		return next == StateIdle
	default:
		return false
	}
}
