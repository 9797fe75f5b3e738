package pairing

// State is a pairing session's position in the handshake. Sessions move
// through states in one direction only.
type State int

const (
	StateWaitingForStart State = iota
	StateStarted
	StateCodeSent
	StatePaired
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateWaitingForStart:
		return "waiting_for_start"
	case StateStarted:
		return "started"
	case StateCodeSent:
		return "code_sent"
	case StatePaired:
		return "paired"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the in-memory record of one pairing attempt. It lives for a
// single invocation of the flow and is discarded afterwards.
type Session struct {
	State          State
	ConversationID string // set once the handshake arrives
	Code           string // set once the challenge is issued
}

// transition advances the session state. Backward moves are ignored.
func (s *Session) transition(next State) {
	if next > s.State {
		s.State = next
	}
}
