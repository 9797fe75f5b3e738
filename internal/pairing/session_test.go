package pairing

import "testing"

func TestSessionTransitionsForwardOnly(t *testing.T) {
	s := &Session{}

	s.transition(StateStarted)
	if s.State != StateStarted {
		t.Fatalf("state = %v, want %v", s.State, StateStarted)
	}

	// Backward moves are ignored.
	s.transition(StateWaitingForStart)
	if s.State != StateStarted {
		t.Errorf("state regressed to %v", s.State)
	}

	s.transition(StateCodeSent)
	s.transition(StateStarted)
	if s.State != StateCodeSent {
		t.Errorf("state regressed to %v", s.State)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateWaitingForStart, "waiting_for_start"},
		{StateStarted, "started"},
		{StateCodeSent, "code_sent"},
		{StatePaired, "paired"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
