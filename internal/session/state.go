package session

// State is a session lifecycle state.
type State string

const (
	StateInit          State = "INIT"
	StateScamConfirmed State = "SCAM_CONFIRMED"
	StateEngaging      State = "ENGAGING"
	StateExtracting    State = "EXTRACTING"
	StateReported      State = "REPORTED"
)

// Advance applies the state machine transition rules in their fixed order.
// isScam is the detection verdict for this turn, extracting reports whether
// the chosen strategy goal is an extraction goal, and exit reports whether
// either engine asked to end the conversation. The exit rule wins over the
// progression rules within the same turn, and REPORTED is absorbing.
func (s *Session) Advance(isScam, extracting, exit bool) {
	if s.State == StateReported {
		return
	}

	switch {
	case s.State == StateInit && isScam:
		s.State = StateScamConfirmed
	case s.State == StateScamConfirmed:
		s.State = StateEngaging
	case s.State == StateEngaging && extracting:
		s.State = StateExtracting
	}

	if exit {
		s.State = StateReported
		s.Reported = true
	}
}
