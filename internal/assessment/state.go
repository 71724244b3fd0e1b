package assessment

// Reason records why a session ended.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonSubmitted        Reason = "submitted"
	ReasonTimeExpired      Reason = "time-expired"
	ReasonWarningsExceeded Reason = "warnings-exceeded"
)

// Valid reports whether r is one of the termination reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonSubmitted, ReasonTimeExpired, ReasonWarningsExceeded:
		return true
	}
	return false
}

// Message is the explanation shown to the candidate for an automatic
// termination. Voluntary submission has no message.
func (r Reason) Message() string {
	switch r {
	case ReasonTimeExpired:
		return "Time is up. Your answers were submitted automatically."
	case ReasonWarningsExceeded:
		return "You left the test window too many times. Your answers were submitted automatically."
	}
	return ""
}

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseTerminated
)

func (p Phase) String() string {
	if p == PhaseTerminated {
		return "terminated"
	}
	return "active"
}

// Direction is a relative navigation step.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Snapshot is a read-only copy of the session's mutable state.
type Snapshot struct {
	Phase            Phase
	Current          int
	RemainingSeconds int
	Warnings         int
	Cutoff           int
	Answered         int
	Total            int
	Reason           Reason
}
