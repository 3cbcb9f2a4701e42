package domain

// SessionStatus names the playback state of one group.
type SessionStatus string

const (
	StatusNotStarted     SessionStatus = "not_started"     // Never entered
	StatusAwaitingChoice SessionStatus = "awaiting_choice" // Offer pending
	StatusExhausted      SessionStatus = "exhausted"       // Cursor left the graph
	StatusHalted         SessionStatus = "halted"          // Stopped on a malformed graph, cursor kept in place
)

// Session is the playback state of one chat group.
// It is a plain value so hosts can snapshot, copy and serialize it freely.
type Session struct {
	Group int `json:"group"`

	// Cursor is the current position. Meaningless while Status is not_started or exhausted.
	Cursor int `json:"cursor"`

	// LastShownDay is the last day a separator was emitted for. 0 means none yet.
	LastShownDay int `json:"last_shown_day"`

	AwaitingChoice bool  `json:"awaiting_choice"`
	Offered        []int `json:"offered,omitempty"`

	Status SessionStatus `json:"status"`
}

// NewSession creates a session that has not been entered yet.
func NewSession(group int) *Session {
	return &Session{
		Group:  group,
		Status: StatusNotStarted,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Offered != nil {
		c.Offered = append([]int(nil), s.Offered...)
	}
	return &c
}

// IsOffered reports whether position is part of the pending offer.
func (s *Session) IsOffered(position int) bool {
	if !s.AwaitingChoice {
		return false
	}
	for _, p := range s.Offered {
		if p == position {
			return true
		}
	}
	return false
}

// ClearOffer drops the pending offer.
func (s *Session) ClearOffer() {
	s.AwaitingChoice = false
	s.Offered = nil
}

// GlobalState holds the playthrough-wide counters accumulated from chosen replies.
type GlobalState struct {
	Contradiction int `json:"contradiction"`
	Suspicion     int `json:"suspicion"`
}

// Add applies a pair of deltas and returns the resulting counters.
func (g *GlobalState) Add(contradiction, suspicion int) GlobalState {
	g.Contradiction += contradiction
	g.Suspicion += suspicion
	return *g
}
