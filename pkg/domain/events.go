package domain

import (
	"context"
	"fmt"
)

// EventType defines the category of a presentation event.
type EventType string

const (
	EventDaySeparator     EventType = "day_separator"
	EventLine             EventType = "line"
	EventChoiceOffer      EventType = "choice_offer"
	EventSessionExhausted EventType = "session_exhausted"
	EventMalformedGraph   EventType = "malformed_graph"
	EventChoiceRejected   EventType = "choice_rejected"
)

// Diagnostic reasons carried by malformed_graph and choice_rejected events.
const (
	ReasonOptionInAutoPlay = "option_in_autoplay"
	ReasonCycle            = "cycle"
	ReasonDegenerateChoice = "degenerate_choice"
	ReasonNotAwaiting      = "not_awaiting_choice"
	ReasonNotOffered       = "choice_not_offered"
	ReasonInactive         = "inactive_session"
)

// SpeakerPlayer is the speaker tag of replies chosen by the player.
const SpeakerPlayer = "player"

// Option is one entry of a choice offer.
type Option struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// Event is an ordered instruction for the presentation layer.
// Only the fields relevant to Type are set.
type Event struct {
	Type     EventType `json:"type"`
	Group    int       `json:"group"`
	Day      int       `json:"day,omitempty"`
	Position int       `json:"position,omitempty"`

	Speaker    string `json:"speaker,omitempty"`
	Text       string `json:"text,omitempty"`
	FromPlayer bool   `json:"from_player,omitempty"`

	Options []Option `json:"options,omitempty"`

	Reason string `json:"reason,omitempty"`
}

func (e Event) String() string {
	switch e.Type {
	case EventDaySeparator:
		return fmt.Sprintf("[%d] day %d", e.Group, e.Day)
	case EventLine:
		return fmt.Sprintf("[%d] %s: %s", e.Group, e.Speaker, e.Text)
	case EventChoiceOffer:
		return fmt.Sprintf("[%d] offer %v", e.Group, e.Options)
	case EventMalformedGraph, EventChoiceRejected:
		return fmt.Sprintf("[%d] %s(%s) at %d", e.Group, e.Type, e.Reason, e.Position)
	default:
		return fmt.Sprintf("[%d] %s", e.Group, e.Type)
	}
}

// IsDiagnostic reports whether the event signals an authoring or usage defect.
func (e Event) IsDiagnostic() bool {
	return e.Type == EventMalformedGraph || e.Type == EventChoiceRejected
}

// ChoiceEvent describes an accepted pick.
type ChoiceEvent struct {
	Group              int
	Position           int
	ContradictionDelta int
	SuspicionDelta     int
	Global             GlobalState // Counters after the deltas were applied
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnEvent        func(context.Context, Event)
	OnChoicePicked func(context.Context, ChoiceEvent)
}
