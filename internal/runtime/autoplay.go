package runtime

import (
	"context"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/ports"
)

// AutoPlay advances the session from its cursor until it reaches a decision point, leaves the
// graph or hits an authoring defect. It never loops: a position seen twice within one call
// halts the session with a cycle diagnostic.
func (e *Engine) AutoPlay(ctx context.Context, p ports.GraphProvider, s *domain.Session) []domain.Event {
	em := e.newEmitter(ctx, s.Group)
	e.autoPlay(em, p, s)
	return em.events
}

func (e *Engine) autoPlay(em *emitter, p ports.GraphProvider, s *domain.Session) {
	s.ClearOffer()
	visited := make(map[int]struct{})

	for {
		row, ok := p.Lookup(s.Group, s.Cursor)
		if !ok {
			s.Status = domain.StatusExhausted
			em.emit(domain.Event{Type: domain.EventSessionExhausted, Position: s.Cursor})
			return
		}

		if _, seen := visited[s.Cursor]; seen {
			e.halt(em, s, domain.ReasonCycle)
			return
		}
		visited[s.Cursor] = struct{}{}

		if row.Day != s.LastShownDay {
			s.LastShownDay = row.Day
			em.emit(domain.Event{Type: domain.EventDaySeparator, Day: row.Day})
		}

		if row.IsPlayerOption {
			e.halt(em, s, domain.ReasonOptionInAutoPlay)
			return
		}

		em.emit(domain.Event{
			Type:     domain.EventLine,
			Day:      row.Day,
			Position: row.Position,
			Speaker:  row.Speaker,
			Text:     row.Text,
		})

		if row.OpensChoice {
			e.openChoice(em, p, s, row)
			return
		}

		s.Cursor = row.NextPosition
	}
}

// openChoice turns the trigger row into a pending offer, or ends the branch when nothing
// can be offered.
func (e *Engine) openChoice(em *emitter, p ports.GraphProvider, s *domain.Session, trigger domain.DialogueRow) {
	offered := e.CollectChoices(p, s.Group, trigger.Position)
	if len(offered) == 0 {
		e.logger.Warn("choice point offers nothing",
			"group", s.Group,
			"position", trigger.Position,
		)
		em.emit(domain.Event{Type: domain.EventMalformedGraph, Position: trigger.Position, Reason: domain.ReasonDegenerateChoice})
		s.Status = domain.StatusExhausted
		em.emit(domain.Event{Type: domain.EventSessionExhausted, Position: trigger.Position})
		return
	}

	s.AwaitingChoice = true
	s.Offered = offered
	s.Status = domain.StatusAwaitingChoice
	em.emit(e.offerEvent(p, s))
}

func (e *Engine) halt(em *emitter, s *domain.Session, reason string) {
	e.logger.Warn("malformed dialogue graph",
		"group", s.Group,
		"position", s.Cursor,
		"reason", reason,
	)
	s.Status = domain.StatusHalted
	em.emit(domain.Event{Type: domain.EventMalformedGraph, Position: s.Cursor, Reason: reason})
}
