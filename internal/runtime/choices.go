package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/ports"
)

// CollectChoices returns the contiguous run of player-option rows that starts right after
// trigger, in ascending position order, bounded by the scan limit and the offer cap.
func (e *Engine) CollectChoices(p ports.GraphProvider, group, trigger int) []int {
	var offered []int
	for pos := trigger + 1; len(offered) < e.scanLimit; pos++ {
		row, ok := p.Lookup(group, pos)
		if !ok || !row.IsPlayerOption {
			break
		}
		offered = append(offered, pos)
	}

	if e.maxOffered > 0 && len(offered) > e.maxOffered {
		offered = offered[:e.maxOffered]
	}
	return offered
}

// Resume re-emits the pending offer of a session without touching its cursor or any counter.
// Sessions without a pending offer produce no events.
func (e *Engine) Resume(ctx context.Context, p ports.GraphProvider, s *domain.Session) []domain.Event {
	if !s.AwaitingChoice {
		return nil
	}
	em := e.newEmitter(ctx, s.Group)
	em.emit(e.offerEvent(p, s))
	return em.events
}

// PickChoice resolves a pending offer. On success it emits the player's reply, applies the
// chosen row's deltas exactly once, then continues auto-play from the row's next position.
// Invalid picks leave the session and counters untouched and return a ChoiceRejected
// diagnostic together with a sentinel error.
func (e *Engine) PickChoice(ctx context.Context, p ports.GraphProvider, s *domain.Session, counters Counters, chosen int) ([]domain.Event, error) {
	em := e.newEmitter(ctx, s.Group)

	if !s.AwaitingChoice {
		return e.reject(em, s.Group, chosen, domain.ReasonNotAwaiting, domain.ErrNotAwaitingChoice)
	}
	if !s.IsOffered(chosen) {
		return e.reject(em, s.Group, chosen, domain.ReasonNotOffered, domain.ErrChoiceNotOffered)
	}
	row, ok := p.Lookup(s.Group, chosen)
	if !ok {
		// The graph was replaced since the offer was made.
		return e.reject(em, s.Group, chosen, domain.ReasonNotOffered, domain.ErrChoiceNotOffered)
	}

	em.emit(domain.Event{
		Type:       domain.EventLine,
		Day:        row.Day,
		Position:   row.Position,
		Speaker:    domain.SpeakerPlayer,
		Text:       row.Text,
		FromPlayer: true,
	})

	totals := counters.Add(row.ContradictionDelta, row.SuspicionDelta)
	e.logger.Debug("choice applied",
		"group", s.Group,
		"position", chosen,
		"contradiction", totals.Contradiction,
		"suspicion", totals.Suspicion,
	)
	if e.hooks.OnChoicePicked != nil {
		e.hooks.OnChoicePicked(ctx, domain.ChoiceEvent{
			Group:              s.Group,
			Position:           chosen,
			ContradictionDelta: row.ContradictionDelta,
			SuspicionDelta:     row.SuspicionDelta,
			Global:             totals,
		})
	}

	s.ClearOffer()
	s.Cursor = row.NextPosition
	e.autoPlay(em, p, s)

	return em.events, nil
}

// Reject reports a submission refused before it reached a session, such as a pick aimed at a
// group that is not the active one. It emits the ChoiceRejected diagnostic through the hooks
// and returns it together with cause.
func (e *Engine) Reject(ctx context.Context, group, chosen int, reason string, cause error) ([]domain.Event, error) {
	return e.reject(e.newEmitter(ctx, group), group, chosen, reason, cause)
}

func (e *Engine) reject(em *emitter, group, chosen int, reason string, cause error) ([]domain.Event, error) {
	e.logger.Warn("choice rejected",
		"group", group,
		"position", chosen,
		"reason", reason,
	)
	em.emit(domain.Event{Type: domain.EventChoiceRejected, Position: chosen, Reason: reason})
	return em.events, fmt.Errorf("pick %d in group %d: %w", chosen, group, cause)
}

// offerEvent builds the ChoiceOffer for the session's pending positions.
// Positions that no longer resolve are skipped.
func (e *Engine) offerEvent(p ports.GraphProvider, s *domain.Session) domain.Event {
	opts := make([]domain.Option, 0, len(s.Offered))
	for _, pos := range s.Offered {
		row, ok := p.Lookup(s.Group, pos)
		if !ok {
			continue
		}
		opts = append(opts, domain.Option{Position: pos, Text: row.Text})
	}
	return domain.Event{
		Type:     domain.EventChoiceOffer,
		Day:      s.LastShownDay,
		Position: s.Cursor,
		Options:  opts,
	}
}
