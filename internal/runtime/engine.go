// Package runtime implements the dialogue traversal engine: auto-play, choice collection
// and choice resolution over a ports.GraphProvider.
package runtime

import (
	"context"
	"log/slog"

	"github.com/aretw0/murmur/internal/logging"
	"github.com/aretw0/murmur/pkg/domain"
)

// DefaultChoiceScanLimit bounds how many rows after a choice trigger are scanned for options.
const DefaultChoiceScanLimit = 20

// Counters receives the deltas of accepted choices and returns the resulting totals.
// *domain.GlobalState satisfies it; hosts wrap it when access must be serialized.
type Counters interface {
	Add(contradiction, suspicion int) domain.GlobalState
}

// Engine is the traversal core. It holds configuration only; all mutable state lives in the
// Session and Counters values passed to each call, so one Engine can drive every group.
type Engine struct {
	scanLimit  int
	maxOffered int
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithChoiceScanLimit sets how many rows after a trigger may be scanned for options.
// Values below 1 keep the default.
func WithChoiceScanLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.scanLimit = n
		}
	}
}

// WithMaxOffered caps the number of options presented at a choice point. 0 means no cap.
func WithMaxOffered(n int) EngineOption {
	return func(e *Engine) {
		if n >= 0 {
			e.maxOffered = n
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a traversal engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		scanLimit: DefaultChoiceScanLimit,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScanLimit returns the configured choice scan bound.
func (e *Engine) ScanLimit() int {
	return e.scanLimit
}

// emitter collects the events of one engine call and forwards each to the hooks.
type emitter struct {
	ctx    context.Context
	group  int
	hooks  domain.LifecycleHooks
	events []domain.Event
}

func (e *Engine) newEmitter(ctx context.Context, group int) *emitter {
	return &emitter{ctx: ctx, group: group, hooks: e.hooks}
}

func (em *emitter) emit(ev domain.Event) {
	ev.Group = em.group
	em.events = append(em.events, ev)
	if em.hooks.OnEvent != nil {
		em.hooks.OnEvent(em.ctx, ev)
	}
}
