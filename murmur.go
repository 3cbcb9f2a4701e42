package murmur

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/murmur/internal/logging"
	"github.com/aretw0/murmur/internal/runtime"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/graph"
	"github.com/aretw0/murmur/pkg/ports"
	"github.com/aretw0/murmur/pkg/session"
)

// ErrNoLoader is returned by Load when the engine was built without a row loader.
var ErrNoLoader = errors.New("no row loader configured")

// Engine is the high-level entry point for the murmur library.
// It wraps the traversal runtime and the session registry behind a simplified API.
type Engine struct {
	runtime  *runtime.Engine
	registry *session.Registry
	loader   ports.RowLoader
	rows     []domain.DialogueRow

	runtimeOpts  []runtime.EngineOption
	registryOpts []session.Option
	hooks        domain.LifecycleHooks
	logger       *slog.Logger

	mu    sync.RWMutex
	index *graph.Index
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader sets the source of dialogue rows. New loads it once; Load reloads it.
func WithLoader(l ports.RowLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithRows initializes the engine with rows already in memory.
func WithRows(rows []domain.DialogueRow) Option {
	return func(e *Engine) {
		e.rows = rows
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithChoiceScanLimit bounds how many rows after a choice trigger are scanned for replies
// (default 20).
func WithChoiceScanLimit(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithChoiceScanLimit(n))
	}
}

// WithMaxOffered caps how many replies are offered at once. 0 means no cap.
func WithMaxOffered(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithMaxOffered(n))
	}
}

// WithLocker serializes group access across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.registryOpts = append(e.registryOpts, session.WithLocker(locker))
	}
}

// WithStore replaces the in-memory session store.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) {
		e.registryOpts = append(e.registryOpts, session.WithStore(store))
	}
}

// New initializes a new Engine. With WithLoader the rows are loaded immediately; with
// WithRows they are indexed immediately. Without either, call Initialize before playing.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	runtimeOpts := append([]runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}, eng.runtimeOpts...)
	eng.runtime = runtime.NewEngine(runtimeOpts...)

	registryOpts := append([]session.Option{session.WithLogger(eng.logger)}, eng.registryOpts...)
	eng.registry = session.NewRegistry(eng.runtime, registryOpts...)

	switch {
	case eng.loader != nil:
		if err := eng.Load(context.Background()); err != nil {
			return nil, err
		}
	case eng.rows != nil:
		eng.Initialize(eng.rows)
	}
	return eng, nil
}

// Load reads rows from the configured loader and rebuilds the graph.
func (e *Engine) Load(ctx context.Context) error {
	if e.loader == nil {
		return ErrNoLoader
	}
	rows, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dialogue rows: %w", err)
	}
	e.Initialize(rows)
	return nil
}

// Initialize indexes rows and plays every session against them from now on.
// Calling it again swaps the graph; sessions and counters are kept.
func (e *Engine) Initialize(rows []domain.DialogueRow) {
	idx := e.registry.Initialize(rows)
	e.mu.Lock()
	e.index = idx
	e.mu.Unlock()
}

// EnterOrResume makes group the active one and returns what should be shown.
func (e *Engine) EnterOrResume(ctx context.Context, group int) ([]domain.Event, error) {
	return e.registry.EnterOrResume(ctx, group)
}

// SubmitChoice resolves a pick in the active group.
func (e *Engine) SubmitChoice(ctx context.Context, group, position int) ([]domain.Event, error) {
	return e.registry.SubmitChoice(ctx, group, position)
}

// Session returns a copy of the session of group.
func (e *Engine) Session(ctx context.Context, group int) (*domain.Session, error) {
	return e.registry.Session(ctx, group)
}

// Sessions returns copies of every entered session, ordered by group.
func (e *Engine) Sessions(ctx context.Context) ([]*domain.Session, error) {
	return e.registry.Sessions(ctx)
}

// Global returns a snapshot of the counters.
func (e *Engine) Global() domain.GlobalState {
	return e.registry.Global()
}

// Active returns the group that currently accepts choices.
func (e *Engine) Active() (int, bool) {
	return e.registry.Active()
}

// Reset starts a new playthrough on the same graph.
func (e *Engine) Reset(ctx context.Context) error {
	return e.registry.Reset(ctx)
}

// Groups lists the groups of the current graph in ascending order.
func (e *Engine) Groups() []int {
	idx := e.Index()
	if idx == nil {
		return nil
	}
	return idx.Groups()
}

// Rows returns the rows of a group in ascending position order.
func (e *Engine) Rows(group int) []domain.DialogueRow {
	idx := e.Index()
	if idx == nil {
		return nil
	}
	return idx.Rows(group)
}

// Index returns the current graph, nil before initialization.
func (e *Engine) Index() *graph.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index
}

// Provider returns the current graph as the engine sees it.
func (e *Engine) Provider() ports.GraphProvider {
	return e.registry.Provider()
}

// ScanLimit returns the configured choice scan bound.
func (e *Engine) ScanLimit() int {
	return e.runtime.ScanLimit()
}
