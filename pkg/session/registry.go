package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/murmur/internal/logging"
	"github.com/aretw0/murmur/internal/runtime"
	"github.com/aretw0/murmur/pkg/adapters/memory"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/graph"
	"github.com/aretw0/murmur/pkg/ports"
)

// DefaultLockTTL is the expiry of distributed group locks.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Registry owns the sessions of every group, the global counters and the active group.
// It is safe for concurrent use.
type Registry struct {
	engine *runtime.Engine
	store  ports.SessionStore

	mu    sync.Mutex         // Guards locks
	locks map[int]*lockEntry // Per-group locks, dropped when unused

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger

	stateMu   sync.RWMutex // Guards provider and active
	provider  ports.GraphProvider
	active    int
	hasActive bool

	globalMu sync.Mutex
	global   domain.GlobalState
}

// Option configures the Registry.
type Option func(*Registry)

// WithStore replaces the in-memory session store.
func WithStore(store ports.SessionStore) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Registry) {
		r.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProvider sets the initial graph.
func WithProvider(p ports.GraphProvider) Option {
	return func(r *Registry) {
		r.provider = p
	}
}

// NewRegistry creates a registry driven by engine.
func NewRegistry(engine *runtime.Engine, opts ...Option) *Registry {
	if engine == nil {
		engine = runtime.NewEngine()
	}
	r := &Registry{
		engine:  engine,
		store:   memory.NewStore(),
		locks:   make(map[int]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize builds the graph index from rows and makes it the current provider.
// Calling it again replaces the graph; sessions and counters are kept.
func (r *Registry) Initialize(rows []domain.DialogueRow) *graph.Index {
	idx := graph.Build(rows)
	for _, d := range idx.Duplicates() {
		r.logger.Warn("duplicate dialogue position, last row wins",
			"group", d.Group,
			"position", d.Position,
			"count", d.Count,
		)
	}
	r.SetProvider(idx)
	r.logger.Debug("dialogue graph initialized", "rows", idx.Len(), "groups", len(idx.Groups()))
	return idx
}

// SetProvider swaps the graph the sessions are played against.
func (r *Registry) SetProvider(p ports.GraphProvider) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	r.provider = p
}

// Provider returns the current graph, nil before initialization.
func (r *Registry) Provider() ports.GraphProvider {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.provider
}

// Active returns the group that currently accepts choices.
func (r *Registry) Active() (int, bool) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()
	return r.active, r.hasActive
}

func (r *Registry) activate(group int) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if r.hasActive && r.active != group {
		r.logger.Debug("switching active group", "from", r.active, "to", group)
	}
	r.active = group
	r.hasActive = true
}

// EnterOrResume makes group the active one. A group entered for the first time starts at its
// smallest position and auto-plays; a group awaiting a choice re-emits its offer; any other
// group produces no events.
func (r *Registry) EnterOrResume(ctx context.Context, group int) ([]domain.Event, error) {
	provider := r.Provider()
	if provider == nil {
		return nil, domain.ErrNoProvider
	}

	var events []domain.Event
	err := r.withLock(ctx, group, func(ctx context.Context) error {
		s, err := r.loadOrNew(ctx, group)
		if err != nil {
			return err
		}

		switch s.Status {
		case domain.StatusNotStarted:
			// A group without rows keeps cursor 0, which resolves to nothing and exhausts.
			s.Cursor, _ = provider.FirstPosition(group)
			played := r.engine.AutoPlay(ctx, provider, s)
			if err := r.store.Save(ctx, s); err != nil {
				return fmt.Errorf("failed to save session %d: %w", group, err)
			}
			events = played
		case domain.StatusAwaitingChoice:
			events = r.engine.Resume(ctx, provider, s)
		}

		// The group becomes active only once entering it has fully succeeded.
		r.activate(group)
		return nil
	})
	return events, err
}

// SubmitChoice resolves a pick in the active group. Picks aimed at any other group are
// rejected with domain.ErrInactiveSession and change nothing.
func (r *Registry) SubmitChoice(ctx context.Context, group, position int) ([]domain.Event, error) {
	provider := r.Provider()
	if provider == nil {
		return nil, domain.ErrNoProvider
	}
	if active, ok := r.Active(); !ok || active != group {
		return r.engine.Reject(ctx, group, position, domain.ReasonInactive, domain.ErrInactiveSession)
	}

	var events []domain.Event
	err := r.withLock(ctx, group, func(ctx context.Context) error {
		s, err := r.loadOrNew(ctx, group)
		if err != nil {
			return err
		}

		deltas := &pendingDeltas{r: r}
		var pickErr error
		events, pickErr = r.engine.PickChoice(ctx, provider, s, deltas, position)
		if pickErr != nil {
			return pickErr
		}

		// Counters move only once the session is saved.
		if err := r.store.Save(ctx, s); err != nil {
			return fmt.Errorf("failed to save session %d: %w", group, err)
		}
		deltas.commit()
		return nil
	})
	return events, err
}

// Session returns a copy of the session of group. Groups never entered report not_started.
func (r *Registry) Session(ctx context.Context, group int) (*domain.Session, error) {
	return r.loadOrNew(ctx, group)
}

// Sessions returns copies of every session entered so far, ordered by group.
func (r *Registry) Sessions(ctx context.Context) ([]*domain.Session, error) {
	groups, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	out := make([]*domain.Session, 0, len(groups))
	for _, g := range groups {
		s, err := r.store.Load(ctx, g)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue // Deleted concurrently
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load session %d: %w", g, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Global returns a snapshot of the counters.
func (r *Registry) Global() domain.GlobalState {
	r.globalMu.Lock()
	defer r.globalMu.Unlock()
	return r.global
}

// Reset starts a new playthrough: every session is dropped, the counters return to zero and
// no group is active. The graph is kept.
func (r *Registry) Reset(ctx context.Context) error {
	groups, err := r.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	for _, g := range groups {
		err := r.withLock(ctx, g, func(ctx context.Context) error {
			return r.store.Delete(ctx, g)
		})
		if err != nil {
			return fmt.Errorf("failed to delete session %d: %w", g, err)
		}
	}

	r.globalMu.Lock()
	r.global = domain.GlobalState{}
	r.globalMu.Unlock()

	r.stateMu.Lock()
	r.active, r.hasActive = 0, false
	r.stateMu.Unlock()
	return nil
}

func (r *Registry) loadOrNew(ctx context.Context, group int) (*domain.Session, error) {
	s, err := r.store.Load(ctx, group)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.NewSession(group), nil
	}
	return nil, fmt.Errorf("failed to load session %d: %w", group, err)
}

// pendingDeltas holds the deltas of a pick until its session is saved.
// Add reports the totals the counters will have once the pick is committed.
type pendingDeltas struct {
	r             *Registry
	contradiction int
	suspicion     int
}

func (p *pendingDeltas) Add(contradiction, suspicion int) domain.GlobalState {
	p.contradiction += contradiction
	p.suspicion += suspicion
	totals := p.r.Global()
	return totals.Add(p.contradiction, p.suspicion)
}

// commit applies the held deltas to the global counters.
func (p *pendingDeltas) commit() {
	p.r.globalMu.Lock()
	defer p.r.globalMu.Unlock()
	p.r.global.Add(p.contradiction, p.suspicion)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(group) after unlocking.
func (r *Registry) acquire(group int) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[group]
	if !exists {
		entry = &lockEntry{}
		r.locks[group] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (r *Registry) release(group int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[group]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, group)
	}
}

// withLock executes fn while holding the lock for the group.
func (r *Registry) withLock(ctx context.Context, group int, fn func(context.Context) error) error {
	entry := r.acquire(group)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(group)
	}()

	if r.locker != nil {
		key := fmt.Sprintf("group:%d", group)
		unlock, err := r.locker.Lock(ctx, key, r.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				r.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"group", group,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
