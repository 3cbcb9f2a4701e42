package ports

import (
	"context"

	"github.com/aretw0/murmur/pkg/domain"
)

// SessionStore keeps the per-group Session values.
// Implementations must store and return copies so callers cannot alias stored state.
type SessionStore interface {
	// Save stores the session under its group.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the session of a group.
	// Returns domain.ErrSessionNotFound if the group was never saved.
	Load(ctx context.Context, group int) (*domain.Session, error)

	// Delete removes the session of a group.
	Delete(ctx context.Context, group int) error

	// List returns the groups with a stored session, ascending.
	List(ctx context.Context) ([]int, error)
}
