package ports

import (
	"context"

	"github.com/aretw0/murmur/pkg/domain"
)

// RowLoader produces the dialogue rows a graph is built from.
// Rows are returned in source order; later rows win on duplicate (group, position) pairs.
type RowLoader interface {
	Load(ctx context.Context) ([]domain.DialogueRow, error)
}

// RowLoaderFunc adapts a function to RowLoader.
type RowLoaderFunc func(ctx context.Context) ([]domain.DialogueRow, error)

// Load calls f(ctx).
func (f RowLoaderFunc) Load(ctx context.Context) ([]domain.DialogueRow, error) {
	return f(ctx)
}
