package ports

import (
	"context"
	"testing"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()

	t.Run("Save and Load", func(t *testing.T) {
		s := domain.NewSession(1)
		s.Cursor = 12
		s.LastShownDay = 2
		s.AwaitingChoice = true
		s.Offered = []int{13, 14}
		s.Status = domain.StatusAwaitingChoice

		require.NoError(t, store.Save(ctx, s))

		loaded, err := store.Load(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, s, loaded)
	})

	t.Run("Stored Value Is Isolated", func(t *testing.T) {
		s := domain.NewSession(2)
		s.Offered = []int{5}
		require.NoError(t, store.Save(ctx, s))

		s.Offered[0] = 99
		s.Cursor = 42

		loaded, err := store.Load(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{5}, loaded.Offered, "caller mutation leaked into store")
		assert.Equal(t, 0, loaded.Cursor)

		loaded.Offered[0] = 77
		again, err := store.Load(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{5}, again.Offered, "loaded value aliases stored state")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		groups, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, groups)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, 1))

		_, err := store.Load(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		groups, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, groups)
	})
}
