package tests

import (
	"context"
	"testing"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/ports"
)

// RowLoaderContractTest is a reusable test suite that verifies a ports.RowLoader adapter
// returns exactly the expected rows, in source order.
func RowLoaderContractTest(t *testing.T, loader ports.RowLoader, want []domain.DialogueRow) {
	t.Helper()

	t.Run("Load", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading rows: %v", err)
		}

		if len(got) != len(want) {
			t.Fatalf("expected %d rows, got %d: %+v", len(want), len(got), got)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Errorf("row %d mismatch.\n got: %+v\nwant: %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("Load Is Repeatable", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first) != len(second) {
			t.Errorf("second load returned %d rows, first returned %d", len(second), len(first))
		}
	})
}
