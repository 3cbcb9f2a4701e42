package murmur_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/pkg/adapters/memory"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/dsl"
	"github.com/aretw0/murmur/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reference() []domain.DialogueRow {
	return []domain.DialogueRow{
		{Day: 1, Group: 1, Position: 1, Speaker: "npc1", Text: "hello", NextPosition: 2},
		{Day: 1, Group: 1, Position: 2, Speaker: "npc2", Text: "pick one", OpensChoice: true, NextPosition: 3},
		{Day: 1, Group: 1, Position: 3, Text: "A", IsPlayerOption: true, SuspicionDelta: 2, NextPosition: 10},
		{Day: 1, Group: 1, Position: 4, Text: "B", IsPlayerOption: true, ContradictionDelta: 1, NextPosition: 10},
		{Day: 1, Group: 1, Position: 10, Speaker: "npc-end", Text: "bye"},
	}
}

func TestEngine_WithRows(t *testing.T) {
	ctx := context.Background()
	eng, err := murmur.New(murmur.WithRows(reference()))
	require.NoError(t, err)

	assert.Equal(t, []int{1}, eng.Groups())
	assert.Len(t, eng.Rows(1), 5)
	assert.Equal(t, 20, eng.ScanLimit())

	events, err := eng.EnterOrResume(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 4)
	offer := events[3]
	assert.Equal(t, domain.EventChoiceOffer, offer.Type)
	assert.Equal(t, []domain.Option{{Position: 3, Text: "A"}, {Position: 4, Text: "B"}}, offer.Options)

	events, err = eng.SubmitChoice(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "A", events[0].Text)
	assert.True(t, events[0].FromPlayer)
	assert.Equal(t, "bye", events[1].Text)
	assert.Equal(t, domain.GlobalState{Suspicion: 2}, eng.Global())

	s, err := eng.Session(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExhausted, s.Status)
}

func TestEngine_WithLoader(t *testing.T) {
	calls := 0
	loader := ports.RowLoaderFunc(func(ctx context.Context) ([]domain.DialogueRow, error) {
		calls++
		return reference(), nil
	})

	eng, err := murmur.New(murmur.WithLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NotNil(t, eng.Index())

	require.NoError(t, eng.Load(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestEngine_LoaderError(t *testing.T) {
	boom := errors.New("boom")
	loader := ports.RowLoaderFunc(func(ctx context.Context) ([]domain.DialogueRow, error) {
		return nil, boom
	})

	_, err := murmur.New(murmur.WithLoader(loader))
	assert.ErrorIs(t, err, boom)
}

func TestEngine_Uninitialized(t *testing.T) {
	ctx := context.Background()
	eng, err := murmur.New()
	require.NoError(t, err)

	assert.Nil(t, eng.Index())
	assert.Empty(t, eng.Groups())
	assert.Empty(t, eng.Rows(1))
	assert.ErrorIs(t, eng.Load(ctx), murmur.ErrNoLoader)

	_, err = eng.EnterOrResume(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNoProvider)

	eng.Initialize(reference())
	_, err = eng.EnterOrResume(ctx, 1)
	assert.NoError(t, err)
}

func TestEngine_Options(t *testing.T) {
	ctx := context.Background()
	var seen []domain.EventType
	var picks []domain.ChoiceEvent
	store := memory.NewStore()

	eng, err := murmur.New(
		murmur.WithRows(reference()),
		murmur.WithMaxOffered(1),
		murmur.WithChoiceScanLimit(5),
		murmur.WithStore(store),
		murmur.WithLifecycleHooks(domain.LifecycleHooks{
			OnEvent: func(_ context.Context, ev domain.Event) {
				seen = append(seen, ev.Type)
			},
			OnChoicePicked: func(_ context.Context, ev domain.ChoiceEvent) {
				picks = append(picks, ev)
			},
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, 5, eng.ScanLimit())

	events, err := eng.EnterOrResume(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, events[len(events)-1].Options, 1)
	assert.Len(t, seen, len(events))

	// The capped option is not selectable.
	_, err = eng.SubmitChoice(ctx, 1, 4)
	assert.ErrorIs(t, err, domain.ErrChoiceNotOffered)

	_, err = eng.SubmitChoice(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, 3, picks[0].Position)

	stored, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExhausted, stored.Status)
}

func TestEngine_Reset(t *testing.T) {
	ctx := context.Background()
	eng, err := murmur.New(murmur.WithRows(dsl.DemoThread()))
	require.NoError(t, err)

	events, err := eng.EnterOrResume(ctx, dsl.DemoGroup)
	require.NoError(t, err)
	offer := events[len(events)-1]
	// "Whatever, you decide"
	_, err = eng.SubmitChoice(ctx, dsl.DemoGroup, offer.Options[2].Position)
	require.NoError(t, err)
	assert.Equal(t, domain.GlobalState{Suspicion: 1}, eng.Global())

	require.NoError(t, eng.Reset(ctx))
	assert.Equal(t, domain.GlobalState{}, eng.Global())
	_, ok := eng.Active()
	assert.False(t, ok)

	sessions, err := eng.Sessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
