package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/murmur/internal/runtime"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// optionRun builds a trigger at position 1 followed by n player options.
func optionRun(n int) *graph.Index {
	rows := []domain.DialogueRow{{Day: 1, Group: 1, Position: 1, OpensChoice: true}}
	for i := 0; i < n; i++ {
		rows = append(rows, domain.DialogueRow{Day: 1, Group: 1, Position: 2 + i, IsPlayerOption: true})
	}
	return graph.Build(rows)
}

func TestCollectChoices(t *testing.T) {
	tests := []struct {
		name    string
		index   *graph.Index
		trigger int
		opts    []runtime.EngineOption
		expect  []int
	}{
		{
			name:    "Contiguous Options",
			index:   walkThrough(),
			trigger: 2,
			expect:  []int{3, 4},
		},
		{
			name: "Stops At Gap",
			index: graph.Build([]domain.DialogueRow{
				{Group: 1, Position: 1, OpensChoice: true},
				{Group: 1, Position: 2, IsPlayerOption: true},
				{Group: 1, Position: 4, IsPlayerOption: true},
			}),
			expect: []int{2},
		},
		{
			name: "Stops At Non Option",
			index: graph.Build([]domain.DialogueRow{
				{Group: 1, Position: 1, OpensChoice: true},
				{Group: 1, Position: 2, IsPlayerOption: true},
				{Group: 1, Position: 3},
				{Group: 1, Position: 4, IsPlayerOption: true},
			}),
			expect: []int{2},
		},
		{
			name:   "Empty Run",
			index:  graph.Build([]domain.DialogueRow{{Group: 1, Position: 1, OpensChoice: true}}),
			expect: nil,
		},
		{
			name:   "Default Bound Is Twenty",
			index:  optionRun(25),
			expect: seq(2, 21),
		},
		{
			name:   "Configurable Bound",
			index:  optionRun(10),
			opts:   []runtime.EngineOption{runtime.WithChoiceScanLimit(3)},
			expect: []int{2, 3, 4},
		},
		{
			name:   "Offer Cap",
			index:  optionRun(5),
			opts:   []runtime.EngineOption{runtime.WithMaxOffered(2)},
			expect: []int{2, 3},
		},
		{
			name:   "Non Positive Bound Keeps Default",
			index:  optionRun(25),
			opts:   []runtime.EngineOption{runtime.WithChoiceScanLimit(0)},
			expect: seq(2, 21),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := tt.trigger
			if trigger == 0 {
				trigger = 1
			}
			engine := runtime.NewEngine(tt.opts...)
			assert.Equal(t, tt.expect, engine.CollectChoices(tt.index, 1, trigger))
		})
	}
}

func seq(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestPickChoice_WalkThrough(t *testing.T) {
	engine := runtime.NewEngine()
	idx := walkThrough()
	s := started(1, 1)
	var global domain.GlobalState

	engine.AutoPlay(context.Background(), idx, s)
	events, err := engine.PickChoice(context.Background(), idx, s, &global, 4)
	require.NoError(t, err)

	require.Equal(t, []domain.EventType{
		domain.EventLine,
		domain.EventLine,
		domain.EventSessionExhausted,
	}, types(events))

	reply := events[0]
	assert.True(t, reply.FromPlayer)
	assert.Equal(t, domain.SpeakerPlayer, reply.Speaker)
	assert.Equal(t, "B", reply.Text)
	assert.Equal(t, "npc-end", events[1].Speaker)

	assert.Equal(t, domain.GlobalState{Contradiction: 1, Suspicion: 0}, global)
	assert.False(t, s.AwaitingChoice)
	assert.Empty(t, s.Offered)
	assert.Equal(t, domain.StatusExhausted, s.Status)
	assert.Equal(t, 99, s.Cursor)
}

func TestPickChoice_AppliesBothDeltasOnce(t *testing.T) {
	idx := graph.Build([]domain.DialogueRow{
		{Day: 1, Group: 1, Position: 1, OpensChoice: true},
		{Day: 1, Group: 1, Position: 2, IsPlayerOption: true, ContradictionDelta: -3, SuspicionDelta: 5, NextPosition: 1},
	})
	engine := runtime.NewEngine()
	s := started(1, 1)
	global := domain.GlobalState{Contradiction: 10, Suspicion: 10}

	engine.AutoPlay(context.Background(), idx, s)
	_, err := engine.PickChoice(context.Background(), idx, s, &global, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.GlobalState{Contradiction: 7, Suspicion: 15}, global)

	// The branch loops back to the trigger, so a second pick is legal and applies again.
	_, err = engine.PickChoice(context.Background(), idx, s, &global, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.GlobalState{Contradiction: 4, Suspicion: 20}, global)
}

func TestPickChoice_Rejections(t *testing.T) {
	idx := walkThrough()

	tests := []struct {
		name    string
		prepare func(e *runtime.Engine, s *domain.Session)
		engine  *runtime.Engine
		chosen  int
		wantErr error
		reason  string
	}{
		{
			name:    "Not Awaiting",
			prepare: func(*runtime.Engine, *domain.Session) {},
			chosen:  3,
			wantErr: domain.ErrNotAwaitingChoice,
			reason:  domain.ReasonNotAwaiting,
		},
		{
			name: "Not Offered",
			prepare: func(e *runtime.Engine, s *domain.Session) {
				e.AutoPlay(context.Background(), idx, s)
			},
			chosen:  10,
			wantErr: domain.ErrChoiceNotOffered,
			reason:  domain.ReasonNotOffered,
		},
		{
			name: "Option Beyond Offer Cap",
			prepare: func(e *runtime.Engine, s *domain.Session) {
				e.AutoPlay(context.Background(), idx, s)
			},
			engine:  runtime.NewEngine(runtime.WithMaxOffered(1)),
			chosen:  4,
			wantErr: domain.ErrChoiceNotOffered,
			reason:  domain.ReasonNotOffered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := tt.engine
			if engine == nil {
				engine = runtime.NewEngine()
			}
			s := started(1, 1)
			tt.prepare(engine, s)

			before := s.Clone()
			global := domain.GlobalState{Contradiction: 2, Suspicion: 3}

			events, err := engine.PickChoice(context.Background(), idx, s, &global, tt.chosen)

			assert.ErrorIs(t, err, tt.wantErr)
			require.Len(t, events, 1)
			assert.Equal(t, domain.EventChoiceRejected, events[0].Type)
			assert.Equal(t, tt.reason, events[0].Reason)
			assert.Equal(t, tt.chosen, events[0].Position)

			assert.Equal(t, before, s, "rejected pick mutated the session")
			assert.Equal(t, domain.GlobalState{Contradiction: 2, Suspicion: 3}, global, "rejected pick mutated counters")
		})
	}
}

func TestPickChoice_ProviderSwapped(t *testing.T) {
	engine := runtime.NewEngine()
	s := started(1, 1)
	var global domain.GlobalState
	engine.AutoPlay(context.Background(), walkThrough(), s)
	before := s.Clone()

	empty := graph.Build(nil)
	_, err := engine.PickChoice(context.Background(), empty, s, &global, 3)

	assert.ErrorIs(t, err, domain.ErrChoiceNotOffered)
	assert.Equal(t, before, s)
	assert.Equal(t, domain.GlobalState{}, global)
}

func TestResume_IsIdempotent(t *testing.T) {
	engine := runtime.NewEngine()
	idx := walkThrough()
	s := started(1, 1)
	first := engine.AutoPlay(context.Background(), idx, s)
	offer := first[len(first)-1]
	before := s.Clone()

	for i := 0; i < 3; i++ {
		events := engine.Resume(context.Background(), idx, s)
		require.Len(t, events, 1)
		assert.Equal(t, offer, events[0])
		assert.Equal(t, before, s)
	}
}

func TestResume_NothingPending(t *testing.T) {
	engine := runtime.NewEngine()
	s := started(1, 500)
	engine.AutoPlay(context.Background(), walkThrough(), s)

	assert.Empty(t, engine.Resume(context.Background(), walkThrough(), s))
}

func TestPickChoice_Hook(t *testing.T) {
	var picks []domain.ChoiceEvent
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnChoicePicked: func(_ context.Context, ev domain.ChoiceEvent) {
			picks = append(picks, ev)
		},
	}))
	idx := walkThrough()
	s := started(1, 1)
	global := domain.GlobalState{Suspicion: 1}

	engine.AutoPlay(context.Background(), idx, s)
	_, _ = engine.PickChoice(context.Background(), idx, s, &global, 99)
	_, err := engine.PickChoice(context.Background(), idx, s, &global, 3)
	require.NoError(t, err)

	require.Len(t, picks, 1, "rejected picks must not fire the hook")
	assert.Equal(t, domain.ChoiceEvent{
		Group:          1,
		Position:       3,
		SuspicionDelta: 2,
		Global:         domain.GlobalState{Suspicion: 3},
	}, picks[0])
}
