package runtime_test

import (
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/graph"
)

// walkThrough is the reference thread: two NPC lines, a choice between A and B, one closing line.
func walkThrough() *graph.Index {
	return graph.Build([]domain.DialogueRow{
		{Day: 1, Group: 1, Position: 1, Speaker: "npc1", Text: "hello", NextPosition: 2},
		{Day: 1, Group: 1, Position: 2, Speaker: "npc2", Text: "pick one", OpensChoice: true, NextPosition: 3},
		{Day: 1, Group: 1, Position: 3, Speaker: "A", Text: "A", IsPlayerOption: true, SuspicionDelta: 2, NextPosition: 10},
		{Day: 1, Group: 1, Position: 4, Speaker: "B", Text: "B", IsPlayerOption: true, ContradictionDelta: 1, NextPosition: 10},
		{Day: 1, Group: 1, Position: 10, Speaker: "npc-end", Text: "bye", NextPosition: 99},
	})
}

func started(group, cursor int) *domain.Session {
	s := domain.NewSession(group)
	s.Cursor = cursor
	return s
}

func types(events []domain.Event) []domain.EventType {
	out := make([]domain.EventType, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}
