package dsl

import (
	"fmt"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/graph"
)

// end is the position branches without a successor point at. Positions start at 1, so it
// never resolves.
const end = 0

// Builder manages the thread construction.
type Builder struct {
	group int
	day   int
	order []*NodeBuilder
	nodes map[string]*NodeBuilder
}

// New creates a builder for the given group. Nodes default to day 1.
func New(group int) *Builder {
	return &Builder{
		group: group,
		day:   1,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Day sets the default day of nodes that do not set their own.
func (b *Builder) Day(day int) *Builder {
	b.day = day
	return b
}

// Add creates a new node. The first node added is where the thread starts.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{id: id}
	b.nodes[id] = nb
	b.order = append(b.order, nb)
	return nb
}

// Rows lays the nodes out as dialogue rows. Each node gets a contiguous block: its lines, with
// the last one opening the choice, followed by one player-option row per reply.
func (b *Builder) Rows() ([]domain.DialogueRow, error) {
	entry := make(map[string]int, len(b.order))
	pos := 1
	for _, nb := range b.order {
		if len(nb.lines) == 0 {
			return nil, fmt.Errorf("node %q has no lines", nb.id)
		}
		entry[nb.id] = pos
		pos += len(nb.lines) + len(nb.choices)
	}

	resolve := func(from, target string) (int, error) {
		if target == "" {
			return end, nil
		}
		p, ok := entry[target]
		if !ok {
			return 0, fmt.Errorf("node %q: unknown target %q", from, target)
		}
		return p, nil
	}

	rows := make([]domain.DialogueRow, 0, pos-1)
	for _, nb := range b.order {
		day := nb.day
		if day == 0 {
			day = b.day
		}
		p := entry[nb.id]

		for i, l := range nb.lines {
			row := domain.DialogueRow{
				Day:          day,
				Group:        b.group,
				Position:     p,
				Speaker:      l.speaker,
				Text:         l.text,
				NextPosition: p + 1,
			}
			if i == len(nb.lines)-1 {
				if len(nb.choices) > 0 {
					row.OpensChoice = true
				} else {
					next, err := resolve(nb.id, nb.next)
					if err != nil {
						return nil, err
					}
					row.NextPosition = next
				}
			}
			rows = append(rows, row)
			p++
		}

		for _, c := range nb.choices {
			next, err := resolve(nb.id, c.target)
			if err != nil {
				return nil, err
			}
			row := c.row
			row.Day = day
			row.Group = b.group
			row.Position = p
			row.Speaker = domain.SpeakerPlayer
			row.Text = c.text
			row.IsPlayerOption = true
			row.NextPosition = next
			rows = append(rows, row)
			p++
		}
	}
	return rows, nil
}

// Build compiles the thread into a graph index.
func (b *Builder) Build() (*graph.Index, error) {
	rows, err := b.Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to build thread: %w", err)
	}
	return graph.Build(rows), nil
}
