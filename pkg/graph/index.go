// Package graph builds the read-only lookup structure the traversal engine walks.
package graph

import (
	"slices"

	"github.com/aretw0/murmur/pkg/domain"
)

// key addresses a row slot. Both halves keep the full int range.
type key struct {
	group    int
	position int
}

func makeKey(group, position int) key {
	return key{group: group, position: position}
}

// Duplicate records a (group, position) pair that appeared more than once in the source rows.
type Duplicate struct {
	Group    int
	Position int
	Count    int
}

// Index is an arena of dialogue rows addressed by (group, position).
// It is built once and never mutated afterwards, so it is safe for concurrent reads.
type Index struct {
	rows      []domain.DialogueRow
	slots     map[key]int
	positions map[int][]int // group -> ascending positions actually present
	dupes     map[key]int
}

// Build indexes rows. For duplicate (group, position) pairs the last row wins.
func Build(rows []domain.DialogueRow) *Index {
	idx := &Index{
		rows:      make([]domain.DialogueRow, 0, len(rows)),
		slots:     make(map[key]int, len(rows)),
		positions: make(map[int][]int),
		dupes:     make(map[key]int),
	}

	for _, r := range rows {
		k := makeKey(r.Group, r.Position)
		if slot, ok := idx.slots[k]; ok {
			idx.rows[slot] = r
			idx.dupes[k]++
			continue
		}
		idx.slots[k] = len(idx.rows)
		idx.rows = append(idx.rows, r)
		idx.positions[r.Group] = append(idx.positions[r.Group], r.Position)
	}

	for _, list := range idx.positions {
		slices.Sort(list)
	}

	return idx
}

// Lookup returns the row stored at (group, position).
func (idx *Index) Lookup(group, position int) (domain.DialogueRow, bool) {
	slot, ok := idx.slots[makeKey(group, position)]
	if !ok {
		return domain.DialogueRow{}, false
	}
	return idx.rows[slot], true
}

// FirstPosition returns the minimum position of group.
func (idx *Index) FirstPosition(group int) (int, bool) {
	list := idx.positions[group]
	if len(list) == 0 {
		return 0, false
	}
	return list[0], true
}

// Positions returns the ascending positions of group. The slice is a copy.
func (idx *Index) Positions(group int) []int {
	return slices.Clone(idx.positions[group])
}

// Rows returns the rows of group in ascending position order.
func (idx *Index) Rows(group int) []domain.DialogueRow {
	list := idx.positions[group]
	out := make([]domain.DialogueRow, 0, len(list))
	for _, p := range list {
		row, _ := idx.Lookup(group, p)
		out = append(out, row)
	}
	return out
}

// Groups returns the groups present in the index, ascending.
func (idx *Index) Groups() []int {
	groups := make([]int, 0, len(idx.positions))
	for g := range idx.positions {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}

// Len returns the number of distinct (group, position) rows.
func (idx *Index) Len() int {
	return len(idx.rows)
}

// Duplicates reports the pairs that were overwritten during Build, ordered by group then position.
func (idx *Index) Duplicates() []Duplicate {
	out := make([]Duplicate, 0, len(idx.dupes))
	for k, n := range idx.dupes {
		row := idx.rows[idx.slots[k]]
		out = append(out, Duplicate{Group: row.Group, Position: row.Position, Count: n + 1})
	}
	slices.SortFunc(out, func(a, b Duplicate) int {
		if a.Group != b.Group {
			return a.Group - b.Group
		}
		return a.Position - b.Position
	})
	return out
}
