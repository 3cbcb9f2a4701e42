package ports

import "github.com/aretw0/murmur/pkg/domain"

// GraphProvider is the only capability the traversal engine needs from a dialogue graph.
// Both file-driven graphs and hand-authored ones are served through it.
type GraphProvider interface {
	// Lookup returns the row at (group, position). A missing row is reported with ok == false,
	// which the engine treats as the end of the branch.
	Lookup(group, position int) (row domain.DialogueRow, ok bool)

	// FirstPosition returns the smallest position of the group, ok == false if the group is empty.
	FirstPosition(group int) (position int, ok bool)
}

// GroupLister is implemented by providers that can enumerate their groups.
// It is used for introspection (e.g. 'murmur graph', GET /groups).
type GroupLister interface {
	Groups() []int
}
