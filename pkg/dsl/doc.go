/*
Package dsl provides a Go DSL for hand-authoring a chat thread as a graph of named nodes.

A node is a run of NPC lines followed by an optional set of player replies, each reply
pointing at another node. Build lays the nodes out as dialogue rows of one group, so a
hand-authored thread is played by the same engine as a loaded table.

Example usage:

	b := dsl.New(1)

	b.Add("start").
		Say("mei", "Dinner tonight?").
		Choice("Pizza", "end", dsl.Suspicion(1)).
		Choice("Noodles", "end")

	b.Add("end").
		Say("mei", "OK!")

	idx, err := b.Build()
	if err != nil {
		// unknown target, reply without a line, ...
	}
	// idx is a ports.GraphProvider
*/
package dsl
