/*
Package murmur is a branching chat narrative engine for games told through group chats.

Authored dialogue rows are played automatically, line by line, until a row opens a choice.
The player then picks one of the replies listed right after it; the reply appears as the
player's message, nudges two playthrough-wide counters (contradiction and suspicion) and sends
playback to the reply's next position. Each chat group keeps its own cursor, so the player can
switch between groups freely and find every conversation where it was left.

# Concept

The engine never draws anything. Each call returns an ordered list of domain.Event values
(day separators, lines, choice offers, end of thread and diagnostics) that a host renders
however it likes: the murmur CLI prints them in a terminal, the HTTP and MCP adapters return
them as JSON.

# Usage

	eng, err := murmur.New(murmur.WithLoader(csv.New("dialogue.csv")))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	events, err := eng.EnterOrResume(ctx, 1)
	// ... render events, read the player's pick ...
	events, err = eng.SubmitChoice(ctx, 1, picked)

Rows can also come from YAML (pkg/adapters/yaml), a directory of Markdown documents
(pkg/adapters/loam) or a thread authored in Go (pkg/dsl).
*/
package murmur
