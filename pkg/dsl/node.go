package dsl

import "github.com/aretw0/murmur/pkg/domain"

type line struct {
	speaker string
	text    string
}

type choice struct {
	text   string
	target string
	row    domain.DialogueRow // carries the deltas
}

// ChoiceOption configures a player reply.
type ChoiceOption func(*domain.DialogueRow)

// Contradiction adds n to the contradiction counter when the reply is picked.
func Contradiction(n int) ChoiceOption {
	return func(r *domain.DialogueRow) {
		r.ContradictionDelta += n
	}
}

// Suspicion adds n to the suspicion counter when the reply is picked.
func Suspicion(n int) ChoiceOption {
	return func(r *domain.DialogueRow) {
		r.SuspicionDelta += n
	}
}

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	id      string
	day     int
	lines   []line
	choices []choice
	next    string
}

// Day sets the day the node's lines belong to. Defaults to the builder's day.
func (n *NodeBuilder) Day(day int) *NodeBuilder {
	n.day = day
	return n
}

// Say appends an NPC line.
func (n *NodeBuilder) Say(speaker, text string) *NodeBuilder {
	n.lines = append(n.lines, line{speaker: speaker, text: text})
	return n
}

// Choice appends a player reply leading to the target node.
func (n *NodeBuilder) Choice(text, target string, opts ...ChoiceOption) *NodeBuilder {
	c := choice{text: text, target: target}
	for _, opt := range opts {
		opt(&c.row)
	}
	n.choices = append(n.choices, c)
	return n
}

// Go continues playback at the target node after the last line. Ignored when the node offers
// choices.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.next = target
	return n
}

// Terminal marks the node as the end of its branch.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.next = ""
	n.choices = nil
	return n
}
