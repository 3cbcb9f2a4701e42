package dsl

import "github.com/aretw0/murmur/pkg/domain"

// DemoGroup is the group the demo thread is authored in.
const DemoGroup = 1

// DemoThread returns the "what are we eating tonight" group chat, a small hand-authored thread
// used by 'murmur play --demo' and in tests.
func DemoThread() []domain.DialogueRow {
	b := New(DemoGroup)

	b.Add("start").
		Say("mei", "Hi everyone! What are we eating tonight?").
		Choice("Hotpot!", "hotpot").
		Choice("BBQ, let's go", "bbq").
		Choice("Whatever, you decide", "whatever", Suspicion(1))

	b.Add("hotpot").
		Say("jun", "Hotpot it is. Spicy or clear broth?").
		Choice("Spicy! The hotter the better", "hotpot_spicy").
		Choice("Clear, I can't take the heat", "hotpot_clear").
		Choice("Split pot", "hotpot_dual")

	b.Add("bbq").
		Say("jun", "BBQ sorted! Which place?").
		Choice("The one near the office", "bbq_near").
		Choice("That trendy spot", "bbq_hot").
		Choice("I'm fine with anything", "bbq_any", Suspicion(1))

	b.Add("whatever").
		Say("mei", "Don't say 'whatever' :D At least pick a direction: spicy or not?").
		Choice("Spicy", "hotpot").
		Choice("Not spicy", "hotpot_clear").
		Choice("Let's vote", "vote", Contradiction(1))

	b.Add("vote").
		Say("mei", "Fine, I'll start a poll.").
		Choice("I vote hotpot", "hotpot").
		Choice("I vote BBQ", "bbq").
		Choice("I vote something else", "other", Contradiction(1))

	b.Add("other").
		Say("jun", "So what do you want then?").
		Choice("Sushi", "end").
		Choice("Pizza", "end").
		Choice("Noodles", "end")

	b.Add("hotpot_spicy").Say("jun", "Bring milk.").Go("end")
	b.Add("hotpot_clear").Say("mei", "Clear broth, noted.").Go("end")
	b.Add("hotpot_dual").Say("jun", "Best of both worlds.").Go("end")
	b.Add("bbq_near").Say("mei", "Close and cheap. Works.").Go("end")
	b.Add("bbq_hot").Say("jun", "Hope the queue is short.").Go("end")
	b.Add("bbq_any").Say("mei", "You really never choose, huh.").Go("end")

	b.Add("end").
		Say("mei", "OK!")

	rows, err := b.Rows()
	if err != nil {
		panic(err)
	}
	return rows
}
