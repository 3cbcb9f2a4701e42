package murmur_test

import (
	"context"
	"fmt"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/dsl"
)

func printEvents(events []domain.Event) {
	for _, ev := range events {
		switch ev.Type {
		case domain.EventDaySeparator:
			fmt.Printf("-- Day %d --\n", ev.Day)
		case domain.EventLine:
			fmt.Printf("%s: %s\n", ev.Speaker, ev.Text)
		case domain.EventChoiceOffer:
			for i, opt := range ev.Options {
				fmt.Printf("  %d) %s\n", i+1, opt.Text)
			}
		case domain.EventSessionExhausted:
			fmt.Println("(end)")
		}
	}
}

func Example() {
	eng, err := murmur.New(murmur.WithRows(dsl.DemoThread()))
	if err != nil {
		panic(err)
	}
	ctx := context.Background()

	events, _ := eng.EnterOrResume(ctx, dsl.DemoGroup)
	printEvents(events)

	offer := events[len(events)-1]
	events, _ = eng.SubmitChoice(ctx, dsl.DemoGroup, offer.Options[1].Position)
	printEvents(events)

	// Output:
	// -- Day 1 --
	// mei: Hi everyone! What are we eating tonight?
	//   1) Hotpot!
	//   2) BBQ, let's go
	//   3) Whatever, you decide
	// player: BBQ, let's go
	// jun: BBQ sorted! Which place?
	//   1) The one near the office
	//   2) That trendy spot
	//   3) I'm fine with anything
}

func ExampleEngine_Global() {
	rows := []domain.DialogueRow{
		{Day: 1, Group: 7, Position: 1, Speaker: "boss", Text: "Did you finish the report?", OpensChoice: true},
		{Day: 1, Group: 7, Position: 2, Text: "Of course", IsPlayerOption: true, ContradictionDelta: 1},
		{Day: 1, Group: 7, Position: 3, Text: "Not yet", IsPlayerOption: true, SuspicionDelta: 1},
	}
	eng, _ := murmur.New(murmur.WithRows(rows))
	ctx := context.Background()

	_, _ = eng.EnterOrResume(ctx, 7)
	_, _ = eng.SubmitChoice(ctx, 7, 2)

	g := eng.Global()
	fmt.Printf("contradiction=%d suspicion=%d\n", g.Contradiction, g.Suspicion)
	// Output:
	// contradiction=1 suspicion=0
}
