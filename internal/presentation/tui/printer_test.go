package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Transcript(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, WithProfile(termenv.Ascii))

	p.Print([]domain.Event{
		{Type: domain.EventDaySeparator, Group: 1, Day: 2},
		{Type: domain.EventLine, Group: 1, Speaker: "mei", Text: "dinner?"},
		{Type: domain.EventChoiceOffer, Group: 1, Options: []domain.Option{{Position: 3, Text: "yes"}, {Position: 4, Text: "no"}}},
		{Type: domain.EventLine, Group: 1, Speaker: domain.SpeakerPlayer, Text: "yes", FromPlayer: true},
		{Type: domain.EventMalformedGraph, Group: 1, Position: 7, Reason: domain.ReasonCycle},
		{Type: domain.EventChoiceRejected, Group: 1, Position: 9, Reason: domain.ReasonNotOffered},
		{Type: domain.EventSessionExhausted, Group: 1},
	})

	want := strings.Join([]string{
		"── Day 2 ──",
		"mei: dinner?",
		"  [1] yes",
		"  [2] no",
		"  you » yes",
		"! malformed graph at 7: cycle",
		"! choice 9 rejected: choice_not_offered",
		"(end of thread)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPrinter_Markdown(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf,
		WithProfile(termenv.Ascii),
		WithMarkdown(func(s string) (string, error) { return strings.ToUpper(s), nil }),
	)
	p.Print([]domain.Event{{Type: domain.EventLine, Speaker: "jun", Text: "bring milk"}})
	assert.Equal(t, "jun: BRING MILK\n", buf.String())
}

func TestPrinter_Status(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, WithProfile(termenv.Ascii))
	p.Status(2, domain.GlobalState{Contradiction: 1, Suspicion: 3})
	assert.Equal(t, "group 2 | contradiction 1 | suspicion 3\n", buf.String())
}

func TestPrinter_SpeakerColor(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, WithSpeakerColors(map[string]string{"mom": "#ff0000"}))

	assert.Equal(t, "#ff0000", p.SpeakerColor("mom"))
	assert.Equal(t, p.SpeakerColor("mei"), p.SpeakerColor("mei"))
	assert.Contains(t, palette, p.SpeakerColor("jun"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBannerWithProfile(&buf, "0.1.0\n", termenv.Ascii)
	assert.Contains(t, buf.String(), "v0.1.0")
	assert.NotContains(t, buf.String(), "\x1b[")
}
