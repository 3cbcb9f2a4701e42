package tui

import (
	"fmt"
	"hash/fnv"
	"io"

	"github.com/aretw0/murmur/pkg/domain"
	"github.com/muesli/termenv"
)

// palette colors speakers that have no explicit color.
var palette = []string{"#60a5fa", "#34d399", "#fbbf24", "#f472b6", "#a78bfa", "#f87171", "#2dd4bf"}

const playerColor = "#e5e7eb"

// Printer writes engine events to a terminal as a chat transcript.
type Printer struct {
	out     io.Writer
	profile termenv.Profile
	render  func(string) (string, error)
	colors  map[string]string
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithProfile forces a color profile. termenv.Ascii disables styling.
func WithProfile(p termenv.Profile) PrinterOption {
	return func(pr *Printer) {
		pr.profile = p
	}
}

// WithMarkdown renders line text through render, for example NewRenderer().
func WithMarkdown(render func(string) (string, error)) PrinterOption {
	return func(pr *Printer) {
		if render != nil {
			pr.render = render
		}
	}
}

// WithSpeakerColors assigns fixed colors ("#rrggbb") to speaker tags.
func WithSpeakerColors(colors map[string]string) PrinterOption {
	return func(pr *Printer) {
		for k, v := range colors {
			pr.colors[k] = v
		}
	}
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, opts ...PrinterOption) *Printer {
	p := &Printer{
		out:     out,
		profile: termenv.ColorProfile(),
		render:  PlainRenderer,
		colors:  map[string]string{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print writes events in order.
func (p *Printer) Print(events []domain.Event) {
	for _, ev := range events {
		p.printEvent(ev)
	}
}

func (p *Printer) printEvent(ev domain.Event) {
	switch ev.Type {
	case domain.EventDaySeparator:
		fmt.Fprintln(p.out, p.profile.String(DayLabel(ev.Day)).Faint())
	case domain.EventLine:
		p.printLine(ev)
	case domain.EventChoiceOffer:
		for i, opt := range ev.Options {
			fmt.Fprintf(p.out, "  %s %s\n", p.profile.String(fmt.Sprintf("[%d]", i+1)).Bold(), opt.Text)
		}
	case domain.EventSessionExhausted:
		fmt.Fprintln(p.out, p.profile.String("(end of thread)").Faint())
	case domain.EventMalformedGraph:
		fmt.Fprintln(p.out, p.warn(fmt.Sprintf("! malformed graph at %d: %s", ev.Position, ev.Reason)))
	case domain.EventChoiceRejected:
		fmt.Fprintln(p.out, p.warn(fmt.Sprintf("! choice %d rejected: %s", ev.Position, ev.Reason)))
	}
}

func (p *Printer) printLine(ev domain.Event) {
	text, err := p.render(ev.Text)
	if err != nil {
		text = ev.Text
	}
	if ev.FromPlayer {
		name := p.profile.String("you").Foreground(p.profile.Color(playerColor)).Bold()
		fmt.Fprintf(p.out, "  %s » %s\n", name, text)
		return
	}
	name := p.profile.String(ev.Speaker).Foreground(p.profile.Color(p.SpeakerColor(ev.Speaker))).Bold()
	fmt.Fprintf(p.out, "%s: %s\n", name, text)
}

func (p *Printer) warn(s string) termenv.Style {
	return p.profile.String(s).Foreground(p.profile.Color("#f59e0b"))
}

// Status writes the counters and the active group.
func (p *Printer) Status(active int, g domain.GlobalState) {
	line := fmt.Sprintf("group %d | contradiction %d | suspicion %d", active, g.Contradiction, g.Suspicion)
	fmt.Fprintln(p.out, p.profile.String(line).Faint())
}

// SpeakerColor returns the color of a speaker tag. Tags without a fixed color get a stable
// color from the palette.
func (p *Printer) SpeakerColor(speaker string) string {
	if c, ok := p.colors[speaker]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(speaker))
	return palette[h.Sum32()%uint32(len(palette))]
}

// DayLabel is the separator text shown when a thread moves to another day.
func DayLabel(day int) string {
	return fmt.Sprintf("── Day %d ──", day)
}
