package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/internal/presentation/tui"
	"github.com/aretw0/murmur/pkg/domain"
)

type commandKind int

const (
	cmdPick commandKind = iota
	cmdSwitch
	cmdGroups
	cmdState
	cmdReset
	cmdHelp
	cmdQuit
)

type command struct {
	kind commandKind
	arg  int
}

// parseCommand reads one line of player input: a number picks an offered reply, anything
// else must be a slash command.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errors.New("empty input")
	}

	if n, err := strconv.Atoi(fields[0]); err == nil && len(fields) == 1 {
		return command{kind: cmdPick, arg: n}, nil
	}

	switch strings.ToLower(fields[0]) {
	case "/switch", "/s":
		if len(fields) != 2 {
			return command{}, errors.New("usage: /switch <group>")
		}
		g, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, fmt.Errorf("invalid group %q", fields[1])
		}
		return command{kind: cmdSwitch, arg: g}, nil
	case "/groups":
		return command{kind: cmdGroups}, nil
	case "/state":
		return command{kind: cmdState}, nil
	case "/reset":
		return command{kind: cmdReset}, nil
	case "/help", "?":
		return command{kind: cmdHelp}, nil
	case "/quit", "/q", "quit", "exit":
		return command{kind: cmdQuit}, nil
	}
	return command{}, fmt.Errorf("unknown command %q (try /help)", fields[0])
}

const helpText = `Type the number of a reply to send it.
  /switch N   open group N
  /groups     list groups
  /state      show counters
  /reset      start over
  /quit       leave`

// Player drives an engine from line-based input, one group chat at a time.
type Player struct {
	Engine  *murmur.Engine
	Printer *tui.Printer
	In      io.Reader
	Out     io.Writer
	Prompt  bool // Print a prompt before each read

	group int
	offer *domain.Event
}

// Play opens group and reads commands until the input ends, the player quits or ctx is done.
func (p *Player) Play(ctx context.Context, group int) error {
	if err := p.enter(ctx, group); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(p.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
			return
		}
		readErr <- io.EOF
	}()

	for {
		if p.Prompt {
			fmt.Fprint(p.Out, "> ")
		}

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		case line = <-lines:
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			printSystemMessage(p.Out, "%v", err)
			continue
		}
		if cmd.kind == cmdQuit {
			return nil
		}
		if err := p.dispatch(ctx, cmd); err != nil {
			return err
		}
	}
}

func (p *Player) dispatch(ctx context.Context, cmd command) error {
	switch cmd.kind {
	case cmdPick:
		return p.pick(ctx, cmd.arg)
	case cmdSwitch:
		return p.enter(ctx, cmd.arg)
	case cmdGroups:
		for _, g := range p.Engine.Groups() {
			marker := " "
			if g == p.group {
				marker = "*"
			}
			s, err := p.Engine.Session(ctx, g)
			if err != nil {
				return err
			}
			fmt.Fprintf(p.Out, "%s %d (%s)\n", marker, g, s.Status)
		}
	case cmdState:
		p.Printer.Status(p.group, p.Engine.Global())
	case cmdReset:
		if err := p.Engine.Reset(ctx); err != nil {
			return err
		}
		printSystemMessage(p.Out, "Playthrough reset.")
		return p.enter(ctx, p.group)
	case cmdHelp:
		fmt.Fprintln(p.Out, helpText)
	}
	return nil
}

func (p *Player) enter(ctx context.Context, group int) error {
	events, err := p.Engine.EnterOrResume(ctx, group)
	if err != nil {
		return fmt.Errorf("cannot open group %d: %w", group, err)
	}
	p.group = group
	printSystemMessage(p.Out, "Group %d", group)
	p.show(events)
	return nil
}

func (p *Player) pick(ctx context.Context, n int) error {
	if p.offer == nil {
		printSystemMessage(p.Out, "Nothing to answer here. /switch to another group.")
		return nil
	}
	if n < 1 || n > len(p.offer.Options) {
		printSystemMessage(p.Out, "Pick a number between 1 and %d.", len(p.offer.Options))
		return nil
	}

	events, err := p.Engine.SubmitChoice(ctx, p.group, p.offer.Options[n-1].Position)
	if err != nil && !isRejection(err) {
		return err
	}
	if err != nil {
		p.Printer.Print(events)
		return nil
	}
	p.show(events)
	return nil
}

// show prints events and remembers the offer they end on.
func (p *Player) show(events []domain.Event) {
	p.Printer.Print(events)
	p.offer = nil
	for i := range events {
		if events[i].Type == domain.EventChoiceOffer {
			p.offer = &events[i]
		}
	}
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrInactiveSession) ||
		errors.Is(err, domain.ErrNotAwaitingChoice) ||
		errors.Is(err, domain.ErrChoiceNotOffered)
}
