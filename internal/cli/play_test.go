package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/murmur/internal/presentation/tui"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    command
		wantErr bool
	}{
		{line: "2", want: command{kind: cmdPick, arg: 2}},
		{line: "  7  ", want: command{kind: cmdPick, arg: 7}},
		{line: "/switch 3", want: command{kind: cmdSwitch, arg: 3}},
		{line: "/S 4", want: command{kind: cmdSwitch, arg: 4}},
		{line: "/groups", want: command{kind: cmdGroups}},
		{line: "/state", want: command{kind: cmdState}},
		{line: "/reset", want: command{kind: cmdReset}},
		{line: "?", want: command{kind: cmdHelp}},
		{line: "quit", want: command{kind: cmdQuit}},
		{line: "/switch", wantErr: true},
		{line: "/switch x", wantErr: true},
		{line: "1 2", wantErr: true},
		{line: "hello", wantErr: true},
		{line: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newPlayer(t *testing.T, input string) (*Player, *bytes.Buffer) {
	t.Helper()
	engine, err := CreateEngine(EngineOptions{Demo: true})
	require.NoError(t, err)

	var out bytes.Buffer
	return &Player{
		Engine:  engine,
		Printer: tui.NewPrinter(&out, tui.WithProfile(termenv.Ascii)),
		In:      strings.NewReader(input),
		Out:     &out,
	}, &out
}

func TestPlayer_DemoPlayThrough(t *testing.T) {
	p, out := newPlayer(t, "3\n3\n3\n2\n/state\n1\n")

	require.NoError(t, p.Play(context.Background(), 1))

	transcript := out.String()
	for _, want := range []string{
		">>> Group 1",
		"── Day 1 ──",
		"mei: Hi everyone! What are we eating tonight?",
		"  [3] Whatever, you decide",
		"  you » Whatever, you decide",
		"  you » Let's vote",
		"  you » I vote something else",
		"  you » Pizza",
		"mei: OK!",
		"(end of thread)",
		"group 1 | contradiction 2 | suspicion 1",
		"Nothing to answer here",
	} {
		assert.Contains(t, transcript, want)
	}
	assert.Equal(t, domain.GlobalState{Contradiction: 2, Suspicion: 1}, p.Engine.Global())
}

func TestPlayer_Commands(t *testing.T) {
	p, out := newPlayer(t, "9\nbogus\n/groups\n/switch 5\n/switch 1\n/help\n/quit\n1\n")

	require.NoError(t, p.Play(context.Background(), 1))

	transcript := out.String()
	assert.Contains(t, transcript, "Pick a number between 1 and 3.")
	assert.Contains(t, transcript, `unknown command "bogus"`)
	assert.Contains(t, transcript, "* 1 (awaiting_choice)")
	assert.Contains(t, transcript, ">>> Group 5")
	assert.Contains(t, transcript, "/switch N")
	// Quit stops before the trailing pick.
	assert.Equal(t, domain.GlobalState{}, p.Engine.Global())

	active, ok := p.Engine.Active()
	assert.True(t, ok)
	assert.Equal(t, 1, active)
}

func TestPlayer_Reset(t *testing.T) {
	p, out := newPlayer(t, "3\n/reset\n")

	require.NoError(t, p.Play(context.Background(), 1))

	assert.Contains(t, out.String(), "Playthrough reset.")
	assert.Equal(t, domain.GlobalState{}, p.Engine.Global())
	assert.Equal(t, 2, strings.Count(out.String(), "Hi everyone!"))
}

func TestPlayer_CancelledContext(t *testing.T) {
	p, _ := newPlayer(t, "")
	p.In = blockingReader{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Play(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, HandleExecutionError(err))
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestOpenLoader(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	csvPath := write("rows.csv", "day,group,position,speaker,text,c,s,trigger,option,next\n1,1,1,mom,hi,0,0,0,0,0\n")
	yamlPath := write("rows.YAML", "- {day: 1, group: 1, position: 1, speaker: mom, text: hi}\n")
	txtPath := write("rows.txt", "")

	for _, path := range []string{csvPath, yamlPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			loader, err := OpenLoader(path, nil)
			require.NoError(t, err)
			rows, err := loader.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "hi", rows[0].Text)
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		_, err := OpenLoader(txtPath, nil)
		assert.ErrorContains(t, err, "unsupported rows format")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := OpenLoader(filepath.Join(dir, "nope.csv"), nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := OpenLoader("", nil)
		assert.Error(t, err)
	})
}
