package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/murmur/pkg/adapters/yaml"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
rows:
  - {day: 1, group: 1, position: 1, speaker: npc1, text: hello, next_position: 2}
  - {day: 1, group: 1, position: 2, speaker: npc2, text: pick one, opens_choice: true, next_position: 3}
  - day: 1
    group: 1
    position: 3
    text: A
    is_player_option: "1"
    suspicion_delta: 2.5
    next_position: 10
---
- {day: "2", group: 2, position: 5, speaker: mom, text: "dinner?", opens_choice: TRUE}
`

func TestLoader_Contract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialogue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tests.RowLoaderContractTest(t, yaml.New(path), []domain.DialogueRow{
		{Day: 1, Group: 1, Position: 1, Speaker: "npc1", Text: "hello", NextPosition: 2},
		{Day: 1, Group: 1, Position: 2, Speaker: "npc2", Text: "pick one", OpensChoice: true, NextPosition: 3},
		{Day: 1, Group: 1, Position: 3, Text: "A", IsPlayerOption: true, SuspicionDelta: 2, NextPosition: 10},
		{Day: 2, Group: 2, Position: 5, Speaker: "mom", Text: "dinner?", OpensChoice: true},
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Scalar Document", "just text"},
		{"Broken Syntax", "rows: [1, 2"},
		{"Row Is Not A Mapping", "- 1\n- 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yaml.Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	rows, err := yaml.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
