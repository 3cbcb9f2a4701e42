// Package yaml loads dialogue rows from YAML documents.
//
// A document is either a list of rows or a mapping with a "rows" list. Each row is a mapping
// keyed by the field names of domain.RowFields:
//
//	rows:
//	  - {day: 1, group: 1, position: 1, speaker: mom, text: "dinner?", next_position: 2}
//	  - {day: 1, group: 1, position: 2, speaker: mom, text: "well?", opens_choice: true}
//	  - {day: 1, group: 1, position: 3, text: "pizza", is_player_option: true, suspicion_delta: 1}
package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/murmur/pkg/adapters/record"
	"github.com/aretw0/murmur/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader reads rows from a YAML file.
type Loader struct {
	path string
}

// New creates a loader for the document at path.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Load implements ports.RowLoader.
func (l *Loader) Load(ctx context.Context) ([]domain.DialogueRow, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogue document: %w", err)
	}
	rows, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}
	return rows, nil
}

type document struct {
	Rows []map[string]any `yaml:"rows"`
}

// Parse decodes every YAML document in data and returns their rows in order.
func Parse(data []byte) ([]domain.DialogueRow, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var rows []domain.DialogueRow
	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		raw, err := decodeNode(&node)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		for j, fields := range raw {
			row, err := record.Decode(fields)
			if err != nil {
				return nil, fmt.Errorf("document %d row %d: %w", i, j, err)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func decodeNode(node *yaml.Node) ([]map[string]any, error) {
	content := node
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		content = node.Content[0]
	}

	switch content.Kind {
	case yaml.SequenceNode:
		var list []map[string]any
		if err := content.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case yaml.MappingNode:
		var doc document
		if err := content.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Rows, nil
	default:
		return nil, fmt.Errorf("expected a list of rows or a mapping with rows, got %s", kindName(content.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "an empty document"
	}
}
