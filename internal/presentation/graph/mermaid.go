package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/murmur/internal/runtime"
	"github.com/aretw0/murmur/pkg/domain"
	dialogue "github.com/aretw0/murmur/pkg/graph"
)

// maxLabel is the number of runes of row text shown inside a node.
const maxLabel = 32

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	Current int   // Cursor of the session
	Offered []int // Pending options
}

// OverlayFor builds the overlay of a session, nil when there is nothing to highlight.
func OverlayFor(s *domain.Session) *GraphOverlay {
	if s == nil || s.Status == domain.StatusNotStarted || s.Status == domain.StatusExhausted {
		return nil
	}
	return &GraphOverlay{Current: s.Cursor, Offered: s.Offered}
}

// GenerateMermaid produces a Mermaid flowchart of one group.
// It applies semantic styling:
// - Entry row: ((Circle))
// - Row opening a choice: {Rhombus}
// - Player option: ([Stadium])
// - Default: [Rectangle]
// Edges from a choice to its options are dotted; edges leaving an option carry its deltas.
func GenerateMermaid(idx *dialogue.Index, group int, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	eng := runtime.NewEngine()
	first, _ := idx.FirstPosition(group)

	for _, row := range idx.Rows(group) {
		id := nodeID(row.Position)

		opener, closer := "[", "]"
		switch {
		case row.Position == first:
			opener, closer = "((", "))"
		case row.OpensChoice:
			opener, closer = "{", "}"
		case row.IsPlayerOption:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label(row), closer)

		if row.OpensChoice {
			for _, opt := range eng.CollectChoices(idx, group, row.Position) {
				fmt.Fprintf(&sb, "    %s -.-> %s\n", id, nodeID(opt))
			}
			continue
		}

		if _, ok := idx.Lookup(group, row.NextPosition); !ok {
			continue
		}
		arrow := "-->"
		if d := deltas(row); d != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", d)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", id, arrow, nodeID(row.NextPosition))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef offered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, pos := range overlay.Offered {
			fmt.Fprintf(&sb, "    class %s offered;\n", nodeID(pos))
		}
		if _, ok := idx.Lookup(group, overlay.Current); ok {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
		}
	}

	return sb.String()
}

func nodeID(position int) string {
	if position < 0 {
		return fmt.Sprintf("n%d", -position)
	}
	return fmt.Sprintf("p%d", position)
}

func label(row domain.DialogueRow) string {
	text := row.Text
	if utf8.RuneCountInString(text) > maxLabel {
		text = string([]rune(text)[:maxLabel]) + "…"
	}
	text = strings.ReplaceAll(text, "\"", "'")
	if row.Speaker == "" || row.IsPlayerOption {
		return fmt.Sprintf("%d: %s", row.Position, text)
	}
	return fmt.Sprintf("%d %s: %s", row.Position, row.Speaker, text)
}

func deltas(row domain.DialogueRow) string {
	var parts []string
	if row.ContradictionDelta != 0 {
		parts = append(parts, fmt.Sprintf("contradiction %+d", row.ContradictionDelta))
	}
	if row.SuspicionDelta != 0 {
		parts = append(parts, fmt.Sprintf("suspicion %+d", row.SuspicionDelta))
	}
	return strings.Join(parts, ", ")
}
