// Package loam loads dialogue rows from a directory of Markdown documents managed by Loam.
//
// Each document is one row. The front matter carries the numeric and flag fields, the body is
// the line's text:
//
//	---
//	day: 1
//	group: 2
//	position: 5
//	speaker: mom
//	opens_choice: true
//	---
//	Dinner tonight?
//
// Documents without both a group and a position (READMEs, notes) are skipped.
package loam

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/murmur/internal/logging"
	"github.com/aretw0/murmur/pkg/adapters/record"
	"github.com/aretw0/murmur/pkg/domain"
)

// Frontmatter is the raw metadata of a row document.
type Frontmatter map[string]any

// Loader adapts a Loam repository to ports.RowLoader.
type Loader struct {
	Repo   *loam.TypedRepository[Frontmatter]
	logger *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report skipped documents.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[Frontmatter], opts ...Option) *Loader {
	l := &Loader{
		Repo:   repo,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only Loam repository at path.
// Strict mode keeps front matter numbers as json.Number, which the row decoder understands.
func Open(path string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[Frontmatter](repo), opts...), nil
}

// Load implements ports.RowLoader. Rows are ordered by document ID.
func (l *Loader) Load(ctx context.Context) ([]domain.DialogueRow, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	rows := make([]domain.DialogueRow, 0, len(docs))
	for _, doc := range docs {
		fields := make(map[string]any, len(doc.Data)+1)
		for k, v := range doc.Data {
			fields[strings.ToLower(k)] = v
		}

		_, hasGroup := fields["group"]
		_, hasPosition := fields["position"]
		if !hasGroup || !hasPosition {
			l.logger.Debug("skipping document without group/position", "id", doc.ID)
			continue
		}
		if _, ok := fields["text"]; !ok {
			fields["text"] = strings.TrimSpace(doc.Content)
		}

		row, err := record.Decode(fields)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
