// Package csv loads dialogue rows from the authored comma-separated table.
//
// The first record is a header and is skipped. Columns follow domain.RowFields:
// Day, Group, Position, Speaker, Text, ContradictionDelta, SuspicionDelta, OpensChoice,
// IsPlayerOption, NextPosition. Records with fewer columns are dropped.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/murmur/internal/logging"
	"github.com/aretw0/murmur/pkg/adapters/record"
	"github.com/aretw0/murmur/pkg/domain"
)

// Loader reads rows from a CSV file.
type Loader struct {
	path   string
	logger *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report dropped records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loader for the table at path.
func New(path string, opts ...Option) *Loader {
	l := &Loader{
		path:   path,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements ports.RowLoader.
func (l *Loader) Load(ctx context.Context) ([]domain.DialogueRow, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dialogue table: %w", err)
	}
	defer f.Close()

	rows, dropped, err := parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.path, err)
	}
	if dropped > 0 {
		l.logger.Debug("dropped short records", "path", l.path, "count", dropped)
	}
	return rows, nil
}

// Parse reads rows from r, skipping the header.
func Parse(ctx context.Context, r io.Reader) ([]domain.DialogueRow, error) {
	rows, _, err := parse(ctx, r)
	return rows, err
}

func parse(ctx context.Context, r io.Reader) ([]domain.DialogueRow, int, error) {
	reader := stdcsv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var (
		rows    []domain.DialogueRow
		dropped int
		header  = true
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, dropped, err
		}

		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, dropped, err
		}
		if header {
			header = false
			continue
		}

		row, ok, err := record.FromValues(values)
		if err != nil {
			return nil, dropped, err
		}
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, dropped, nil
}
