package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/pkg/adapters/csv"
	loamAdapter "github.com/aretw0/murmur/pkg/adapters/loam"
	"github.com/aretw0/murmur/pkg/adapters/yaml"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/dsl"
	"github.com/aretw0/murmur/pkg/ports"
)

// EngineOptions describes how the commands build an engine.
type EngineOptions struct {
	Rows       string // Path to a .csv, .yaml/.yml file or a directory of Markdown rows
	Demo       bool   // Use the built-in demo thread instead of Rows
	ScanLimit  int
	MaxOffered int
	Locker     ports.DistributedLocker
	Hooks      domain.LifecycleHooks
	Logger     *slog.Logger
}

// OpenLoader picks the row loader for path by its extension. Directories are read as loam
// repositories.
func OpenLoader(path string, logger *slog.Logger) (ports.RowLoader, error) {
	if path == "" {
		return nil, fmt.Errorf("no dialogue rows given (use --rows, MURMUR_ROWS or --demo)")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rows: %w", err)
	}
	if info.IsDir() {
		loader, err := loamAdapter.Open(path, loamAdapter.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return loader, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return csv.New(path, csv.WithLogger(logger)), nil
	case ".yaml", ".yml":
		return yaml.New(path), nil
	default:
		return nil, fmt.Errorf("unsupported rows format %q (want .csv, .yaml, .yml or a directory)", ext)
	}
}

// CreateEngine initializes a murmur engine with standard CLI conventions.
func CreateEngine(opts EngineOptions) (*murmur.Engine, error) {
	engineOpts := []murmur.Option{
		murmur.WithLifecycleHooks(opts.Hooks),
		murmur.WithChoiceScanLimit(opts.ScanLimit),
		murmur.WithMaxOffered(opts.MaxOffered),
	}
	if opts.Logger != nil {
		engineOpts = append(engineOpts, murmur.WithLogger(opts.Logger))
	}
	if opts.Locker != nil {
		engineOpts = append(engineOpts, murmur.WithLocker(opts.Locker))
	}

	if opts.Demo {
		engineOpts = append(engineOpts, murmur.WithRows(dsl.DemoThread()))
	} else {
		loader, err := OpenLoader(opts.Rows, opts.Logger)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, murmur.WithLoader(loader))
	}

	engine, err := murmur.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
