package main

import (
	"fmt"

	"github.com/aretw0/murmur/internal/cli"
	"github.com/aretw0/murmur/internal/runtime"
	"github.com/aretw0/murmur/internal/validator"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dialogue rows for authoring mistakes",
	Long: `Lints every group: auto-play loops, lines running into player options, choices with
no replies, dangling next positions, duplicate positions and unreachable rows.
Exits non-zero when an error is found; warnings are only reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cmd, cfg, cli.CreateLogger(cfg.Level(), false), domain.LifecycleHooks{}, nil)
		if err != nil {
			return err
		}

		report := validator.Validate(engine.Index(),
			runtime.WithChoiceScanLimit(cfg.ChoiceScanLimit),
			runtime.WithMaxOffered(cfg.MaxOffered),
		)
		for _, issue := range report.Issues {
			fmt.Println(issue)
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Printf("Rows are valid! ✅ (%d groups, %d warnings)\n", len(engine.Groups()), len(report.Warnings()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
