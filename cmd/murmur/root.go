package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/internal/cli"
	"github.com/aretw0/murmur/internal/config"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "murmur",
	Short: "murmur plays branching group-chat narratives",
	Long: `murmur plays authored chat threads line by line, stops at each decision point and
keeps one conversation per group so you can switch between chats freely.

Rows come from a CSV table, a YAML file or a directory of Markdown documents.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("rows", "", "Dialogue rows: .csv, .yaml/.yml or a directory (env MURMUR_ROWS)")
	rootCmd.PersistentFlags().Bool("demo", false, "Use the built-in demo thread")
	rootCmd.PersistentFlags().Int("scan-limit", 0, "Rows scanned for replies after a choice (env MURMUR_CHOICE_SCAN_LIMIT)")
	rootCmd.PersistentFlags().Int("max-offered", 0, "Cap on replies offered at once, 0 for none (env MURMUR_MAX_OFFERED)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (env MURMUR_LOG_LEVEL)")
	rootCmd.PersistentFlags().Bool("debug", false, "Shortcut for --log-level debug")
}

// settings merges the environment with the flags of cmd. Flags win.
func settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows, _ = flags.GetString("rows")
	}
	if flags.Changed("scan-limit") {
		cfg.ChoiceScanLimit, _ = flags.GetInt("scan-limit")
	}
	if flags.Changed("max-offered") {
		cfg.MaxOffered, _ = flags.GetInt("max-offered")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// buildEngine creates the engine every command plays or inspects.
func buildEngine(cmd *cobra.Command, cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks, locker ports.DistributedLocker) (*murmur.Engine, error) {
	demo, _ := cmd.Flags().GetBool("demo")
	return cli.CreateEngine(cli.EngineOptions{
		Rows:       cfg.Rows,
		Demo:       demo,
		ScanLimit:  cfg.ChoiceScanLimit,
		MaxOffered: cfg.MaxOffered,
		Locker:     locker,
		Hooks:      hooks,
		Logger:     logger,
	})
}
