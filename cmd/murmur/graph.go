package main

import (
	"fmt"

	"github.com/aretw0/murmur/internal/cli"
	"github.com/aretw0/murmur/internal/presentation/graph"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export a group as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph TD) of one group: lines, choice points, replies and their deltas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(cmd, cfg, cli.CreateLogger(cfg.Level(), false), domain.LifecycleHooks{}, nil)
		if err != nil {
			return err
		}

		group, _ := cmd.Flags().GetInt("group")
		if !cmd.Flags().Changed("group") {
			if group, err = firstGroup(engine); err != nil {
				return err
			}
		}
		if len(engine.Rows(group)) == 0 {
			return fmt.Errorf("group %d has no rows (groups: %v)", group, engine.Groups())
		}

		fmt.Print(graph.GenerateMermaid(engine.Index(), group, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().IntP("group", "g", 0, "Group to export (default: the lowest group)")
}
