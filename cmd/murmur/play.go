package main

import (
	"fmt"
	"os"

	"github.com/aretw0/murmur"
	"github.com/aretw0/murmur/internal/cli"
	"github.com/aretw0/murmur/internal/presentation/tui"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/observability"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the chat threads in the terminal",
	Long: `Plays a group chat until the next decision point. Type the number of a reply to send it,
or /switch N to open another group; every group resumes where you left it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		logger := cli.CreateLogger(cfg.Level(), false)

		engine, err := buildEngine(cmd, cfg, logger, observability.LoggingHooks(logger), nil)
		if err != nil {
			return err
		}

		group, _ := cmd.Flags().GetInt("group")
		if !cmd.Flags().Changed("group") {
			group, err = firstGroup(engine)
			if err != nil {
				return err
			}
		}

		interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

		printerOpts := []tui.PrinterOption{}
		if interactive {
			tui.PrintBanner(os.Stdout, murmur.Version)
			printerOpts = append(printerOpts, tui.WithMarkdown(tui.NewRenderer()))
		} else {
			printerOpts = append(printerOpts, tui.WithProfile(termenv.Ascii))
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		player := &cli.Player{
			Engine:  engine,
			Printer: tui.NewPrinter(os.Stdout, printerOpts...),
			In:      os.Stdin,
			Out:     os.Stdout,
			Prompt:  interactive,
		}
		err = player.Play(sigCtx, group)
		if sig := sigCtx.Signal(); sig != nil && interactive {
			fmt.Println()
		}
		return cli.HandleExecutionError(err)
	},
}

func firstGroup(engine *murmur.Engine) (int, error) {
	groups := engine.Groups()
	if len(groups) == 0 {
		return 0, domain.ErrNoProvider
	}
	return groups[0], nil
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntP("group", "g", 0, "Group to open first (default: the lowest group)")
}
