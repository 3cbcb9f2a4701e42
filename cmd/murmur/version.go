package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/murmur"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of murmur",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("murmur version %s\n", strings.TrimSpace(murmur.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
