package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/coroutines"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of coroutines",
	// Skip config loading.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "coroutines version %s\n", strings.TrimSpace(coroutines.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
