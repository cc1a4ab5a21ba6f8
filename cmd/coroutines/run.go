package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/coroutines/internal/cli"
	"github.com/aretw0/coroutines/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Run a timeline script until every step finishes",
	Long: `Loads a YAML script, starts its root steps on a timeline and ticks it at the
configured fps. On a terminal the variables are drawn live; use --plain to
print only the final summary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		useTUI := !plain && cli.IsTerminal(os.Stdout) && cli.IsTerminal(os.Stdin)

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		res, err := cli.RunScript(signals.Context(), env, args[0], useTUI)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("plain", false, "Never start the terminal UI")
}
