package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/coroutines/internal/cli"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <script.yaml>",
	Short: "Print the outline of a timeline script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			return cli.Mermaid(args[0], cmd.OutOrStdout())
		}

		width := 80
		if cli.IsTerminal(os.Stdout) {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				width = w
			}
		} else {
			raw = true
		}
		return cli.Inspect(args[0], cmd.OutOrStdout(), width, raw)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "Print the Markdown source instead of rendering it")
	inspectCmd.Flags().Bool("mermaid", false, "Print a Mermaid flowchart instead of the outline")
}
