package main

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/aretw0/coroutines/internal/cli"
	"github.com/aretw0/coroutines/internal/presentation/tui"
	"github.com/aretw0/coroutines/pkg/runner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a timeline forever behind the status API",
	Long: `Starts an empty timeline ticking at the configured fps and exposes it over
HTTP. POST YAML scripts to /scripts to start them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			env.Config.HTTP.Addr = addr
		}

		ln, err := net.Listen("tcp", env.Config.HTTP.Addr)
		if err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			tui.PrintBanner(cmd.OutOrStdout())
		}

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()
		return cli.Serve(signals.Context(), env, ln)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
