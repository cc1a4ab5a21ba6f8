package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/coroutines/internal/cli"
	"github.com/aretw0/coroutines/internal/config"
)

var (
	v   = config.New()
	env *cli.Env
)

var rootCmd = &cobra.Command{
	Use:   "coroutines",
	Short: "Coroutines runs frame-driven timelines",
	Long: `Coroutines ticks cooperative steps once per frame. Timelines are described
in YAML scripts and can be run in the terminal or served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			v.SetConfigFile(path)
		}
		cfg, err := config.Decode(v)
		if err != nil {
			return err
		}
		env, err = cli.NewEnv(cfg, cmd.OutOrStdout())
		return err
	},
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
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default $HOME/.config/coroutines/config.yaml)")
	flags.Float64("fps", 60, "Frames per second")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text, json, off")
	flags.String("clock", config.ClockMonotonic, "Clock source: monotonic, redis, fixed")

	bind(v, "fps", "fps")
	bind(v, "log.level", "log-level")
	bind(v, "log.format", "log-format")
	bind(v, "clock.source", "clock")
}

func bind(v *viper.Viper, key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}
