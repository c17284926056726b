package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/routewatch/internal/app"
)

// Version is set at build time.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "routewatch",
	Short: "Live console for fleet routes",
	Long: `routewatch polls a fleet API and shows every route in a terminal console.

Flags, expanded rows and the current selection survive each refresh. The
console polls faster while the terminal has focus.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.Run(cmd.Context(), app.Options{ConfigPath: configPath, Version: Version})
	},
}

var (
	watchInterval time.Duration
	watchRoute    string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the route list on every refresh",
	Long: `Watch polls the route list without the console and prints a sorted table
each time a new snapshot arrives. With --route the given route is polled
alongside the list until it completes or is cancelled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.Watch(cmd.Context(), app.WatchOptions{
			ConfigPath: configPath,
			Interval:   watchInterval,
			Route:      watchRoute,
			Version:    Version,
		}, cmd.OutOrStdout())
	},
}

var routeCmd = &cobra.Command{
	Use:   "route <slug>",
	Short: "Follow one route until it finishes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.WatchRoute(cmd.Context(), app.WatchOptions{
			ConfigPath: configPath,
			Interval:   watchInterval,
			Route:      args[0],
			Version:    Version,
		}, cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "routewatch %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/routewatch/config.toml)")

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval, overrides the configured intervals")
	watchCmd.Flags().StringVar(&watchRoute, "route", "", "also follow this route slug")
	routeCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval, overrides the configured intervals")

	rootCmd.AddCommand(watchCmd, routeCmd, versionCmd)
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "routewatch: %v\n", err)
		return 1
	}
	return 0
}
