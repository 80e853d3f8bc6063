package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allyoucanfly",
		Short: "Flight itinerary search over a rate-limited route network",
		Long: `allyoucanfly finds direct and connecting flight itineraries between
airports, airport groups or ANY origin. Legs are fetched through a shared
request throttle and cached locally, so repeated searches are cheap.

Round trips pair every outbound itinerary with returns departing at least
six hours after arrival.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .allyoucanfly in current or home directory)")

	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewRoutesCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
