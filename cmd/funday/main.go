package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vmtco/funday/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "funday",
		Short: "The Fun Day event and RSVP website",
		Long: `funday serves the company Fun Day website.

It renders the home, details, RSVP and confirmation pages, validates
RSVPs server-side and, when JavaScript is available, keeps the RSVP
form live over a WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		checkCmd(),
		versionCmd(),
	)
	return rootCmd
}
