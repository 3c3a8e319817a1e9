package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "registrar",
	Short: "Conference registration backend",
	Long: `Serves the registration form endpoint: validates submissions, appends
a ledger row and sends the participant confirmation and the admin alert.

Configuration is read from environment variables (see MAIL_PROVIDER,
LEDGER_BACKEND and friends). Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendTestEmailCmd)
	addServeFlags(rootCmd)
}
