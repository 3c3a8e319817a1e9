package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"registrar/internal/platform/config"
	"registrar/internal/platform/logger"
	"registrar/pkg/email"
)

var sendTestEmailCmd = &cobra.Command{
	Use:   "send-test-email",
	Short: "Send one test message through the configured transport",
	Long: `Render the test template and send it to --to using the transport
selected by MAIL_PROVIDER. Prints the provider and message id.

Example:
  MAIL_PROVIDER=resend RESEND_API_KEY=... registrar send-test-email --to ops@example.lv`,
	RunE: runSendTestEmail,
}

func init() {
	sendTestEmailCmd.Flags().String("to", "", "recipient address")
	_ = sendTestEmailCmd.MarkFlagRequired("to")
}

func runSendTestEmail(cmd *cobra.Command, _ []string) error {
	to, _ := cmd.Flags().GetString("to")
	to = strings.TrimSpace(to)
	if !email.Valid(to) {
		return fmt.Errorf("invalid recipient %q", to)
	}

	cfg := config.FromEnv()
	// The server's ledger is irrelevant here.
	cfg.Ledger.Backend = config.LedgerNone
	log := logger.New(cfg.Log)

	a, err := buildApp(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer func() { _ = a.Close(cmd.Context()) }()

	id, err := a.service.SendTest(cmd.Context(), to)
	if err != nil {
		return fmt.Errorf("send via %s: %w", cfg.Mail.Provider, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "provider=%s message_id=%s\n", a.service.Provider(), id)
	return nil
}
