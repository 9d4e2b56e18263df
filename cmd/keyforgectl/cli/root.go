// Package cli implements keyforgectl, the operator tool. Every command acts
// as the configured super admin.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/dimitrije/keyforge-api/internal/app"
	"github.com/dimitrije/keyforge-api/internal/config"
	"github.com/dimitrije/keyforge-api/internal/logging"
	"github.com/spf13/cobra"
)

var logLevel string

// Execute creates the root command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "keyforgectl",
		Short:         "Operate a keyforge license server",
		Long:          "keyforgectl manages the keyforge database directly: schema bootstrap, support staff and applications.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for diagnostic output")

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSupportCmd())
	cmd.AddCommand(newAppCmd())

	return cmd
}

// openApp loads configuration and connects, which also bootstraps the schema.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(logLevel, "console")
	return app.New(ctx, cfg, logger)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
