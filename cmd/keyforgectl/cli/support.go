package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSupportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Manage support staff",
		Long:  "Grant, revoke and list support staff. Support staff can act on every application.",
	}

	cmd.AddCommand(newSupportAddCmd())
	cmd.AddCommand(newSupportRemoveCmd())
	cmd.AddCommand(newSupportListCmd())

	return cmd
}

func newSupportAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add <user-id>",
		Short:   "Grant support to a user",
		Args:    cobra.ExactArgs(1),
		Example: `  keyforgectl support add 184467440737095516`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			grant, err := a.Supports.Add(cmd.Context(), a.Config.SuperAdminID, args[0])
			if err != nil {
				return fmt.Errorf("add support %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Granted support to %q\n", grant.UserID)
			return nil
		},
	}
}

func newSupportRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <user-id>",
		Aliases: []string{"rm"},
		Short:   "Revoke support from a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Supports.Remove(cmd.Context(), a.Config.SuperAdminID, args[0]); err != nil {
				return fmt.Errorf("remove support %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked support from %q\n", args[0])
			return nil
		},
	}
}

func newSupportListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List support staff",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			grants, err := a.Supports.List(cmd.Context(), a.Config.SuperAdminID)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), grants)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "USER ID\tADDED BY\tADDED AT")
			for _, g := range grants {
				fmt.Fprintf(w, "%s\t%s\t%s\n", g.UserID, g.AddedBy, g.AddedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
