package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show live tunnel status",
	Long: "Query the live state of every known configuration and reconcile it with\n" +
		"the persisted state. Detected drift is repaired on the fly.",
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb status: %w", err)
	}
	defer env.Close()

	statuses, err := env.orch.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("wgb status: %w", err)
	}

	if len(statuses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no configurations known")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tUP\t2FA\tNOTE")
	for _, s := range statuses {
		note := ""
		if s.Repaired {
			note = "repaired"
		}
		fmt.Fprintf(w, "%s\t%t\t%t\t%s\n", s.Entry.Path, s.Up, s.Entry.TokenRequired, note)
	}
	return w.Flush()
}
