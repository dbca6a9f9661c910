package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known WireGuard configurations",
	Long:  "Scan the registered search paths and list every known configuration with its persisted state.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb list: %w", err)
	}
	defer env.Close()

	entries, err := env.orch.List()
	if err != nil {
		return fmt.Errorf("wgb list: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no configurations known")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tCONNECTED\t2FA")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%t\t%t\n", e.Path, e.Connected, e.TokenRequired)
	}
	return w.Flush()
}
