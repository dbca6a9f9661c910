package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var disconnectCmd = &cobra.Command{
	Use:   "disconnect [config]",
	Short: "Tear down a WireGuard tunnel",
	Long: "Tear down the tunnel for the given configuration file. Without an argument\n" +
		"the single known configuration is used. Tearing down an already-down\n" +
		"tunnel succeeds without doing anything.",
	Args: cobra.MaximumNArgs(1),
	RunE: runDisconnect,
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb disconnect: %w", err)
	}
	defer env.Close()

	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	entry, err := env.orch.Disconnect(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("wgb disconnect: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "disconnected %s\n", filepath.Base(entry.Path))
	return nil
}
