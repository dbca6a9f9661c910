package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect [config]",
	Short: "Bring up a WireGuard tunnel",
	Long: "Bring up the tunnel for the given configuration file. Without an argument\n" +
		"the single known configuration is used. Token-protected configurations\n" +
		"prompt for a one-time token first.",
	Args: cobra.MaximumNArgs(1),
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb connect: %w", err)
	}
	defer env.Close()

	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	entry, err := env.orch.Connect(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("wgb connect: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "connected %s\n", filepath.Base(entry.Path))
	return nil
}
