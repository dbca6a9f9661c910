package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Manage configuration search paths",
	Long:  "Register and remove the directories wgb scans for WireGuard configuration files.",
}

var pathAddCmd = &cobra.Command{
	Use:   "add <directory>",
	Short: "Register a configuration search path",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathAdd,
}

var pathDeleteCmd = &cobra.Command{
	Use:   "delete <directory>",
	Short: "Remove a registered search path",
	Long: "Remove a directory from the search path registry. Configurations already\n" +
		"discovered under it are dropped on the next scan unless they are connected.",
	Args: cobra.ExactArgs(1),
	RunE: runPathDelete,
}

var pathListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered search paths",
	Args:  cobra.NoArgs,
	RunE:  runPathList,
}

func init() {
	pathCmd.AddCommand(pathAddCmd)
	pathCmd.AddCommand(pathDeleteCmd)
	pathCmd.AddCommand(pathListCmd)
	rootCmd.AddCommand(pathCmd)
}

func runPathAdd(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb path add: %w", err)
	}
	defer env.Close()

	abs, err := env.registry.Add(args[0])
	if err != nil {
		return fmt.Errorf("wgb path add: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", abs)
	return nil
}

func runPathDelete(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb path delete: %w", err)
	}
	defer env.Close()

	if err := env.registry.Delete(args[0]); err != nil {
		return fmt.Errorf("wgb path delete: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runPathList(cmd *cobra.Command, _ []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb path list: %w", err)
	}
	defer env.Close()

	paths, err := env.registry.List()
	if err != nil {
		return fmt.Errorf("wgb path list: %w", err)
	}

	if len(paths) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no search paths registered")
		return nil
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}
