package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var twofaURI string

var twofaCmd = &cobra.Command{
	Use:   "twofa",
	Short: "Manage per-configuration two-factor protection",
	Long: "Enable or disable the one-time-token challenge required before a\n" +
		"configuration's tunnel may be brought up.",
}

var twofaEnableCmd = &cobra.Command{
	Use:   "enable <config>",
	Short: "Require a one-time token before connect",
	Long: "Require a one-time token before the tunnel for this configuration may be\n" +
		"brought up. The token is validated against the otpauth:// URI given with\n" +
		"--uri, the same URI an authenticator app would be provisioned with.",
	Args: cobra.ExactArgs(1),
	RunE: runTwofaEnable,
}

var twofaDisableCmd = &cobra.Command{
	Use:   "disable <config>",
	Short: "Drop the one-time token requirement",
	Args:  cobra.ExactArgs(1),
	RunE:  runTwofaDisable,
}

func init() {
	twofaEnableCmd.Flags().StringVar(&twofaURI, "uri", "", "otpauth:// TOTP provisioning URI (required)")
	_ = twofaEnableCmd.MarkFlagRequired("uri")

	twofaCmd.AddCommand(twofaEnableCmd)
	twofaCmd.AddCommand(twofaDisableCmd)
	rootCmd.AddCommand(twofaCmd)
}

func runTwofaEnable(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb twofa enable: %w", err)
	}
	defer env.Close()

	// Scan first so a freshly added configuration can be protected without
	// a prior list/connect.
	if _, err := env.scanner.Scan(args[0]); err != nil {
		return fmt.Errorf("wgb twofa enable: %w", err)
	}
	if err := env.gate.Enable(args[0], twofaURI); err != nil {
		return fmt.Errorf("wgb twofa enable: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "two-factor enabled for %s\n", filepath.Base(args[0]))
	return nil
}

func runTwofaDisable(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return fmt.Errorf("wgb twofa disable: %w", err)
	}
	defer env.Close()

	if err := env.gate.Disable(args[0]); err != nil {
		return fmt.Errorf("wgb twofa disable: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "two-factor disabled for %s\n", filepath.Base(args[0]))
	return nil
}
