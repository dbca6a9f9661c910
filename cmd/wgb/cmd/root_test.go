package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestConfig writes a wgb config file that keeps all state inside dir
// and points wg-quick at a fake script recording its invocations.
func writeTestConfig(t *testing.T, dir string) (cfgPath, stateFile, scriptLog string) {
	t.Helper()

	scriptLog = filepath.Join(dir, "wg-quick.log")
	script := filepath.Join(dir, "wg-quick")
	body := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %s\nexit 0\n", scriptLog)
	if err := os.WriteFile(script, []byte(body), 0o700); err != nil {
		t.Fatal(err)
	}

	stateFile = filepath.Join(dir, "state.json")
	cfgPath = filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`state_file: %s
lock_dir: %s
log_level: error
tunnel:
  wg_quick: %s
`, stateFile, filepath.Join(dir, "locks"), script)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return cfgPath, stateFile, scriptLog
}

func TestRootCommand_Help(t *testing.T) {
	output, _ := execute(t)

	if !strings.Contains(output, "wgb") {
		t.Errorf("help output should contain 'wgb', got: %s", output)
	}
	if !strings.Contains(output, "WireGuard") {
		t.Errorf("help output should contain 'WireGuard', got: %s", output)
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2025-01-01")

	output, _ := execute(t, "--version")

	for _, want := range []string{"1.2.3", "abc123", "2025-01-01"} {
		if !strings.Contains(output, want) {
			t.Errorf("version output should contain %q, got: %s", want, output)
		}
	}
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	_, err := execute(t, "nonexistent")

	if err == nil {
		t.Error("unknown subcommand should return an error")
	}
}
