package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

func TestPathCommand_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _, _ := writeTestConfig(t, dir)

	confDir := filepath.Join(dir, "wireguard")
	if err := os.MkdirAll(confDir, 0o700); err != nil {
		t.Fatal(err)
	}

	output, err := execute(t, "--config", cfgPath, "path", "add", confDir)
	if err != nil {
		t.Fatalf("path add error = %v", err)
	}
	if !strings.Contains(output, confDir) {
		t.Errorf("path add output = %q, want registered path", output)
	}

	output, err = execute(t, "--config", cfgPath, "path", "list")
	if err != nil {
		t.Fatalf("path list error = %v", err)
	}
	if !strings.Contains(output, confDir) {
		t.Errorf("path list output = %q, want %s", output, confDir)
	}

	// Re-adding is a hard error, not a silent no-op.
	_, err = execute(t, "--config", cfgPath, "path", "add", confDir)
	if !errors.Is(err, wgberr.ErrDuplicatePath) {
		t.Fatalf("duplicate path add error = %v, want DuplicatePath", err)
	}

	if _, err = execute(t, "--config", cfgPath, "path", "delete", confDir); err != nil {
		t.Fatalf("path delete error = %v", err)
	}

	output, err = execute(t, "--config", cfgPath, "path", "list")
	if err != nil {
		t.Fatalf("path list error = %v", err)
	}
	if strings.Contains(output, confDir) {
		t.Errorf("path list still contains deleted path: %q", output)
	}
}

func TestPathCommand_AddMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _, _ := writeTestConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "path", "add", filepath.Join(dir, "ghost"))
	if !errors.Is(err, wgberr.ErrInvalidPath) {
		t.Fatalf("path add error = %v, want InvalidPath", err)
	}
}

func TestPathCommand_DeleteUnregistered(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _, _ := writeTestConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "path", "delete", dir)
	if !errors.Is(err, wgberr.ErrPathNotFound) {
		t.Fatalf("path delete error = %v, want PathNotFound", err)
	}
}
