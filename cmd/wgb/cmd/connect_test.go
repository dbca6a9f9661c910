package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunatic-fringers/wgbridge/internal/store"
	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

func writeConf(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("[Interface]\nPrivateKey = x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadState(t *testing.T, stateFile string) *store.State {
	t.Helper()
	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatal(err)
	}
	var st store.State
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatal(err)
	}
	return &st
}

func TestConnectCommand_ExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath, stateFile, scriptLog := writeTestConfig(t, dir)
	conf := writeConf(t, dir, "office.conf")

	output, err := execute(t, "--config", cfgPath, "connect", conf)
	if err != nil {
		t.Fatalf("connect error = %v", err)
	}
	if !strings.Contains(output, "connected office.conf") {
		t.Errorf("connect output = %q", output)
	}

	log, err := os.ReadFile(scriptLog)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(log), "up "+conf) {
		t.Errorf("wg-quick invocations = %q, want up %s", log, conf)
	}

	st := loadState(t, stateFile)
	e := st.Entry(conf)
	if e == nil || !e.Connected {
		t.Errorf("state entry after connect = %+v, want connected", e)
	}
}

func TestConnectCommand_UnknownConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _, _ := writeTestConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "connect", filepath.Join(dir, "ghost.conf"))
	if !errors.Is(err, wgberr.ErrConfigNotFound) {
		t.Fatalf("connect error = %v, want ConfigNotFound", err)
	}
}

func TestConnectCommand_NoConfigurations(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _, _ := writeTestConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "connect")
	if !errors.Is(err, wgberr.ErrConfigNotFound) {
		t.Fatalf("connect error = %v, want ConfigNotFound", err)
	}
}

func TestDisconnectCommand_AfterConnect(t *testing.T) {
	dir := t.TempDir()
	cfgPath, stateFile, _ := writeTestConfig(t, dir)
	conf := writeConf(t, dir, "office.conf")

	if _, err := execute(t, "--config", cfgPath, "connect", conf); err != nil {
		t.Fatalf("connect error = %v", err)
	}
	output, err := execute(t, "--config", cfgPath, "disconnect", conf)
	if err != nil {
		t.Fatalf("disconnect error = %v", err)
	}
	if !strings.Contains(output, "disconnected office.conf") {
		t.Errorf("disconnect output = %q", output)
	}

	st := loadState(t, stateFile)
	if e := st.Entry(conf); e == nil || e.Connected {
		t.Errorf("state entry after disconnect = %+v, want disconnected", e)
	}
}

func TestListCommand_ShowsDiscoveredConfigs(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _, _ := writeTestConfig(t, dir)

	confDir := filepath.Join(dir, "wireguard")
	if err := os.MkdirAll(confDir, 0o700); err != nil {
		t.Fatal(err)
	}
	conf := writeConf(t, confDir, "office.conf")

	if _, err := execute(t, "--config", cfgPath, "path", "add", confDir); err != nil {
		t.Fatalf("path add error = %v", err)
	}

	output, err := execute(t, "--config", cfgPath, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(output, conf) {
		t.Errorf("list output = %q, want %s", output, conf)
	}
}

func TestStatusCommand_ReportsEntries(t *testing.T) {
	dir := t.TempDir()
	cfgPath, _, _ := writeTestConfig(t, dir)
	conf := writeConf(t, dir, "office.conf")

	if _, err := execute(t, "--config", cfgPath, "connect", conf); err != nil {
		t.Fatalf("connect error = %v", err)
	}

	output, err := execute(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(output, conf) {
		t.Errorf("status output = %q, want %s", output, conf)
	}
}
