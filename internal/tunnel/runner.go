// Package tunnel invokes the external WireGuard control tooling: wg-quick
// for bring-up and tear-down, and the platform's device query for live
// status. The configuration file is never parsed here; only its path is
// handed to the external command.
package tunnel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lunatic-fringers/wgbridge/internal/wgberr"
)

// waitDelayAfterKill is the grace period for wg-quick to exit after context
// cancellation before it is forcibly killed.
const waitDelayAfterKill = 500 * time.Millisecond

// maxStderrBytes bounds how much diagnostic output is captured from the
// external command.
const maxStderrBytes = 8 * 1024

// Runner abstracts the external tunnel collaborator for testability.
type Runner interface {
	// Up brings the tunnel for confPath up. Non-zero exit maps to
	// TunnelBringUpFailed with the tool's stderr attached.
	Up(ctx context.Context, confPath string) error

	// Down tears the tunnel for confPath down. Non-zero exit maps to
	// TunnelTearDownFailed with the tool's stderr attached.
	Down(ctx context.Context, confPath string) error

	// IsUp reports the live up/down state of the tunnel for confPath.
	IsUp(ctx context.Context, confPath string) (bool, error)
}

// InterfaceName derives the WireGuard interface name from a configuration
// file path, following wg-quick's convention (basename without extension).
func InterfaceName(confPath string) string {
	base := filepath.Base(confPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WGQuick drives the wg-quick command. It implements Runner.
type WGQuick struct {
	cfg    Config
	logger *slog.Logger
}

// NewWGQuick creates a WGQuick runner. Config defaults are applied
// automatically.
func NewWGQuick(cfg Config, logger *slog.Logger) *WGQuick {
	cfg.ApplyDefaults()
	return &WGQuick{
		cfg:    cfg,
		logger: logger.With("component", "tunnel"),
	}
}

// Up brings the tunnel up via `wg-quick up <confPath>`.
func (w *WGQuick) Up(ctx context.Context, confPath string) error {
	if err := w.run(ctx, "up", confPath); err != nil {
		return wgberr.Wrap(wgberr.CodeTunnelBringUpFailed, confPath, err)
	}
	w.logger.Info("tunnel up", "conf", confPath, "interface", InterfaceName(confPath))
	return nil
}

// Down tears the tunnel down via `wg-quick down <confPath>`.
func (w *WGQuick) Down(ctx context.Context, confPath string) error {
	if err := w.run(ctx, "down", confPath); err != nil {
		return wgberr.Wrap(wgberr.CodeTunnelTearDownFailed, confPath, err)
	}
	w.logger.Info("tunnel down", "conf", confPath, "interface", InterfaceName(confPath))
	return nil
}

func (w *WGQuick) run(ctx context.Context, action, confPath string) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.CommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, w.cfg.WGQuick, action, confPath)
	cmd.WaitDelay = waitDelayAfterKill

	stderr := newLimitedWriter(maxStderrBytes)
	cmd.Stderr = stderr

	w.logger.Debug("invoking external command",
		"command", w.cfg.WGQuick,
		"action", action,
		"conf", confPath,
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s %s exited with status %d: %s",
				w.cfg.WGQuick, action, exitErr.ExitCode(), stderr.String())
		}
		return fmt.Errorf("%s %s: %w", w.cfg.WGQuick, action, err)
	}
	return nil
}

// limitedWriter discards bytes beyond a maximum, preventing unbounded
// allocation when the external command is verbose.
type limitedWriter struct {
	buf []byte
	max int64
}

func newLimitedWriter(max int64) *limitedWriter {
	return &limitedWriter{max: max}
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	remaining := w.max - int64(len(w.buf))
	if remaining > 0 {
		n := int64(len(p))
		if n > remaining {
			n = remaining
		}
		w.buf = append(w.buf, p[:n]...)
	}
	// Always report all bytes as written so the command doesn't stall.
	return len(p), nil
}

func (w *limitedWriter) String() string {
	return strings.TrimSpace(string(w.buf))
}
