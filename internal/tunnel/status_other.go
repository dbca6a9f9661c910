//go:build !linux

package tunnel

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// IsUp queries the live tunnel state via `wg show <interface>`. wg exits
// non-zero when the device does not exist, which reads as down.
func (w *WGQuick) IsUp(ctx context.Context, confPath string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.CommandTimeout)
	defer cancel()

	name := InterfaceName(confPath)
	cmd := exec.CommandContext(ctx, w.cfg.WG, "show", name)
	cmd.WaitDelay = waitDelayAfterKill
	cmd.Stderr = newLimitedWriter(maxStderrBytes)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("tunnel: query device %s: %w", name, err)
	}
	return true, nil
}
