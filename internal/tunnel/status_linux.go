//go:build linux

package tunnel

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vishvananda/netlink"
	"golang.zx2c4.com/wireguard/wgctrl"
)

// IsUp queries the live tunnel state via netlink and wgctrl. The persisted
// connected flag is a claim; this is the ground truth it is reconciled
// against.
func (w *WGQuick) IsUp(_ context.Context, confPath string) (bool, error) {
	name := InterfaceName(confPath)

	if _, err := netlink.LinkByName(name); err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("tunnel: query link %s: %w", name, err)
	}

	// The link exists; confirm it is a live WireGuard device and not a
	// leftover interface of another type with the same name.
	client, err := wgctrl.New()
	if err != nil {
		return false, fmt.Errorf("tunnel: open wgctrl: %w", err)
	}
	defer client.Close()

	if _, err := client.Device(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("tunnel: query device %s: %w", name, err)
	}
	return true, nil
}
