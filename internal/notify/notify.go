// Package notify tells a supervising systemd which process to track after a
// detached launch. Outside systemd (no NOTIFY_SOCKET) it does nothing.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
)

// MainPID reports pid as the service's main process. It returns false when
// no notification socket is configured.
func MainPID(pid int) (bool, error) {
	sent, err := daemon.SdNotify(false, fmt.Sprintf("MAINPID=%d", pid))
	if err != nil {
		return false, fmt.Errorf("sd_notify: %w", err)
	}
	if sent {
		slog.Debug("notified service manager", "mainpid", pid)
	}
	return sent, nil
}
