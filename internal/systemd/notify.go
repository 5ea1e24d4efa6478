// Package systemd reports service lifecycle to systemd through sd_notify.
// Outside a Type=notify unit (NOTIFY_SOCKET unset) every call is a no-op.
package systemd

import (
	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/logging"
)

// Ready signals that startup finished
func Ready() bool {
	return notify(daemon.SdNotifyReady)
}

// Stopping signals that shutdown has begun
func Stopping() bool {
	return notify(daemon.SdNotifyStopping)
}

// Status publishes a free-form status line shown by systemctl status
func Status(text string) bool {
	return notify("STATUS=" + text)
}

func notify(state string) bool {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("sd_notify failed", zap.String("state", state), zap.Error(err))
		return false
	}
	if sent {
		logging.Debug("sd_notify sent", zap.String("state", state))
	}
	return sent
}
