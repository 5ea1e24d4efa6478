package led

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/logging"
)

// New returns a sysfs controller for /sys/class/leds/<name>, or a no-op
// controller when name is empty or the LED does not exist.
func New(name string) Controller {
	return newFromRoot(sysfsLEDPath, name)
}

func newFromRoot(root, name string) Controller {
	if name == "" {
		return noop{}
	}

	path := filepath.Join(root, name)
	if _, err := os.Stat(path); err != nil {
		logging.Warn("Mirror LED not found, using no-op controller",
			zap.String("led", name),
			zap.String("path", path),
		)
		return noop{}
	}

	logging.Info("Mirror LED enabled", zap.String("led", name), zap.String("path", path))
	return newSysfs(name, path)
}
