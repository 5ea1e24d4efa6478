package led

import (
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/logging"
)

// noop implements Controller for systems without a mirror LED
type noop struct{}

// Name implements Controller
func (noop) Name() string {
	return "none"
}

// Set logs the request but performs no actual LED control
func (noop) Set(on bool) error {
	logging.Debug("Mirror LED not available (no-op)", zap.Bool("on", on))
	return nil
}
