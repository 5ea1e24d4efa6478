package led

import (
	"fmt"
	"os"
	"path/filepath"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfs implements Controller using the Linux sysfs LED interface
type sysfs struct {
	name string
	path string
}

// newSysfs creates a controller for the LED directory at path
func newSysfs(name, path string) *sysfs {
	return &sysfs{name: name, path: path}
}

// Name implements Controller
func (s *sysfs) Name() string {
	return s.name
}

// Set writes the brightness file. Any kernel trigger is cleared first so
// the manual value sticks.
func (s *sysfs) Set(on bool) error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("LED %q not found at %s", s.name, s.path)
	}

	triggerPath := filepath.Join(s.path, "trigger")
	if _, err := os.Stat(triggerPath); err == nil {
		if err := os.WriteFile(triggerPath, []byte("none"), 0644); err != nil {
			return fmt.Errorf("failed to set LED trigger to none: %w", err)
		}
	}

	brightness := "0"
	if on {
		brightness = "1"
	}

	if err := os.WriteFile(filepath.Join(s.path, "brightness"), []byte(brightness), 0644); err != nil {
		return fmt.Errorf("failed to set LED brightness: %w", err)
	}
	return nil
}
