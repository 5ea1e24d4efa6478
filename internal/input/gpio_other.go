//go:build !linux

package input

import (
	"errors"

	"github.com/muurk/ledpanel/internal/config"
)

// GPIOButtons is only available on Linux.
type GPIOButtons struct{}

// NewGPIOButtons always fails off Linux.
func NewGPIOButtons(cfg config.GPIO, q *Queue) (*GPIOButtons, error) {
	return nil, errors.New("GPIO input requires Linux gpiochip support")
}

// Close is a no-op.
func (g *GPIOButtons) Close() error {
	return nil
}
