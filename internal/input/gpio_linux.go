//go:build linux

package input

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gpiod "github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/config"
	"github.com/muurk/ledpanel/internal/logging"
)

// GPIOButtons feeds Confirm and Back push buttons wired to a gpiochip into a
// Queue. Edge handlers run on the gpiocdev watcher goroutine.
type GPIOButtons struct {
	mu    sync.Mutex
	chip  *gpiod.Chip
	lines []*gpiod.Line
}

// NewGPIOButtons opens cfg.Chip and requests both button lines.
func NewGPIOButtons(cfg config.GPIO, q *Queue) (*GPIOButtons, error) {
	chip, err := gpiod.NewChip(cfg.Chip)
	if err != nil {
		return nil, fmt.Errorf("open chip %s: %w", cfg.Chip, err)
	}

	g := &GPIOButtons{chip: chip}

	pins := []struct {
		pin int
		key Key
	}{
		{cfg.ConfirmPin, KeyConfirm},
		{cfg.BackPin, KeyBack},
	}

	for _, p := range pins {
		b := newButton(p.key, cfg.PullUp, cfg.Debounce(), q)
		if err := g.requestLine(p.pin, cfg.PullUp, b); err != nil {
			_ = g.Close()
			return nil, err
		}
		logging.Info("GPIO button ready",
			zap.String("chip", cfg.Chip),
			zap.Int("pin", p.pin),
			zap.String("key", p.key.String()),
		)
	}

	return g, nil
}

func (g *GPIOButtons) requestLine(pin int, pullUp bool, b *button) error {
	handler := func(evt gpiod.LineEvent) {
		b.edge(evt.Type == gpiod.LineEventRisingEdge, time.Now())
	}

	opts := []gpiod.LineReqOption{
		gpiod.AsInput,
		gpiod.WithBothEdges,
		gpiod.WithEventHandler(handler),
	}
	if pullUp {
		opts = append(opts, gpiod.WithPullUp)
	}

	line, err := g.chip.RequestLine(pin, opts...)
	if err != nil {
		return fmt.Errorf("request input pin %d: %w", pin, err)
	}

	g.mu.Lock()
	g.lines = append(g.lines, line)
	g.mu.Unlock()
	return nil
}

// Close releases the lines and the chip.
func (g *GPIOButtons) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs []error
	for _, line := range g.lines {
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	g.lines = nil

	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, err)
		}
		g.chip = nil
	}

	return errors.Join(errs...)
}
