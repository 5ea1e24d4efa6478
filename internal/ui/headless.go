package ui

import (
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/render"
	"github.com/muurk/ledpanel/internal/state"
)

// Headless is the panel surface used without a controlling terminal, for
// example under a systemd unit with GPIO buttons. It draws nothing and logs
// each change of the visible state. Input comes from other producers only.
type Headless struct {
	mu    sync.Mutex
	last  state.Snapshot
	draws int
}

// NewHeadless creates a headless surface.
func NewHeadless() *Headless {
	return &Headless{}
}

// Start is a no-op; there is no program to run.
func (h *Headless) Start() {}

// Stop is a no-op and never fails.
func (h *Headless) Stop() error { return nil }

// Draw implements loop.Display.
func (h *Headless) Draw(frame render.Frame, snap state.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	changed := h.draws == 0 || snap != h.last
	h.draws++
	h.last = snap
	if !changed {
		return
	}

	logging.Info("Panel",
		zap.String("led", state.Label(snap.ActuatorOn)),
		zap.Bool("connected", snap.Connected),
		zap.String("status", snap.StatusText),
		zap.Int("primitives", len(frame)),
	)
}

// Last returns the most recently drawn snapshot and the number of draws.
func (h *Headless) Last() (state.Snapshot, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.draws
}
