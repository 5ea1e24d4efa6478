package led

import (
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/events"
	"github.com/muurk/ledpanel/internal/logging"
)

// Subscriber is the part of the event bus the Manager needs.
// *events.Bus implements it.
type Subscriber interface {
	Subscribe(handler any) func()
}

// Manager keeps a Controller in step with the last confirmed actuator state
type Manager struct {
	controller  Controller
	bus         Subscriber
	unsubscribe func()

	mu      sync.Mutex
	applied *bool
}

// NewManager creates a manager that drives controller from bus events
func NewManager(controller Controller, bus Subscriber) *Manager {
	return &Manager{
		controller: controller,
		bus:        bus,
	}
}

// Start begins listening for state change events
func (m *Manager) Start() {
	m.unsubscribe = m.bus.Subscribe(func(e events.StateChangedEvent) {
		m.handleEvent(e)
	})
	logging.Info("Mirror LED manager started", zap.String("led", m.controller.Name()))
}

// Stop unsubscribes from events
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	logging.Info("Mirror LED manager stopped")
}

// handleEvent applies the event's actuator state if it differs from what
// the LED already shows
func (m *Manager) handleEvent(e events.StateChangedEvent) {
	on := e.Current.ActuatorOn

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.applied != nil && *m.applied == on {
		return
	}

	if err := m.controller.Set(on); err != nil {
		logging.Warn("Failed to update mirror LED",
			zap.String("led", m.controller.Name()),
			zap.Bool("on", on),
			zap.Error(err),
		)
		return
	}
	m.applied = &on
}
