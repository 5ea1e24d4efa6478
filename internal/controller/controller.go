// Package controller turns user intents into device commands and applies
// their outcome to the shared device state.
//
// The transport call always happens before the state lock is taken; the
// outcome is then applied in a single state.Apply. Each intent produces
// exactly one transport attempt.
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/muurk/ledpanel/internal/events"
	"github.com/muurk/ledpanel/internal/state"
	"github.com/muurk/ledpanel/internal/transport"
)

// StatusFailed is shown after a toggle that did not reach the device
const StatusFailed = "Connection failed"

// Intent is a user-level request, distinct from the key that caused it.
type Intent int

const (
	// Toggle flips the LED
	Toggle Intent = iota
	// Refresh reads the LED state, once at startup
	Refresh
)

func (i Intent) String() string {
	switch i {
	case Toggle:
		return "toggle"
	case Refresh:
		return "refresh"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

// Command returns the transport command that serves the intent.
func (i Intent) Command() transport.Command {
	if i == Toggle {
		return transport.Toggle
	}
	return transport.QueryState
}

// Publisher receives state change notifications. *events.Bus implements it.
type Publisher interface {
	Publish(ev events.Event)
}

// Controller owns the intent to state mapping.
type Controller struct {
	state  *state.DeviceState
	client transport.Client
	bus    Publisher
	now    func() time.Time
}

// New creates a controller. bus may be nil.
func New(st *state.DeviceState, client transport.Client, bus Publisher) *Controller {
	return &Controller{
		state:  st,
		client: client,
		bus:    bus,
		now:    time.Now,
	}
}

// Handle executes intent and applies the outcome. The outcome is returned for
// callers that report it (one-shot CLI commands); the panel ignores it.
func (c *Controller) Handle(ctx context.Context, intent Intent) transport.Outcome {
	out := c.client.Execute(ctx, intent.Command())

	before, after := c.state.Apply(Mutation(intent, out))

	if c.bus != nil {
		at := c.now()
		c.bus.Publish(events.StateChangedEvent{
			Intent:   intent.String(),
			Previous: before,
			Current:  after,
			At:       at,
		})
		if !out.OK() {
			c.bus.Publish(events.CommandFailedEvent{
				Intent: intent.String(),
				Kind:   transport.KindOf(out.Err).String(),
				Reason: out.Err.Error(),
				At:     at,
			})
		}
	}

	return out
}

// Mutation maps an intent's outcome to the state change it causes.
//
// Success sets the reported state, connected and "LED: ON|OFF". Failure
// only clears connected and, for Toggle, sets StatusFailed; the actuator
// keeps its last known value.
func Mutation(intent Intent, out transport.Outcome) state.Mutation {
	if out.OK() {
		return state.Mutation{
			ActuatorOn: state.Bool(out.ReportedOn),
			Connected:  state.Bool(true),
			StatusText: state.Text("LED: " + state.Label(out.ReportedOn)),
		}
	}

	m := state.Mutation{Connected: state.Bool(false)}
	if intent == Toggle {
		m.StatusText = state.Text(StatusFailed)
	}
	return m
}
