// Package loop is the panel's scheduler. It merges a periodic tick with the
// input event stream into one ordered sequence and handles each event to
// completion, redraw included, before taking the next.
//
// Only the Run goroutine dispatches, so no two intents are ever handled
// concurrently. The only concurrency left is between an in-flight handler
// and whoever else reads the device state.
package loop

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledpanel/internal/controller"
	"github.com/muurk/ledpanel/internal/input"
	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/metrics"
	"github.com/muurk/ledpanel/internal/render"
	"github.com/muurk/ledpanel/internal/state"
	"github.com/muurk/ledpanel/internal/transport"
)

// TickInterval is how long the loop waits for input before treating the
// wait as a timer tick.
const TickInterval = 100 * time.Millisecond

// Status is the loop's lifecycle state.
type Status int

const (
	Running Status = iota
	Terminating
)

func (s Status) String() string {
	if s == Terminating {
		return "terminating"
	}
	return "running"
}

// EventKind tags an AppEvent.
type EventKind int

const (
	EventTick EventKind = iota
	EventInput
)

func (k EventKind) String() string {
	if k == EventInput {
		return "input"
	}
	return "tick"
}

// AppEvent is one item of the merged sequence. Input is set for EventInput.
type AppEvent struct {
	Kind  EventKind
	Input input.Event
}

func (e AppEvent) String() string {
	if e.Kind == EventInput {
		return fmt.Sprintf("input(%s)", e.Input)
	}
	return "tick"
}

// Handler executes intents. *controller.Controller implements it.
type Handler interface {
	Handle(ctx context.Context, intent controller.Intent) transport.Outcome
}

// Display receives a full-frame redraw. The snapshot is the one the frame
// was drawn from, for surfaces that show more than the primitives.
type Display interface {
	Draw(frame render.Frame, snap state.Snapshot)
}

// Dispatcher observes dispatch. Begin and End bracket the handling of each
// event, redraw included.
type Dispatcher interface {
	Begin(ev AppEvent)
	End(ev AppEvent)
}

// Loop is the event loop. Create it with New and call Run once.
type Loop struct {
	state   *state.DeviceState
	handler Handler
	source  input.Source
	display Display
	layout  render.Layout

	tick           time.Duration
	hook           Dispatcher
	startupRefresh bool
	status         Status
}

// Option configures a Loop.
type Option func(*Loop)

// WithTickInterval overrides TickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.tick = d
		}
	}
}

// WithDispatcher installs a dispatch observer.
func WithDispatcher(h Dispatcher) Option {
	return func(l *Loop) { l.hook = h }
}

// WithoutStartupRefresh skips the initial state query.
func WithoutStartupRefresh() Option {
	return func(l *Loop) { l.startupRefresh = false }
}

// New creates a loop over the given collaborators.
func New(st *state.DeviceState, handler Handler, source input.Source, display Display, layout render.Layout, opts ...Option) *Loop {
	l := &Loop{
		state:          st,
		handler:        handler,
		source:         source,
		display:        display,
		layout:         layout,
		tick:           TickInterval,
		startupRefresh: true,
		status:         Running,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Status returns the loop's lifecycle state. Only meaningful once Run returned
// or from the Run goroutine.
func (l *Loop) Status() Status {
	return l.status
}

// Run draws the first frame, refreshes the device state, then dispatches
// events until Back is pressed, the input source closes or ctx is cancelled.
// It returns ctx.Err() on cancellation and nil otherwise.
func (l *Loop) Run(ctx context.Context) error {
	logging.Info("Event loop started", zap.Duration("tick", l.tick))
	defer logging.Info("Event loop stopped")

	l.redraw()
	if l.startupRefresh {
		l.handler.Handle(context.WithoutCancel(ctx), controller.Refresh)
		l.redraw()
	}

	timer := time.NewTimer(l.tick)
	defer timer.Stop()

	events := l.source.Events()
	for l.status == Running {
		timer.Reset(l.tick)

		var ev AppEvent
		select {
		case <-ctx.Done():
			l.status = Terminating
			return ctx.Err()
		case in, ok := <-events:
			if !ok {
				logging.Info("Input source closed")
				l.status = Terminating
				return nil
			}
			ev = AppEvent{Kind: EventInput, Input: in}
		case <-timer.C:
			ev = AppEvent{Kind: EventTick}
		}

		l.dispatch(ctx, ev)
	}

	return nil
}

// dispatch handles one event to completion.
func (l *Loop) dispatch(ctx context.Context, ev AppEvent) {
	if l.hook != nil {
		l.hook.Begin(ev)
		defer l.hook.End(ev)
	}
	metrics.IncEvent(ev.Kind.String())

	if ev.Kind == EventInput && ev.Input.Phase == input.PhasePress {
		switch ev.Input.Key {
		case input.KeyConfirm:
			// A started command always runs to completion or timeout
			l.handler.Handle(context.WithoutCancel(ctx), controller.Toggle)
		case input.KeyBack:
			logging.Debug("Back pressed, terminating")
			l.status = Terminating
			return
		}
	}

	l.redraw()
}

func (l *Loop) redraw() {
	snap := l.state.Snapshot()
	l.display.Draw(render.Draw(snap, l.layout), snap)
	metrics.IncRedraw()
}
