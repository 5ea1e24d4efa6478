package events

import (
	"time"

	"github.com/muurk/ledpanel/internal/state"
)

// Event type constants for kelindar/event.
const (
	TypeStateChanged uint32 = iota + 1
	TypeCommandFailed
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StateChangedEvent is published after every device state mutation, whether
// or not any field actually changed.
type StateChangedEvent struct {
	Intent   string
	Previous state.Snapshot
	Current  state.Snapshot
	At       time.Time
}

// Type returns the event type identifier for StateChangedEvent.
func (e StateChangedEvent) Type() uint32 { return TypeStateChanged }

// Changed reports whether any field differs between Previous and Current.
func (e StateChangedEvent) Changed() bool { return e.Previous != e.Current }

// CommandFailedEvent is published when an intent's transport call failed.
type CommandFailedEvent struct {
	Intent string
	Kind   string
	Reason string
	At     time.Time
}

// Type returns the event type identifier for CommandFailedEvent.
func (e CommandFailedEvent) Type() uint32 { return TypeCommandFailed }
