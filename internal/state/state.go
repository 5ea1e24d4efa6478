// Package state holds the single source of truth for what the panel knows
// about the remote LED.
//
// A DeviceState is created once per run and handed to the components that
// need it. Writers go through Apply, readers take a Snapshot. The lock is
// only held while fields are copied or assigned; callers must never do I/O
// inside an Apply mutation.
package state

import (
	"strings"
	"sync"
)

const (
	// MaxStatusLen is the longest status text that will be stored, in bytes.
	MaxStatusLen = 63

	// InitialStatus is the status text shown before the first command completes.
	InitialStatus = "Ready"
)

// Snapshot is an immutable copy of the device state taken under lock.
type Snapshot struct {
	ActuatorOn bool
	Connected  bool
	StatusText string
}

// DeviceState is the shared, lock-protected view of the remote actuator.
type DeviceState struct {
	mu         sync.Mutex
	actuatorOn bool
	connected  bool
	statusText string
}

// New creates a DeviceState in its startup configuration: LED off,
// disconnected, status "Ready".
func New() *DeviceState {
	return &DeviceState{statusText: InitialStatus}
}

// Snapshot returns a consistent copy of the current state.
func (s *DeviceState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ActuatorOn: s.actuatorOn,
		Connected:  s.connected,
		StatusText: s.statusText,
	}
}

// Mutation describes a change to apply atomically. Nil fields are left alone.
type Mutation struct {
	ActuatorOn *bool
	Connected  *bool
	StatusText *string
}

// Apply performs a read-modify-write under the lock and returns the state
// before and after the change.
func (s *DeviceState) Apply(m Mutation) (before, after Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before = Snapshot{ActuatorOn: s.actuatorOn, Connected: s.connected, StatusText: s.statusText}

	if m.ActuatorOn != nil {
		s.actuatorOn = *m.ActuatorOn
	}
	if m.Connected != nil {
		s.connected = *m.Connected
	}
	if m.StatusText != nil {
		if text := SanitizeStatus(*m.StatusText); text != "" {
			s.statusText = text
		}
	}

	after = Snapshot{ActuatorOn: s.actuatorOn, Connected: s.connected, StatusText: s.statusText}
	return before, after
}

// SanitizeStatus forces text into the stored form: printable ASCII only,
// at most MaxStatusLen bytes. Bytes outside the printable range become '?'.
func SanitizeStatus(text string) string {
	var b strings.Builder
	b.Grow(min(len(text), MaxStatusLen))
	for i := 0; i < len(text) && b.Len() < MaxStatusLen; i++ {
		c := text[i]
		if c < 0x20 || c > 0x7e {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Bool returns a pointer to v, for building Mutations.
func Bool(v bool) *bool { return &v }

// Text returns a pointer to v, for building Mutations.
func Text(v string) *string { return &v }

// Label returns "ON" or "OFF" for an actuator value.
func Label(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
