package emulator

import (
	"fmt"
	"sync"
)

// Fault selects how the device misbehaves
type Fault int

const (
	FaultNone Fault = iota
	FaultGarbage
	FaultSilent
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultGarbage:
		return "garbage"
	case FaultSilent:
		return "silent"
	default:
		return fmt.Sprintf("Fault(%d)", int(f))
	}
}

// ParseFault maps a fault name to a Fault
func ParseFault(s string) (Fault, error) {
	switch s {
	case "", "none":
		return FaultNone, nil
	case "garbage":
		return FaultGarbage, nil
	case "silent":
		return FaultSilent, nil
	default:
		return FaultNone, fmt.Errorf("unknown fault %q (want none, garbage or silent)", s)
	}
}

// Device is the emulated LED. Safe for concurrent use.
type Device struct {
	mu      sync.Mutex
	on      bool
	fault   Fault
	toggles int
	queries int
}

// NewDevice creates a device with the LED off
func NewDevice() *Device {
	return &Device{}
}

// Toggle flips the LED and returns the new state
func (d *Device) Toggle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.on = !d.on
	d.toggles++
	return d.on
}

// State returns the LED state
func (d *Device) State() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries++
	return d.on
}

// Set forces the LED state
func (d *Device) Set(on bool) {
	d.mu.Lock()
	d.on = on
	d.mu.Unlock()
}

// SetFault switches the fault mode
func (d *Device) SetFault(f Fault) {
	d.mu.Lock()
	d.fault = f
	d.mu.Unlock()
}

// Fault returns the current fault mode
func (d *Device) Fault() Fault {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fault
}

// Counts returns how many toggle and state commands were served
func (d *Device) Counts() (toggles, queries int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.toggles, d.queries
}
