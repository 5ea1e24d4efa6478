// Package led mirrors the remote actuator onto a local indicator LED.
//
// The Manager listens for state changes on the event bus and drives a
// Controller: a Linux sysfs LED when one is configured and present, a no-op
// otherwise.
package led

// Controller drives one local LED.
type Controller interface {
	// Set turns the LED on or off
	Set(on bool) error

	// Name identifies the LED in logs
	Name() string
}
