package transport

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultTimeout bounds a single command round trip
	DefaultTimeout = 300 * time.Millisecond

	// MaxTimeout is the largest timeout a client accepts
	MaxTimeout = 2 * time.Second

	// maxReplySize caps how much of a reply body is read
	maxReplySize = 4096
)

// Command is a logical remote operation.
type Command int

const (
	// Toggle asks the device to flip the LED and report the new state
	Toggle Command = iota
	// QueryState asks the device for the current LED state
	QueryState
)

// String returns the wire name of the command.
func (c Command) String() string {
	switch c {
	case Toggle:
		return "toggle"
	case QueryState:
		return "query-state"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ParseCommand maps a wire name back to a Command.
func ParseCommand(s string) (Command, error) {
	switch s {
	case "toggle":
		return Toggle, nil
	case "query-state":
		return QueryState, nil
	default:
		return 0, fmt.Errorf("unknown command %q", s)
	}
}

// Outcome is the result of one command: Success when Err is nil, Failure
// otherwise. ReportedOn is only meaningful on success.
type Outcome struct {
	ReportedOn bool
	Err        error
}

// Success builds a successful outcome carrying the device-reported state.
func Success(reportedOn bool) Outcome {
	return Outcome{ReportedOn: reportedOn}
}

// Failure builds a failed outcome.
func Failure(err error) Outcome {
	return Outcome{Err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Client sends commands to the device.
type Client interface {
	// Execute performs one attempt of cmd and never blocks longer than the
	// client's timeout.
	Execute(ctx context.Context, cmd Command) Outcome

	// Name identifies the transport ("http", "ws", "mqtt").
	Name() string

	// Endpoint describes where commands go, for logs and display.
	Endpoint() string

	// Close releases any long-lived resources (broker sessions).
	Close() error
}

// clampTimeout applies the default and upper bound to a configured timeout.
func clampTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return min(d, MaxTimeout)
}
