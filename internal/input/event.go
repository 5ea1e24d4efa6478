// Package input carries key events from an asynchronous producer (terminal
// keyboard or GPIO push buttons) to the event loop through a bounded queue.
package input

import "fmt"

// Key identifies a panel button.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyConfirm
	KeyBack
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyConfirm:
		return "confirm"
	case KeyBack:
		return "back"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// Phase is the stage of a key interaction. Only Press is acted upon; the
// others exist because input drivers report them.
type Phase int

const (
	PhasePress Phase = iota
	PhaseRelease
	PhaseShort
	PhaseLong
	PhaseRepeat
)

func (p Phase) String() string {
	switch p {
	case PhasePress:
		return "press"
	case PhaseRelease:
		return "release"
	case PhaseShort:
		return "short"
	case PhaseLong:
		return "long"
	case PhaseRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Event is one raw key event.
type Event struct {
	Key   Key
	Phase Phase
}

// Press is shorthand for a press event of k.
func Press(k Key) Event {
	return Event{Key: k, Phase: PhasePress}
}

func (e Event) String() string {
	return e.Key.String() + "/" + e.Phase.String()
}

// Source produces input events. The channel is closed when the producer stops.
type Source interface {
	Events() <-chan Event
}
