// Package render turns a device state snapshot into drawing primitives.
//
// Draw is pure: it reads only its arguments, never locks or performs I/O,
// and equal inputs always yield equal frames. Coordinates address a
// CanvasWidth x CanvasHeight monochrome canvas with text positioned by its
// baseline.
package render

import (
	"slices"

	"github.com/muurk/ledpanel/internal/state"
)

const (
	CanvasWidth  = 128
	CanvasHeight = 64

	Title     = "ESP32 LED Control"
	AddrLabel = "ESP32 IP:"
	LEDLabel  = "LED State:"
	Hint      = "OK: Toggle  Back: Exit"

	indicatorX = 100
	indicatorY = 50
	indicatorR = 5
)

// Kind is the type of a drawing primitive.
type Kind int

const (
	KindText Kind = iota
	KindLine
	KindCircle
	KindDot
)

// Font selects a text face.
type Font int

const (
	FontPrimary Font = iota
	FontSecondary
)

// Primitive is one drawing operation. Which fields are meaningful depends on
// Kind: Text uses X, Y, Text, Font; Line uses X, Y, X2, Y2; Circle uses X, Y,
// R; Dot uses X, Y.
type Primitive struct {
	Kind Kind
	X, Y int
	X2   int
	Y2   int
	R    int
	Text string
	Font Font
}

// Frame is a full redraw, painted in order.
type Frame []Primitive

// Equal reports whether two frames contain the same primitives in the same order.
func (f Frame) Equal(other Frame) bool {
	return slices.Equal(f, other)
}

// Diff returns the indices at which a and b differ, including indices present
// in only one of them.
func Diff(a, b Frame) []int {
	var idx []int
	for i := 0; i < max(len(a), len(b)); i++ {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// Layout holds the per-installation inputs of a frame.
type Layout struct {
	// EndpointLabel is the fixed endpoint text shown under AddrLabel
	EndpointLabel string
}

func text(x, y int, s string, font Font) Primitive {
	return Primitive{Kind: KindText, X: x, Y: y, Text: s, Font: font}
}

// ConnectionText is the connection status line for connected.
func ConnectionText(connected bool) string {
	if connected {
		return "Status: Connected"
	}
	return "Status: Disconnected"
}

// Draw builds the frame for snap. The indicator dot is only present when the
// LED is on, and comes last so every other primitive keeps its index.
func Draw(snap state.Snapshot, layout Layout) Frame {
	frame := Frame{
		text(2, 10, Title, FontPrimary),
		{Kind: KindLine, X: 0, Y: 12, X2: CanvasWidth, Y2: 12},
		text(2, 24, AddrLabel, FontSecondary),
		text(2, 34, layout.EndpointLabel, FontSecondary),
		text(2, 46, ConnectionText(snap.Connected), FontSecondary),
		text(2, 58, LEDLabel, FontSecondary),
		text(70, 58, state.Label(snap.ActuatorOn), FontSecondary),
		{Kind: KindCircle, X: indicatorX, Y: indicatorY, R: indicatorR},
		text(2, 63, Hint, FontSecondary),
	}
	if snap.ActuatorOn {
		frame = append(frame, Primitive{Kind: KindDot, X: indicatorX, Y: indicatorY})
	}
	return frame
}
