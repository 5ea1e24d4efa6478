package render

import (
	"slices"
	"strings"
	"testing"

	"github.com/muurk/ledpanel/internal/state"
)

var testLayout = Layout{EndpointLabel: "192.168.0.187"}

func TestDraw_Deterministic(t *testing.T) {
	snaps := []state.Snapshot{
		{},
		{ActuatorOn: true},
		{Connected: true, StatusText: "LED: OFF"},
		{ActuatorOn: true, Connected: true, StatusText: "LED: ON"},
	}

	for _, s := range snaps {
		if !Draw(s, testLayout).Equal(Draw(s, testLayout)) {
			t.Errorf("Draw(%+v) is not deterministic", s)
		}
	}
}

func TestDraw_AlwaysPresent(t *testing.T) {
	frame := Draw(state.Snapshot{}, testLayout)

	var texts []string
	for _, p := range frame {
		if p.Kind == KindText {
			texts = append(texts, p.Text)
		}
	}

	for _, want := range []string{Title, AddrLabel, "192.168.0.187", "Status: Disconnected", LEDLabel, "OFF", Hint} {
		if !slices.Contains(texts, want) {
			t.Errorf("frame missing text %q", want)
		}
	}
	if frame[0].Font != FontPrimary {
		t.Errorf("title font = %v, want primary", frame[0].Font)
	}
}

func TestDraw_Indicator(t *testing.T) {
	countKind := func(f Frame, k Kind) int {
		n := 0
		for _, p := range f {
			if p.Kind == k {
				n++
			}
		}
		return n
	}

	off := Draw(state.Snapshot{}, testLayout)
	on := Draw(state.Snapshot{ActuatorOn: true}, testLayout)

	if countKind(off, KindCircle) != 1 || countKind(on, KindCircle) != 1 {
		t.Error("the indicator outline should always be drawn")
	}
	if countKind(off, KindDot) != 0 {
		t.Error("OFF frame should not fill the indicator")
	}
	if countKind(on, KindDot) != 1 {
		t.Error("ON frame should fill the indicator")
	}
}

func TestDraw_DiffLocality(t *testing.T) {
	base := state.Snapshot{ActuatorOn: false, Connected: false, StatusText: "Ready"}
	baseFrame := Draw(base, testLayout)

	tests := []struct {
		name string
		snap state.Snapshot
		want []int
	}{
		// connection line only
		{"connected", state.Snapshot{Connected: true, StatusText: "Ready"}, []int{4}},
		// LED value plus the appended dot
		{"actuator", state.Snapshot{ActuatorOn: true, StatusText: "Ready"}, []int{6, 9}},
		// status text is not part of the frame
		{"status text", state.Snapshot{StatusText: "Connection failed"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(baseFrame, Draw(tt.snap, testLayout))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Diff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	a := Frame{text(0, 0, "a", FontPrimary), text(0, 1, "b", FontPrimary)}
	b := Frame{text(0, 0, "a", FontPrimary), text(0, 1, "c", FontPrimary), text(0, 2, "d", FontPrimary)}

	if got := Diff(a, b); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Diff() = %v, want [1 2]", got)
	}
	if got := Diff(a, a); got != nil {
		t.Errorf("Diff(a, a) = %v, want nil", got)
	}
}

func TestRasterize(t *testing.T) {
	lines := Rasterize(Draw(state.Snapshot{ActuatorOn: true, Connected: true}, testLayout), 64, 16)

	if len(lines) != 16 {
		t.Fatalf("Rasterize() returned %d lines, want 16", len(lines))
	}
	if !strings.Contains(lines[2], Title) {
		t.Errorf("line 2 = %q, want title", lines[2])
	}
	if strings.Trim(lines[3], "─") != "" {
		t.Errorf("line 3 = %q, want a full separator", lines[3])
	}
	if !strings.Contains(lines[11], "Status: Connected") {
		t.Errorf("line 11 = %q, want connection status", lines[11])
	}
	if !strings.Contains(lines[12], "●") {
		t.Errorf("line 12 = %q, want filled indicator", lines[12])
	}
	if !strings.Contains(lines[14], "ON") {
		t.Errorf("line 14 = %q, want LED state", lines[14])
	}
	if !strings.Contains(lines[15], Hint) {
		t.Errorf("line 15 = %q, want hint", lines[15])
	}
}

func TestRasterize_Unfilled(t *testing.T) {
	lines := Rasterize(Draw(state.Snapshot{}, testLayout), 64, 16)
	if !strings.Contains(lines[12], "○") || strings.Contains(lines[12], "●") {
		t.Errorf("line 12 = %q, want hollow indicator", lines[12])
	}
}

func TestRasterize_Clips(t *testing.T) {
	frame := Frame{text(120, 200, "overflowing text", FontSecondary)}
	lines := Rasterize(frame, 10, 4)

	if len(lines) != 4 {
		t.Fatalf("Rasterize() returned %d lines, want 4", len(lines))
	}
	if got := []rune(lines[3]); len(got) > 10 {
		t.Errorf("line 3 has %d cells, want at most 10", len(got))
	}
	if Rasterize(frame, 0, 4) != nil {
		t.Error("Rasterize() with zero width should return nil")
	}
}
