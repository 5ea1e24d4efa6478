package state

import (
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	if snap.ActuatorOn {
		t.Error("ActuatorOn should start false")
	}
	if snap.Connected {
		t.Error("Connected should start false")
	}
	if snap.StatusText != InitialStatus {
		t.Errorf("StatusText = %q, want %q", snap.StatusText, InitialStatus)
	}
}

func TestApply(t *testing.T) {
	s := New()

	before, after := s.Apply(Mutation{
		ActuatorOn: Bool(true),
		Connected:  Bool(true),
		StatusText: Text("LED: ON"),
	})

	if before != (Snapshot{StatusText: InitialStatus}) {
		t.Errorf("before = %+v, want initial state", before)
	}
	want := Snapshot{ActuatorOn: true, Connected: true, StatusText: "LED: ON"}
	if after != want {
		t.Errorf("after = %+v, want %+v", after, want)
	}
	if got := s.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestApply_NilFieldsUntouched(t *testing.T) {
	s := New()
	s.Apply(Mutation{ActuatorOn: Bool(true), Connected: Bool(true)})

	_, after := s.Apply(Mutation{Connected: Bool(false)})

	if !after.ActuatorOn {
		t.Error("ActuatorOn changed by a mutation that did not set it")
	}
	if after.Connected {
		t.Error("Connected should be false")
	}
	if after.StatusText != InitialStatus {
		t.Errorf("StatusText = %q, want %q", after.StatusText, InitialStatus)
	}
}

func TestApply_EmptyStatusKeepsPrevious(t *testing.T) {
	s := New()
	_, after := s.Apply(Mutation{StatusText: Text("")})

	if after.StatusText != InitialStatus {
		t.Errorf("StatusText = %q, want %q (status must never be empty)", after.StatusText, InitialStatus)
	}
}

func TestSanitizeStatus(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "LED: ON", "LED: ON"},
		{"empty", "", ""},
		{"control chars", "a\x00b\nc", "a?b?c"},
		{"non-ascii", "caf\xc3\xa9", "caf??"},
		{"truncated", strings.Repeat("x", 80), strings.Repeat("x", MaxStatusLen)},
		{"exact limit", strings.Repeat("y", MaxStatusLen), strings.Repeat("y", MaxStatusLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeStatus(tt.in); got != tt.want {
				t.Errorf("SanitizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if Label(true) != "ON" {
		t.Errorf("Label(true) = %q, want ON", Label(true))
	}
	if Label(false) != "OFF" {
		t.Errorf("Label(false) = %q, want OFF", Label(false))
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(on bool) {
			defer wg.Done()
			s.Apply(Mutation{ActuatorOn: Bool(on), Connected: Bool(on), StatusText: Text("LED: " + Label(on))})
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			// Writers always set all three fields together
			if snap.StatusText != InitialStatus && snap.StatusText != "LED: "+Label(snap.ActuatorOn) {
				t.Errorf("torn snapshot: %+v", snap)
			}
		}()
	}

	wg.Wait()
}
