package input

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_Capacity(t *testing.T) {
	q := NewQueue(0)
	if q.Cap() != QueueCapacity {
		t.Errorf("Cap() = %d, want %d", q.Cap(), QueueCapacity)
	}
}

func TestQueue_DropsNewestWhenFull(t *testing.T) {
	q := NewQueue(2)

	if !q.Push(Press(KeyUp)) || !q.Push(Press(KeyDown)) {
		t.Fatal("Push() should accept events while there is room")
	}
	if q.Push(Press(KeyConfirm)) {
		t.Error("Push() should reject when full")
	}
	if q.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", q.Dropped())
	}

	// The oldest events survive, in order
	if ev := <-q.Events(); ev.Key != KeyUp {
		t.Errorf("first event = %v, want up", ev)
	}
	if ev := <-q.Events(); ev.Key != KeyDown {
		t.Errorf("second event = %v, want down", ev)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueue_NoDuplication(t *testing.T) {
	q := NewQueue(QueueCapacity)
	const producers, perProducer = 4, 50

	received := map[Event]int{}
	done := make(chan struct{})
	go func() {
		for ev := range q.Events() {
			received[ev]++
		}
		close(done)
	}()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				// Phase doubles as a sequence number so every event is distinct
				q.Push(Event{Key: Key(p), Phase: Phase(i)})
			}
		}(p)
	}

	wg.Wait()
	q.Close()
	<-done

	total := 0
	for ev, n := range received {
		if n != 1 {
			t.Errorf("event %v delivered %d times", ev, n)
		}
		total += n
	}
	if uint64(total)+q.Dropped() != producers*perProducer {
		t.Errorf("received %d + dropped %d != pushed %d", total, q.Dropped(), producers*perProducer)
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue(4)
	q.Push(Press(KeyBack))
	q.Close()
	q.Close()

	if q.Push(Press(KeyConfirm)) {
		t.Error("Push() after Close() should be rejected")
	}

	ev, ok := <-q.Events()
	if !ok || ev != Press(KeyBack) {
		t.Errorf("queued event lost on Close(): %v, %v", ev, ok)
	}
	if _, ok := <-q.Events(); ok {
		t.Error("Events() should be closed after draining")
	}
}

func TestKeyAndPhaseStrings(t *testing.T) {
	if got := Press(KeyConfirm).String(); got != "confirm/press" {
		t.Errorf("String() = %s, want confirm/press", got)
	}
	if got := (Event{Key: KeyBack, Phase: PhaseLong}).String(); got != "back/long" {
		t.Errorf("String() = %s, want back/long", got)
	}
	if got := Key(99).String(); got != "Key(99)" {
		t.Errorf("String() = %s, want Key(99)", got)
	}
}

func TestPressedFromEdge(t *testing.T) {
	tests := []struct {
		rising, activeLow, want bool
	}{
		{true, false, true},
		{false, false, false},
		{true, true, false},
		{false, true, true},
	}
	for _, tt := range tests {
		if got := pressedFromEdge(tt.rising, tt.activeLow); got != tt.want {
			t.Errorf("pressedFromEdge(%v, %v) = %v, want %v", tt.rising, tt.activeLow, got, tt.want)
		}
	}
}

// manualButton returns an active-low Confirm button whose debounce windows
// close only when closeWindows is called.
func manualButton(q *Queue) (b *button, closeWindows func(at time.Time)) {
	b = newButton(KeyConfirm, true, 30*time.Millisecond, q)

	var pending []func()
	var clock time.Time
	b.debounce.now = func() time.Time { return clock }
	b.debounce.after = func(_ time.Duration, f func()) { pending = append(pending, f) }

	closeWindows = func(at time.Time) {
		clock = at
		fs := pending
		pending = nil
		for _, f := range fs {
			f()
		}
	}
	return b, closeWindows
}

func drain(t *testing.T, q *Queue, want []Event) {
	t.Helper()
	if q.Len() != len(want) {
		t.Fatalf("queued %d events, want %d", q.Len(), len(want))
	}
	for i, w := range want {
		if got := <-q.Events(); got != w {
			t.Errorf("event %d = %v, want %v", i, got, w)
		}
	}
}

func TestButton_Debounce(t *testing.T) {
	q := NewQueue(QueueCapacity)
	b, closeWindows := manualButton(q)

	t0 := time.Unix(1000, 0)
	b.edge(false, t0)                         // press
	b.edge(true, t0.Add(2*time.Millisecond))  // bounce
	b.edge(false, t0.Add(4*time.Millisecond)) // bounce, settles pressed
	closeWindows(t0.Add(30 * time.Millisecond))
	b.edge(true, t0.Add(50*time.Millisecond)) // release
	closeWindows(t0.Add(80 * time.Millisecond))
	b.edge(false, t0.Add(100*time.Millisecond)) // press again

	drain(t, q, []Event{
		{Key: KeyConfirm, Phase: PhasePress},
		{Key: KeyConfirm, Phase: PhaseRelease},
		{Key: KeyConfirm, Phase: PhasePress},
	})
}

func TestButton_ShortTapThenPress(t *testing.T) {
	q := NewQueue(QueueCapacity)
	b, closeWindows := manualButton(q)

	t0 := time.Unix(1000, 0)
	b.edge(false, t0)                           // press
	b.edge(true, t0.Add(20*time.Millisecond))   // release inside the window
	closeWindows(t0.Add(30 * time.Millisecond)) // resyncs to released
	closeWindows(t0.Add(60 * time.Millisecond))
	b.edge(false, t0.Add(500*time.Millisecond)) // second press
	closeWindows(t0.Add(530 * time.Millisecond))
	b.edge(true, t0.Add(700*time.Millisecond))

	drain(t, q, []Event{
		{Key: KeyConfirm, Phase: PhasePress},
		{Key: KeyConfirm, Phase: PhaseRelease},
		{Key: KeyConfirm, Phase: PhasePress},
		{Key: KeyConfirm, Phase: PhaseRelease},
	})
}

func TestButton_ResyncTimer(t *testing.T) {
	q := NewQueue(QueueCapacity)
	b := newButton(KeyConfirm, true, 10*time.Millisecond, q)

	now := time.Now()
	b.edge(false, now)
	b.edge(true, now.Add(time.Millisecond))

	deadline := time.After(time.Second)
	for q.Len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("queued %d events, want the release after the window", q.Len())
		case <-time.After(5 * time.Millisecond):
		}
	}

	drain(t, q, []Event{
		{Key: KeyConfirm, Phase: PhasePress},
		{Key: KeyConfirm, Phase: PhaseRelease},
	})
}
