package input

import (
	"sync"
	"time"
)

// DefaultDebounce is the stability window applied to GPIO buttons
const DefaultDebounce = 30 * time.Millisecond

// pressedFromEdge maps an edge to the button state. Buttons wired against a
// pull-up are active low.
func pressedFromEdge(rising, activeLow bool) bool {
	if activeLow {
		return !rising
	}
	return rising
}

// debouncer filters contact bounce. The first change after a stable window is
// reported at once; edges inside the window only update the raw level, and
// when the window closes the stable state is resynced to that level.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	stable  bool
	raw     bool
	last    time.Time
	pending bool

	emit  func(pressed bool)
	now   func() time.Time
	after func(time.Duration, func())
}

func newDebouncer(window time.Duration, emit func(pressed bool)) *debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &debouncer{
		window: window,
		emit:   emit,
		now:    time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// observe records the raw level seen at now.
func (d *debouncer) observe(pressed bool, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.raw = pressed
	if d.pending || pressed == d.stable {
		return
	}
	if now.Sub(d.last) < d.window {
		return
	}
	d.accept(now)
}

// accept makes the raw level stable, reports it and arms the resync.
// Caller holds mu.
func (d *debouncer) accept(now time.Time) {
	d.stable = d.raw
	d.last = now
	d.pending = true
	d.emit(d.stable)
	d.after(d.window, d.resync)
}

// resync runs when a window closes.
func (d *debouncer) resync() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = false
	if d.raw != d.stable {
		d.accept(d.now())
	}
}

// button turns debounced edges of one line into queue events.
type button struct {
	key       Key
	activeLow bool
	debounce  *debouncer
	queue     *Queue
}

func newButton(key Key, activeLow bool, window time.Duration, q *Queue) *button {
	b := &button{key: key, activeLow: activeLow, queue: q}
	b.debounce = newDebouncer(window, b.emit)
	return b
}

// edge handles one edge observed at now.
func (b *button) edge(rising bool, now time.Time) {
	b.debounce.observe(pressedFromEdge(rising, b.activeLow), now)
}

func (b *button) emit(pressed bool) {
	phase := PhaseRelease
	if pressed {
		phase = PhasePress
	}
	b.queue.Push(Event{Key: b.key, Phase: phase})
}
