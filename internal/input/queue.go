package input

import (
	"sync"
	"sync/atomic"

	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/metrics"
)

// QueueCapacity is the default number of events buffered between producer and loop
const QueueCapacity = 8

// Queue is a bounded, non-blocking event queue. When full, Push drops the
// newest event and counts it; an accepted event is delivered exactly once.
type Queue struct {
	ch      chan Event
	dropped atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a queue holding up to capacity events (QueueCapacity when
// capacity is not positive).
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = QueueCapacity
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// Push enqueues ev without blocking. It reports whether ev was accepted.
func (q *Queue) Push(ev Event) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.ch <- ev:
		return true
	default:
		n := q.dropped.Add(1)
		metrics.IncInputDropped()
		logging.LogInputDropped(ev.Key.String(), ev.Phase.String(), n)
		return false
	}
}

// Events implements Source.
func (q *Queue) Events() <-chan Event {
	return q.ch
}

// Close stops the queue. Events already queued are still delivered, then the
// channel is closed. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}
