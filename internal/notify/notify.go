// Package notify delivers in-process events about resolved tracks.
package notify

import (
	"sync"

	"github.com/llehouerou/metaread/internal/tags"
)

// EventType names an event.
type EventType string

// TrackUpdated fires after a record changed in place, e.g. when its
// accurate duration became known.
const TrackUpdated EventType = "trackUpdated"

// Event is emitted to a Sink.
type Event struct {
	Type  EventType
	Track *tags.Track
}

// Sink receives events. Notify must not block for long; it may be called
// from worker goroutines.
type Sink interface {
	Notify(e Event)
}

// Func adapts a function to a Sink.
type Func func(e Event)

func (f Func) Notify(e Event) { f(e) }

// Queue is a Sink with an unbounded buffer. Notify never blocks and never
// drops; events come out of C in the order they were notified until
// Close is called.
type Queue struct {
	mu      sync.Mutex
	pending []Event
	wake    chan struct{}
	out     chan Event
	done    chan struct{}
	once    sync.Once
}

// NewQueue starts the goroutine feeding C.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// C delivers the queued events. It is closed after Close.
func (q *Queue) C() <-chan Event { return q.out }

func (q *Queue) Notify(e Event) {
	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Close stops delivery. Events not yet received are discarded.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

func (q *Queue) run() {
	defer close(q.out)
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.done:
				return
			}
		}
		e := q.pending[0]
		q.pending[0] = Event{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		select {
		case q.out <- e:
		case <-q.done:
			return
		}
	}
}

// Multi fans an event out to several sinks in order.
type Multi []Sink

func (m Multi) Notify(e Event) {
	for _, s := range m {
		if s != nil {
			s.Notify(e)
		}
	}
}

// Discard drops every event.
var Discard Sink = Func(func(Event) {})
