package live

import "sync"

// DefaultBuffer is the subscriber queue size used when none is given.
const DefaultBuffer = 64

// Subscriber receives board events through a buffered channel.
// Send never blocks: when the buffer is full the oldest event is dropped.
type Subscriber struct {
	id       string
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscriber(id string, buffer int) *Subscriber {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Subscriber{
		id:     id,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Send queues an event, dropping the oldest one if the buffer is full.
func (s *Subscriber) Send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel to read events from.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Done closes when the subscriber is closed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Close marks the subscriber as finished. Safe to call multiple times.
func (s *Subscriber) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// IsClosed reports whether Close has been called.
func (s *Subscriber) IsClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
