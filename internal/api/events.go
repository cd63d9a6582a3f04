package api

import (
	"sync"
	"time"
)

// Event describes one served request.
type Event struct {
	Time    time.Time
	Method  string
	Path    string
	Status  int
	Elapsed time.Duration
}

// EventSink consumes request events.
type EventSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel it owns. Events are dropped
// when the channel is full or the sink is closed, so a slow consumer or a
// handler outliving shutdown never stalls or panics a request.
type ChannelSink struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewChannelSink returns a sink buffering up to size events.
func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, size)}
}

// Events is the receiving side; it is closed by Close.
func (s *ChannelSink) Events() <-chan Event { return s.ch }

func (s *ChannelSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- evt:
	default:
	}
}

// Close closes the event channel. Later events are dropped.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
