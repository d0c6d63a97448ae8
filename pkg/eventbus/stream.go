// Package eventbus provides the event transports for run lifecycle events: an
// in-process per-run stream and a Watermill-backed platform bus for
// cross-process fan-out.
package eventbus

import (
	"sync"

	"github.com/voltway/weaver/pkg/events"
)

const defaultSubscriberBuffer = 256

// Stream is the single-producer, multi-subscriber event channel for one run.
// The executor driving the run is the only publisher. Published events are
// retained until Close so a subscriber attaching after the run started still
// observes every event in order; per-run event counts are bounded by the node
// count, so retention is cheap. A subscriber that falls behind has events
// dropped rather than stalling the scheduler, and the drop count is
// inspectable afterwards.
type Stream struct {
	mu      sync.Mutex
	subs    []chan events.Event
	history []events.Event
	buffer  int
	dropped map[int]int64
	closed  bool
}

// NewStream creates a stream with the default per-subscriber buffer.
func NewStream() *Stream {
	return NewBufferedStream(defaultSubscriberBuffer)
}

// NewBufferedStream creates a stream with an explicit per-subscriber buffer.
func NewBufferedStream(buffer int) *Stream {
	if buffer <= 0 {
		buffer = 1
	}

	return &Stream{
		buffer:  buffer,
		dropped: make(map[int]int64),
	}
}

// Subscribe registers a new consumer. Events published before the
// subscription are replayed first, so no subscriber misses the start of the
// run. The returned channel is closed when the stream closes, which happens
// after the final WORKFLOW_END event; subscribing to a closed stream yields
// the full history and an immediately closed channel.
func (s *Stream) Subscribe() <-chan events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan events.Event, len(s.history)+s.buffer)
	for _, ev := range s.history {
		ch <- ev
	}

	if s.closed {
		close(ch)

		return ch
	}

	s.subs = append(s.subs, ch)

	return ch
}

// Publish delivers an event to every subscriber without blocking. Events to a
// full subscriber channel are dropped.
func (s *Stream) Publish(ev events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.history = append(s.history, ev)

	for i, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.dropped[i]++
		}
	}
}

// Close closes all subscriber channels. Publish after Close is a no-op.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
}

// Dropped returns the total number of events dropped across all subscribers.
func (s *Stream) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, n := range s.dropped {
		total += n
	}

	return total
}
