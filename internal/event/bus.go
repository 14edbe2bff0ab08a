package event

import "sync"

// Bus is an unbounded FIFO channel of events with a single consumer.
// Publish never blocks, so reader goroutines draining child pipes can
// always make progress regardless of how fast the UI drains events.
// Events are delivered in publish order.
type Bus struct {
	mu     sync.Mutex
	queue  []Event
	wake   chan struct{}
	out    chan Event
	closed bool
	done   chan struct{}
}

// NewBus creates a bus and starts its delivery pump.
func NewBus() *Bus {
	b := &Bus{
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
		done: make(chan struct{}),
	}
	go b.pump()
	return b
}

// Publish enqueues an event. Publishing to a closed bus drops the event.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, e)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Events returns the consumer channel. The channel is closed after Close
// once all queued events have been delivered.
func (b *Bus) Events() <-chan Event {
	return b.out
}

// Close stops the bus. Queued events are still delivered to the consumer
// before its channel closes.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
}

func (b *Bus) pump() {
	defer close(b.out)

	for {
		b.mu.Lock()
		var next Event
		have := len(b.queue) > 0
		if have {
			next = b.queue[0]
			b.queue = b.queue[1:]
		}
		b.mu.Unlock()

		if have {
			b.out <- next
			continue
		}

		select {
		case <-b.wake:
		case <-b.done:
			// Drain whatever was queued before the close.
			b.mu.Lock()
			remaining := b.queue
			b.queue = nil
			b.mu.Unlock()
			for _, e := range remaining {
				b.out <- e
			}
			return
		}
	}
}
