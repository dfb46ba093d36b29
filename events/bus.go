package events

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Common errors returned by the Bus.
var (
	ErrBusNotRunning      = errors.New("event bus is not running")
	ErrSubscriberExists   = errors.New("subscriber already exists")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

// DefaultBufferSize is the per-subscriber channel buffer.
const DefaultBufferSize = 64

// Bus is a thread-safe in-memory pub/sub bus. Publishing never blocks the
// simulator: events for a subscriber whose buffer is full are dropped.
type Bus struct {
	subscribers map[string]chan Event
	bufferSize  int
	dropped     atomic.Uint64
	running     atomic.Bool
	mu          sync.RWMutex
}

// NewBus creates a bus with the default buffer size.
func NewBus() *Bus {
	return NewBusWithBuffer(DefaultBufferSize)
}

// NewBusWithBuffer creates a bus with the given per-subscriber buffer size.
func NewBusWithBuffer(size int) *Bus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Bus{
		subscribers: make(map[string]chan Event),
		bufferSize:  size,
	}
}

// Start starts the bus. Publishing before Start is a silent no-op.
func (b *Bus) Start() {
	b.running.Store(true)
}

// Stop stops the bus and closes all subscriber channels.
func (b *Bus) Stop() {
	if !b.running.Swap(false) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, name)
	}
}

// IsRunning returns true if the bus is running.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Subscribe registers a named subscriber and returns its event channel.
func (b *Bus) Subscribe(name string) (<-chan Event, error) {
	if !b.running.Load() {
		return nil, ErrBusNotRunning
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[name]; exists {
		return nil, ErrSubscriberExists
	}
	ch := make(chan Event, b.bufferSize)
	b.subscribers[name] = ch
	return ch, nil
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, exists := b.subscribers[name]
	if !exists {
		return ErrSubscriberNotFound
	}
	close(ch)
	delete(b.subscribers, name)
	return nil
}

// Publish delivers an event to all subscribers. Events are stamped with the
// publish time if unset. Slow subscribers lose events rather than stalling
// the publisher.
func (b *Bus) Publish(ev Event) {
	if !b.running.Load() {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns the number of events dropped due to full buffers.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
