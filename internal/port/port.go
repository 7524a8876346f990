// Package port implements typed outbound notification streams.
//
// A Port delivers every message sent after a subscriber exists to each
// subscriber, in send order, on a single dispatch goroutine. Messages sent
// with no subscribers are dropped.
package port

import (
	"sync"
)

// DefaultQueueSize is the number of undelivered messages a port buffers
// before Send blocks.
const DefaultQueueSize = 64

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Port is a named outbound message stream.
type Port[T any] struct {
	name string

	mu     sync.Mutex
	subs   []subscriber[T]
	nextID int

	sendMu sync.RWMutex
	closed bool
	queue  chan T
	done   chan struct{}
}

// New creates a port and starts its dispatcher.
func New[T any](name string) *Port[T] {
	return NewWithQueue[T](name, DefaultQueueSize)
}

// NewWithQueue creates a port with a custom queue size.
func NewWithQueue[T any](name string, size int) *Port[T] {
	if size < 0 {
		size = 0
	}
	p := &Port[T]{
		name:  name,
		queue: make(chan T, size),
		done:  make(chan struct{}),
	}
	go p.dispatch()
	return p
}

// Name returns the port name.
func (p *Port[T]) Name() string {
	return p.name
}

// Subscribe registers fn and returns a function that removes it.
func (p *Port[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	// Copy on write so dispatch can iterate without holding the lock.
	subs := make([]subscriber[T], len(p.subs), len(p.subs)+1)
	copy(subs, p.subs)
	p.subs = append(subs, subscriber[T]{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { p.remove(id) })
	}
}

func (p *Port[T]) remove(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := make([]subscriber[T], 0, len(p.subs))
	for _, s := range p.subs {
		if s.id != id {
			subs = append(subs, s)
		}
	}
	p.subs = subs
}

// Subscribers returns the number of registered callbacks.
func (p *Port[T]) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Send queues msg for delivery. It reports whether the message was accepted;
// messages are rejected when the port is closed or has no subscribers.
func (p *Port[T]) Send(msg T) bool {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	if p.closed || p.Subscribers() == 0 {
		return false
	}
	p.queue <- msg
	return true
}

// Close stops the port after queued messages are delivered. It must not be
// called from a subscriber callback.
func (p *Port[T]) Close() {
	p.sendMu.Lock()
	if p.closed {
		p.sendMu.Unlock()
		<-p.done
		return
	}
	p.closed = true
	close(p.queue)
	p.sendMu.Unlock()

	<-p.done
}

func (p *Port[T]) dispatch() {
	defer close(p.done)

	for msg := range p.queue {
		p.mu.Lock()
		subs := p.subs
		p.mu.Unlock()

		for _, s := range subs {
			s.fn(msg)
		}
	}
}
