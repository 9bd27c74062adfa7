package mq

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrBrokerClosed is returned by a MemoryBroker after Close.
var ErrBrokerClosed = errors.New("broker closed")

// MemoryBroker is an in-process Backend for single-node runs and tests.
// Each subscriber owns a buffered queue; Publish blocks while a queue is
// full.
type MemoryBroker struct {
	mu     sync.Mutex
	closed bool
	buffer int
	subs   map[string][]chan Message
	done   chan struct{}
}

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryBroker{
		buffer: buffer,
		subs:   make(map[string][]chan Message),
		done:   make(chan struct{}),
	}
}

// Publish delivers to the subscribers present at call time. With no
// subscriber the message is dropped.
func (b *MemoryBroker) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return "", ErrBrokerClosed
	}
	queues := append([]chan Message(nil), b.subs[channel]...)
	b.mu.Unlock()

	msg := Message{ID: uuid.NewString(), Data: data, Attributes: attrs}
	for _, q := range queues {
		select {
		case q <- msg:
		case <-ctx.Done():
			return "", ctx.Err()
		case <-b.done:
			return "", ErrBrokerClosed
		}
	}
	return msg.ID, nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, channel string, handler Handler) error {
	q := make(chan Message, b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	b.subs[channel] = append(b.subs[channel], q)
	b.mu.Unlock()

	defer b.unsubscribe(channel, q)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return ErrBrokerClosed
		case msg := <-q:
			// No redelivery in memory: a failed message is dropped.
			_ = handler(ctx, msg)
		}
	}
}

func (b *MemoryBroker) unsubscribe(channel string, q chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	queues := b.subs[channel]
	for i, candidate := range queues {
		if candidate == q {
			b.subs[channel] = append(queues[:i], queues[i+1:]...)
			break
		}
	}
}

// Subscribers reports how many subscribers listen on channel.
func (b *MemoryBroker) Subscribers(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[channel])
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.done)
	}
	return nil
}
