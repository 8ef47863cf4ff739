package queue

import (
	"context"
	"sync"

	"github.com/emrgen/webmention/internal/mention"
)

var _ MentionQueue = (*Memory)(nil)

// Memory is a buffered in-process queue for single node setups and tests.
type Memory struct {
	mu     sync.RWMutex
	ch     chan *mention.Request
	closed bool
}

func NewMemory(size int) *Memory {
	return &Memory{ch: make(chan *mention.Request, size)}
}

func (m *Memory) Publish(ctx context.Context, req *mention.Request) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	select {
	case m.ch <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) Subscribe(ctx context.Context) (<-chan *mention.Request, error) {
	out := make(chan *mention.Request)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-m.ch:
				if !ok {
					return
				}
				select {
				case out <- req:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.ch)
	}
	return nil
}
