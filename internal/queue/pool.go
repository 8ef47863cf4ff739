package queue

import (
	"context"
	"sync"

	"github.com/emrgen/webmention/internal/mention"
	"github.com/sirupsen/logrus"
)

// Handler processes one webmention.
type Handler func(ctx context.Context, req *mention.Request)

// Pool runs a fixed number of workers over a queue subscription.
type Pool struct {
	queue   MentionQueue
	handler Handler
	workers int
	wg      sync.WaitGroup
}

func NewPool(queue MentionQueue, workers int, handler Handler) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{queue: queue, handler: handler, workers: workers}
}

// Start subscribes and starts the workers. They stop when ctx is done or
// the subscription ends.
func (p *Pool) Start(ctx context.Context) error {
	requests, err := p.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	logrus.Infof("starting %d webmention workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for req := range requests {
				p.handle(ctx, id, req)
			}
		}(i)
	}

	return nil
}

func (p *Pool) handle(ctx context.Context, id int, req *mention.Request) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("worker %d: webmention %s panicked: %v", id, req.Token, r)
		}
	}()

	p.handler(ctx, req)
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Drain closes the queue and waits until the workers have handled every
// webmention it still delivers.
func (p *Pool) Drain() error {
	err := p.queue.Close()
	p.wg.Wait()
	return err
}
