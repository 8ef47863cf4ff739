// Package queue carries accepted webmentions from the receiving endpoint to
// the workers that verify them.
package queue

import (
	"context"
	"errors"

	"github.com/emrgen/webmention/internal/mention"
)

// ErrClosed is returned when publishing to a closed queue.
var ErrClosed = errors.New("queue closed")

type MentionQueue interface {
	// Publish appends a webmention to the queue.
	Publish(ctx context.Context, req *mention.Request) error
	// Subscribe returns the stream of queued webmentions. The channel is
	// closed when ctx is done or the queue is closed.
	Subscribe(ctx context.Context) (<-chan *mention.Request, error)
	Close() error
}
