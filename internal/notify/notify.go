// Package notify fans webmention results out to webhooks, kafka and the
// account's archival sink.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/webmention/internal/model"
)

// Event describes a verified or deleted link.
type Event struct {
	Site    *model.Site
	Link    *model.Link // nil on deletion
	Source  string
	Target  string
	Private bool
	Post    map[string]any // jf2 projection of Link
}

type Notifier interface {
	// Verified is called after a link was created or updated.
	Verified(ctx context.Context, e Event) error
	// Deleted is called after a link was retracted.
	Deleted(ctx context.Context, e Event) error
}

// Multi delivers every event to all notifiers and joins their errors.
type Multi []Notifier

var _ Notifier = Multi(nil)

func (m Multi) Verified(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Verified(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Deleted(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Deleted(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Verified(context.Context, Event) error { return nil }
func (Nop) Deleted(context.Context, Event) error  { return nil }
