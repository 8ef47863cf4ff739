package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Webhook posts events to the callback url configured on the site.
type Webhook struct {
	client *http.Client
}

var _ Notifier = (*Webhook)(nil)

func NewWebhook(timeout time.Duration) *Webhook {
	return &Webhook{client: &http.Client{Timeout: timeout}}
}

type webhookPayload struct {
	Secret  string         `json:"secret"`
	Source  string         `json:"source"`
	Target  string         `json:"target"`
	Private bool           `json:"private"`
	Post    map[string]any `json:"post,omitempty"`
	Deleted bool           `json:"deleted,omitempty"`
}

func (w *Webhook) Verified(ctx context.Context, e Event) error {
	return w.send(ctx, e, webhookPayload{Post: e.Post})
}

func (w *Webhook) Deleted(ctx context.Context, e Event) error {
	return w.send(ctx, e, webhookPayload{Deleted: true})
}

func (w *Webhook) send(ctx context.Context, e Event, payload webhookPayload) error {
	if e.Site == nil || e.Site.CallbackURL == "" {
		return nil
	}

	payload.Secret = e.Site.CallbackSecret
	payload.Source = e.Source
	payload.Target = e.Target
	payload.Private = e.Private

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Site.CallbackURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook %s: status %d", e.Site.CallbackURL, resp.StatusCode)
	}

	logrus.Debugf("webhook delivered to %s for %s", e.Site.CallbackURL, e.Source)
	return nil
}
