package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/xray"
)

// Archive forwards verified posts to the account's archival sink (an
// Aperture style micropub channel).
type Archive struct {
	client *http.Client
	now    func() time.Time
}

func NewArchive(timeout time.Duration) *Archive {
	return &Archive{client: &http.Client{Timeout: timeout}, now: time.Now}
}

// Enabled reports whether account has a sink configured.
func (a *Archive) Enabled(account *model.Account) bool {
	return account != nil && account.ApertureURI != ""
}

// Send posts data as jf2, filling url, published and in-reply-to when the
// parser left them empty.
func (a *Archive) Send(ctx context.Context, account *model.Account, data xray.PostData, source, target string) error {
	if !a.Enabled(account) {
		return nil
	}

	post := data.Clone()
	if post.String("url") == "" {
		post["url"] = source
	}
	if post.String("published") == "" {
		post["published"] = a.now().Format(time.RFC3339)
	}
	if len(post.Strings("in-reply-to")) == 0 {
		post["in-reply-to"] = []string{target}
	}

	body, err := json.Marshal(post)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, account.ApertureURI, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+account.ApertureToken)
	req.Header.Set("Content-Type", "application/jf2+json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("archive %s: status %d", account.ApertureURI, resp.StatusCode)
	}
	return nil
}
