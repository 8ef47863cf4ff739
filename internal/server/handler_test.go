package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/emrgen/webmention/internal/cache"
	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/queue"
	"github.com/emrgen/webmention/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*httptest.Server, *queue.Memory, cache.StatusCache) {
	kv, _ := tester.Redis(t)
	status := cache.NewRedisStatusCache(kv)
	q := queue.NewMemory(8)

	srv := httptest.NewServer(RequestTime(NewHandler(q, status).Routes()))
	t.Cleanup(srv.Close)

	return srv, q, status
}

func TestHandler_Receive(t *testing.T) {
	srv, q, status := newTestHandler(t)

	resp, err := http.PostForm(srv.URL+"/alice/webmention", url.Values{
		"source": {"https://bob.example/reply"},
		"target": {"https://alice.example/post/1"},
		"code":   {"secret"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body receiveResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, cache.StatusQueued, body.Status)
	assert.Equal(t, body.Location, resp.Header.Get("Location"))
	require.True(t, strings.HasPrefix(body.Location, "/alice/webmention/"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ch, err := q.Subscribe(ctx)
	require.NoError(t, err)

	var req *mention.Request
	select {
	case req = <-ch:
	case <-ctx.Done():
		t.Fatal("webmention was not queued")
	}
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "secret", req.Code)
	assert.Equal(t, strings.TrimPrefix(body.Location, "/alice/webmention/"), req.Token)

	queued, err := status.GetStatus(context.TODO(), req.Token)
	require.NoError(t, err)
	assert.Equal(t, cache.StatusQueued, queued.Status)
}

func TestHandler_ReceiveInvalid(t *testing.T) {
	srv, _, _ := newTestHandler(t)

	tests := []struct {
		name  string
		form  url.Values
		error string
	}{
		{name: "missing target", form: url.Values{"source": {"https://bob.example/"}}, error: "invalid_request"},
		{name: "bad source", form: url.Values{"source": {"mailto:bob@example"}, "target": {"https://alice.example/"}}, error: mention.CodeInvalidSource},
		{name: "bad target", form: url.Values{"source": {"https://bob.example/"}, "target": {"alice.example"}}, error: mention.CodeInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.PostForm(srv.URL+"/alice/webmention", tt.form)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.error, body.Error)
		})
	}
}

func TestHandler_Status(t *testing.T) {
	srv, _, status := newTestHandler(t)
	private := true
	require.NoError(t, status.SetStatus(context.TODO(), "tok", &cache.Status{
		Status:  mention.CodeSuccess,
		Source:  "https://bob.example/reply",
		Target:  "https://alice.example/post/1",
		Private: &private,
	}))

	resp, err := http.Get(srv.URL + "/alice/webmention/tok")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body cache.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mention.CodeSuccess, body.Status)
	assert.True(t, *body.Private)

	missing, err := http.Get(srv.URL + "/alice/webmention/unknown")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHandler_Metrics(t *testing.T) {
	srv, _, _ := newTestHandler(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
