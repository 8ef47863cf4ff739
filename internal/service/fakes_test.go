package service

import (
	"context"
	"sync"

	"github.com/emrgen/webmention/internal/notify"
	"github.com/emrgen/webmention/internal/xray"
)

type resolved struct {
	data xray.PostData
	err  error
}

type fakeResolver struct {
	mu    sync.Mutex
	urls  map[string]resolved
	calls []xray.ParseRequest
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{urls: map[string]resolved{}}
}

func (f *fakeResolver) set(url string, data xray.PostData, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls[url] = resolved{data: data, err: err}
}

func (f *fakeResolver) Parse(_ context.Context, req xray.ParseRequest) (xray.PostData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	r := f.urls[req.URL]
	if r.data != nil {
		return r.data.Clone(), r.err
	}
	return nil, r.err
}

func (f *fakeResolver) callsFor(url string) []xray.ParseRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var calls []xray.ParseRequest
	for _, c := range f.calls {
		if c.URL == url {
			calls = append(calls, c)
		}
	}
	return calls
}

type fakeTokens struct {
	token string
	err   error
	codes []string
}

func (f *fakeTokens) AccessToken(_ context.Context, _, code string) (string, error) {
	f.codes = append(f.codes, code)
	return f.token, f.err
}

type fakeNotifier struct {
	mu       sync.Mutex
	verified []notify.Event
	deleted  []notify.Event
	err      error
	panics   bool
}

func (f *fakeNotifier) Verified(_ context.Context, e notify.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	f.verified = append(f.verified, e)
	return f.err
}

func (f *fakeNotifier) Deleted(_ context.Context, e notify.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, e)
	return f.err
}
