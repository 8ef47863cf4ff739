package mf2

import (
	"testing"
	"time"

	"github.com/emrgen/webmention/internal/avatar"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/xray"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAuthor(t *testing.T) {
	data := xray.PostData{
		"author": map[string]any{
			"type":  "card",
			"name":  "Bob",
			"url":   "https://bob.example/",
			"photo": "https://bob.example/me.jpg",
		},
	}

	link := &model.Link{AuthorName: "stale"}
	ApplyAuthor(data, link, &model.Site{}, avatar.NewRewriter("https://avatars.example"))
	assert.Equal(t, "Bob", link.AuthorName)
	assert.Equal(t, "https://bob.example/", link.AuthorURL)
	assert.Equal(t, "https://bob.example/me.jpg", link.AuthorPhoto)

	ApplyAuthor(data, link, &model.Site{ArchiveAvatars: true}, avatar.NewRewriter("https://avatars.example"))
	assert.Contains(t, link.AuthorPhoto, "https://avatars.example/bob.example/")

	invite := &model.Link{}
	ApplyAuthor(xray.PostData{"invitee": []any{"https://carol.example/"}}, invite, nil, nil)
	assert.Equal(t, "https://carol.example/", invite.AuthorURL)
	assert.Empty(t, invite.AuthorName)

	notCard := &model.Link{}
	ApplyAuthor(xray.PostData{"author": map[string]any{"type": "entry", "name": "x"}}, notCard, nil, nil)
	assert.False(t, notCard.HasAuthorInfo())
}

func TestApplyContent(t *testing.T) {
	data := xray.PostData{
		"url":         "/reply",
		"name":        "Re: post",
		"summary":     "short",
		"content":     map[string]any{"html": "<p>hi</p>", "text": "hi"},
		"photo":       []any{"https://bob.example/p.jpg"},
		"published":   "2024-03-01T10:00:00+02:00",
		"syndication": []any{"https://social.example/@bob/1"},
		"swarm-coins": float64(5),
		"rels":        map[string]any{"canonical": "https://bob.example/canonical"},
	}

	link := &model.Link{Href: "https://bob.example/posts/reply"}
	require.NoError(t, ApplyContent(data, link))

	assert.Equal(t, "https://bob.example/reply", link.URL)
	assert.Equal(t, "Re: post", link.Name)
	assert.Equal(t, "short", link.Summary)
	assert.Equal(t, "<p>hi</p>", link.Content)
	assert.Equal(t, "hi", link.ContentText)
	assert.JSONEq(t, `["https://bob.example/p.jpg"]`, string(link.Photo))
	assert.Nil(t, link.Video)
	assert.Equal(t, []string{"https://social.example/@bob/1"}, link.Syndications())
	require.NotNil(t, link.SwarmCoins)
	assert.Equal(t, 5, *link.SwarmCoins)
	assert.Equal(t, "https://bob.example/canonical", link.RelCanonical)

	require.NotNil(t, link.Published)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), *link.Published)
	require.NotNil(t, link.PublishedOffset)
	assert.Equal(t, 7200, *link.PublishedOffset)
	assert.Equal(t, link.Published.Unix(), *link.PublishedTs)
	assert.Equal(t, "2024-03-01T10:00:00+02:00", link.PublishedDate().Format(time.RFC3339))
}

func TestApplyContent_DegradesOnBadFields(t *testing.T) {
	data := xray.PostData{
		"name":        "still saved",
		"published":   "2024-13-45",
		"swarm-coins": "many",
	}

	link := &model.Link{Href: "https://bob.example/x"}
	err := ApplyContent(data, link)
	require.Error(t, err)
	assert.Equal(t, "still saved", link.Name)
	assert.Nil(t, link.Published)
	assert.Nil(t, link.SwarmCoins)
}

func TestParsePublished(t *testing.T) {
	tests := []struct {
		in         string
		wantUTC    time.Time
		wantOffset *int
	}{
		{in: "2024-03-01T10:00:00Z", wantUTC: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-03-01T10:00:00", wantUTC: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-03-01", wantUTC: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-03-01 10:00:00-0500", wantUTC: time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), wantOffset: ptr(-18000)},
		{in: "2024-01-15 10:30-0700", wantUTC: time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC), wantOffset: ptr(-25200)},
		{in: "2024-01-15 10:30-07:00", wantUTC: time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC), wantOffset: ptr(-25200)},
		{in: "2024-01-15T10:30:00 -0700", wantUTC: time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC), wantOffset: ptr(-25200)},
		{in: "2024-01-15T10:30:00+01", wantUTC: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), wantOffset: ptr(3600)},
		{in: "January 15, 2024 10:30am", wantUTC: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{in: "3/1/2024", wantUTC: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, offset, err := ParsePublished(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.wantUTC.Equal(got))
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParsePublished_Unrecognized(t *testing.T) {
	_, _, err := ParsePublished("2024-13-45 99:99")
	assert.ErrorContains(t, err, "unrecognized date")
}

func ptr(v int) *int {
	return &v
}
