package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_RelationProperty(t *testing.T) {
	tests := []struct {
		typ      string
		property string
		rsvp     string
	}{
		{typ: "reply", property: "in-reply-to"},
		{typ: "like", property: "like-of"},
		{typ: "repost", property: "repost-of"},
		{typ: "bookmark", property: "bookmark-of"},
		{typ: "invite", property: "invitee"},
		{typ: "rsvp-maybe", property: "rsvp", rsvp: "maybe"},
		{typ: "link", property: "mention-of"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			link := &Link{Type: tt.typ}
			assert.Equal(t, tt.property, link.RelationProperty())
			assert.Equal(t, tt.rsvp, link.RSVP())
		})
	}
}

func TestLink_PublishedDate(t *testing.T) {
	assert.Nil(t, (&Link{}).PublishedDate())

	published := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	offset := -5 * 3600
	link := &Link{Published: &published, PublishedOffset: &offset}

	date := link.PublishedDate()
	require.NotNil(t, date)
	assert.Equal(t, 5, date.Hour())
	_, got := date.Zone()
	assert.Equal(t, offset, got)
	assert.True(t, date.Equal(published))

	link.PublishedOffset = nil
	_, got = link.PublishedDate().Zone()
	assert.Zero(t, got)
}

func TestLink_AbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://bob.example/reply", (&Link{Href: "https://bob.example/reply"}).AbsoluteURL())
	assert.Equal(t, "https://bob.example/notes/2", (&Link{Href: "https://bob.example/reply", URL: "/notes/2"}).AbsoluteURL())
	assert.Equal(t, "https://silo.example/1", (&Link{Href: "https://bob.example/reply", URL: "https://silo.example/1"}).AbsoluteURL())
}

func TestLink_Author(t *testing.T) {
	link := &Link{}
	assert.False(t, link.HasAuthorInfo())
	assert.Nil(t, link.Syndications())

	link.AuthorURL = "https://bob.example/"
	link.Syndication = []string{"https://silo.example/1"}
	assert.True(t, link.HasAuthorInfo())
	assert.Equal(t, []string{"https://silo.example/1"}, link.Syndications())
	assert.Equal(t, link.Href, link.Source())
}
