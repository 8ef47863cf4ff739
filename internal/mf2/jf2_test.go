package mf2

import (
	"testing"

	"github.com/emrgen/webmention/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildJF2(t *testing.T) {
	link := &model.Link{
		ID:          7,
		Href:        "https://bob.example/reply",
		Type:        "reply",
		IsDirect:    true,
		AuthorName:  "Bob",
		ContentText: "hi",
		Protocol:    "webmention",
		Photo:       []byte(`["https://bob.example/p.jpg"]`),
	}

	entry := BuildJF2(link, target)
	assert.Equal(t, "entry", entry["type"])
	assert.Equal(t, "in-reply-to", entry["wm-property"])
	assert.Equal(t, target, entry["in-reply-to"])
	assert.Equal(t, "https://bob.example/reply", entry["url"])
	assert.Equal(t, map[string]any{"text": "hi"}, entry["content"])
	assert.Equal(t, []any{"https://bob.example/p.jpg"}, entry["photo"])
	assert.Nil(t, entry["published"])
	assert.Equal(t, map[string]any{"type": "card", "name": "Bob", "photo": "", "url": ""}, entry["author"])

	rsvp := BuildJF2(&model.Link{Href: "https://bob.example/rsvp", Type: "rsvp-maybe"}, target)
	assert.Equal(t, "maybe", rsvp["rsvp"])
	assert.Equal(t, "rsvp", rsvp["wm-property"])
	assert.NotContains(t, rsvp, "author")
}
