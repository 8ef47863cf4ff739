package mf2

import (
	"encoding/json"
	"time"

	"github.com/emrgen/webmention/internal/model"
)

// BuildJF2 projects a stored link into the jf2 document reported to polling
// clients and webhook receivers.
func BuildJF2(link *model.Link, target string) map[string]any {
	entry := map[string]any{
		"type":         "entry",
		"url":          link.AbsoluteURL(),
		"wm-id":        link.ID,
		"wm-source":    link.Href,
		"wm-target":    target,
		"wm-protocol":  link.Protocol,
		"wm-property":  link.RelationProperty(),
		"wm-private":   link.IsPrivate,
		"wm-received":  link.UpdatedAt.UTC().Format(time.RFC3339),
		"wm-is-direct": link.IsDirect,
	}

	if link.HasAuthorInfo() {
		entry["author"] = map[string]any{
			"type":  "card",
			"name":  link.AuthorName,
			"photo": link.AuthorPhoto,
			"url":   link.AuthorURL,
		}
	}

	if published := link.PublishedDate(); published != nil {
		entry["published"] = published.Format(time.RFC3339)
	} else {
		entry["published"] = nil
	}

	switch link.RelationProperty() {
	case "rsvp":
		entry["rsvp"] = link.RSVP()
		entry["in-reply-to"] = target
	case "invitee":
		entry["invitee"] = link.AuthorURL
	default:
		entry[link.RelationProperty()] = target
	}

	if link.Name != "" {
		entry["name"] = link.Name
	}
	if link.Summary != "" {
		entry["summary"] = link.Summary
	}
	if link.Content != "" || link.ContentText != "" {
		content := map[string]any{"text": link.ContentText}
		if link.Content != "" {
			content["html"] = link.Content
		}
		entry["content"] = content
	}

	for key, raw := range map[string][]byte{"photo": link.Photo, "video": link.Video, "audio": link.Audio} {
		if len(raw) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			entry[key] = v
		}
	}

	if syndications := link.Syndications(); len(syndications) > 0 {
		entry["syndication"] = syndications
	}
	if link.SwarmCoins != nil {
		entry["swarm-coins"] = *link.SwarmCoins
	}
	if link.RelCanonical != "" {
		entry["rels"] = map[string]any{"canonical": link.RelCanonical}
	}

	return entry
}
