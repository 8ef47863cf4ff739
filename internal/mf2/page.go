package mf2

import (
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/xray"
)

// PageType derives the page type of a target from its own post data. An
// empty type means the target is not a recognized post.
func PageType(data xray.PostData) string {
	switch data.String("type") {
	case "entry":
		switch {
		case data.Has("photo"):
			return model.PageTypePhoto
		case data.Has("video"):
			return model.PageTypeVideo
		case data.Has("audio"):
			return model.PageTypeAudio
		}
		return model.PageTypeEntry
	case "event":
		return model.PageTypeEvent
	}
	return ""
}

// ApplyPage sets the derived type and name of page.
func ApplyPage(data xray.PostData, page *model.Page) {
	if t := PageType(data); t != "" {
		page.Type = t
	}
	if name := data.String("name"); name != "" {
		page.Name = name
	}
}
