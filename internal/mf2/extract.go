package mf2

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/emrgen/webmention/internal/avatar"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/xray"
	"gorm.io/datatypes"
)

// ApplyAuthor copies the author card of data onto link. Photos are swapped
// for their archived copy when the site archives avatars.
func ApplyAuthor(data xray.PostData, link *model.Link, site *model.Site, archiver avatar.Archiver) {
	link.AuthorURL = ""
	link.AuthorName = ""
	link.AuthorPhoto = ""

	// invitations name the invitee, not the author
	if invitees := data.Strings("invitee"); len(invitees) > 0 {
		link.AuthorURL = invitees[0]
	}

	author := data.Object("author")
	if author == nil || author.String("type") != "card" {
		return
	}

	if v := author.String("url"); v != "" {
		link.AuthorURL = v
	}
	if v := author.String("name"); v != "" {
		link.AuthorName = v
	}
	if v := author.String("photo"); v != "" {
		link.AuthorPhoto = v
	}

	if site != nil && site.ArchiveAvatars && link.AuthorPhoto != "" && archiver != nil {
		link.AuthorPhoto = archiver.ArchiveURL(link.AuthorPhoto)
	}
}

// ApplyContent copies the post content of data onto link. Every field is
// attempted; the returned error joins the fields that could not be read.
func ApplyContent(data xray.PostData, link *model.Link) error {
	var errs []error

	link.URL = data.String("url")
	link.Name = data.String("name")

	if data.Has("summary") {
		link.Summary = data.String("summary")
	}

	if content := data.Object("content"); content != nil {
		if html := content.String("html"); html != "" {
			link.Content = html
		}
		link.ContentText = content.String("text")
	} else if data.Has("content") {
		link.ContentText = data.String("content")
	}

	if link.URL != "" {
		abs, err := model.ResolveURL(link.URL, link.Href)
		if err != nil {
			errs = append(errs, fmt.Errorf("url: %w", err))
		} else {
			link.URL = abs
		}
	}

	var err error
	if link.Photo, err = blob(data, "photo"); err != nil {
		errs = append(errs, err)
	}
	if link.Video, err = blob(data, "video"); err != nil {
		errs = append(errs, err)
	}
	if link.Audio, err = blob(data, "audio"); err != nil {
		errs = append(errs, err)
	}

	if published := data.String("published"); published != "" {
		if err := applyPublished(published, link); err != nil {
			errs = append(errs, err)
		}
	}

	if syndications := data.Strings("syndication"); len(syndications) > 0 {
		link.Syndication = datatypes.JSONSlice[string](syndications)
	}

	if data.Has("swarm-coins") {
		if coins, ok := data.Int("swarm-coins"); ok {
			link.SwarmCoins = &coins
		} else {
			errs = append(errs, errors.New("swarm-coins: not a number"))
		}
	}

	if rels := data.Object("rels"); rels != nil {
		if canonical := rels.String("canonical"); canonical != "" {
			link.RelCanonical = canonical
		}
	}

	return errors.Join(errs...)
}

func blob(data xray.PostData, key string) (datatypes.JSON, error) {
	if !data.Has(key) {
		return nil, nil
	}

	buf, err := json.Marshal(data[key])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return datatypes.JSON(buf), nil
}

type publishedLayout struct {
	layout string
	zoned  bool
}

var publishedLayouts = []publishedLayout{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05-0700", true},
	{"2006-01-02T15:04:05.999999999-0700", true},
	{"2006-01-02T15:04:05 -0700", true},
	{"2006-01-02T15:04:05-07", true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04-0700", true},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02 15:04:05-0700", true},
	{"2006-01-02 15:04:05 -0700", true},
	{"2006-01-02 15:04:05 -07:00", true},
	{"2006-01-02 15:04:05-07", true},
	{"2006-01-02 15:04Z07:00", true},
	{"2006-01-02 15:04-0700", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
	{"January 2, 2006 3:04pm", false},
	{"January 2, 2006 3:04 pm", false},
	{time.RFC1123Z, true},
	{time.RFC1123, false},
}

// ParsePublished parses a published date. offset is set only when the
// string names a numeric zone; dates without a zone are taken as UTC.
func ParsePublished(s string) (time.Time, *int, error) {
	s = strings.TrimSpace(s)

	for _, l := range publishedLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}

		var offset *int
		if l.zoned && !strings.HasSuffix(s, "Z") {
			_, off := t.Zone()
			offset = &off
		}

		return t, offset, nil
	}

	// free-form dates
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("published: unrecognized date %q", s)
	}

	var offset *int
	if t.Location() != time.UTC {
		_, off := t.Zone()
		offset = &off
	}

	return t, offset, nil
}

func applyPublished(s string, link *model.Link) error {
	t, offset, err := ParsePublished(s)
	if err != nil {
		return err
	}

	utc := t.UTC()
	ts := t.Unix()
	link.Published = &utc
	link.PublishedOffset = offset
	link.PublishedTs = &ts

	return nil
}
