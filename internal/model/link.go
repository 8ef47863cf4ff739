package model

import (
	"net/url"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	ProtocolWebmention = "webmention"
	ProtocolPingback   = "pingback"

	EndpointTypeAccount = "account"
	EndpointTypeSite    = "site"
)

// Link is one source -> target edge. A row exists only while the source is
// known to link to the target; (PageID, Href) is unique.
type Link struct {
	ID        uint   `gorm:"primaryKey"`
	PageID    uint   `gorm:"not null;uniqueIndex:idx_links_page_href"`
	Href      string `gorm:"size:512;not null;uniqueIndex:idx_links_page_href"`
	SiteID    uint   `gorm:"not null;index"`
	AccountID uint   `gorm:"not null;index"`
	Domain    string `gorm:"size:256;index"`

	Verified     bool
	IsPrivate    bool
	Token        string `gorm:"size:64;index"`
	Protocol     string `gorm:"size:30"`
	EndpointType string `gorm:"size:30"`

	Type     string `gorm:"size:64"`
	IsDirect bool

	URL          string `gorm:"size:512"`
	AuthorURL    string `gorm:"size:512"`
	AuthorName   string `gorm:"size:256"`
	AuthorPhoto  string `gorm:"size:512"`
	Name         string `gorm:"type:text"`
	Summary      string `gorm:"type:text"`
	Content      string `gorm:"type:text"`
	ContentText  string `gorm:"type:text"`
	Photo        datatypes.JSON
	Video        datatypes.JSON
	Audio        datatypes.JSON
	Syndication  datatypes.JSONSlice[string]
	SwarmCoins   *int
	RelCanonical string `gorm:"size:512"`

	Published       *time.Time
	PublishedOffset *int // seconds east of UTC, only when the source gave a zone
	PublishedTs     *int64

	CreatedAt time.Time
	UpdatedAt time.Time

	Page *Page
}

func (Link) TableName() string {
	return "links"
}

// Source is the URL that mentioned the page.
func (l *Link) Source() string {
	return l.Href
}

func (l *Link) HasAuthorInfo() bool {
	return l.AuthorName != "" || l.AuthorURL != "" || l.AuthorPhoto != ""
}

func (l *Link) Syndications() []string {
	if len(l.Syndication) == 0 {
		return nil
	}
	return l.Syndication
}

// PublishedDate returns the publish time in the zone the source declared,
// or UTC when it declared none.
func (l *Link) PublishedDate() *time.Time {
	if l.Published == nil {
		return nil
	}

	date := l.Published.UTC()
	if l.PublishedOffset != nil {
		date = date.In(time.FixedZone("", *l.PublishedOffset))
	}

	return &date
}

// AbsoluteURL resolves the post url against the source href.
func (l *Link) AbsoluteURL() string {
	if l.URL == "" {
		return l.Href
	}

	abs, err := ResolveURL(l.URL, l.Href)
	if err != nil {
		return l.URL
	}
	return abs
}

// ResolveURL resolves ref against base.
func ResolveURL(ref, base string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// RelationProperty is the microformats property that relates the source to
// the target, e.g. "in-reply-to" for a reply.
func (l *Link) RelationProperty() string {
	switch {
	case l.Type == "repost":
		return "repost-of"
	case l.Type == "like":
		return "like-of"
	case l.Type == "reply":
		return "in-reply-to"
	case l.Type == "bookmark":
		return "bookmark-of"
	case l.Type == "invite":
		return "invitee"
	case strings.HasPrefix(l.Type, "rsvp-"):
		return "rsvp"
	default:
		return "mention-of"
	}
}

// RSVP returns the rsvp value for rsvp links.
func (l *Link) RSVP() string {
	if !strings.HasPrefix(l.Type, "rsvp-") {
		return ""
	}
	return strings.TrimPrefix(l.Type, "rsvp-")
}
