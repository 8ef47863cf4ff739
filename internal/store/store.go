package store

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/webmention/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
)

type Store interface {
	AccountStore
	PageStore
	LinkStore
	DebugStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type AccountStore interface {
	// FindAccountByUsername retrieves an account by its username.
	FindAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	// FindBlock retrieves an account level block for a source domain.
	FindBlock(ctx context.Context, accountID uint, domain string) (*model.Block, error)
	// FindSite retrieves the site an account registered for a domain.
	FindSite(ctx context.Context, accountID uint, domain string) (*model.Site, error)
	// FindBlocklist retrieves a site level block for a source url.
	FindBlocklist(ctx context.Context, siteID uint, source string) (*model.Blocklist, error)
}

type PageStore interface {
	// FindOrCreatePage returns the page for (site, href), creating it when
	// missing. created reports whether this call inserted the row.
	FindOrCreatePage(ctx context.Context, site *model.Site, href string) (page *model.Page, created bool, err error)
	// UpdatePage saves the derived page metadata.
	UpdatePage(ctx context.Context, page *model.Page) error
}

type LinkStore interface {
	// FindLink retrieves the link for (page, href).
	FindLink(ctx context.Context, pageID uint, href string) (*model.Link, error)
	// UpsertLink inserts the link or overwrites the existing (page, href) row.
	UpsertLink(ctx context.Context, link *model.Link) (*model.Link, error)
	// DeleteLink removes the link row permanently.
	DeleteLink(ctx context.Context, link *model.Link) error
	// ListLinks retrieves the verified links of a page.
	ListLinks(ctx context.Context, pageID uint) ([]*model.Link, error)
	// FindPage retrieves a page by site and href without creating it.
	FindPage(ctx context.Context, siteID uint, href string) (*model.Page, error)
}

type DebugStore interface {
	// FindDebug retrieves an enabled debug switch for the page url or domain.
	FindDebug(ctx context.Context, pageURL, domain string, onSuccess bool) (*model.Debug, error)
	// CreateDebugCapture stores a capture.
	CreateDebugCapture(ctx context.Context, capture *model.DebugCapture) error
	// DeleteDebugCapturesBefore erases captures older than t.
	DeleteDebugCapturesBefore(ctx context.Context, t time.Time) (int64, error)
}
