package store

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/webmention/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) FindAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := g.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (g *GormStore) FindBlock(ctx context.Context, accountID uint, domain string) (*model.Block, error) {
	var block model.Block
	err := g.db.WithContext(ctx).Where("account_id = ? AND domain = ?", accountID, domain).First(&block).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &block, nil
}

func (g *GormStore) FindSite(ctx context.Context, accountID uint, domain string) (*model.Site, error) {
	var site model.Site
	err := g.db.WithContext(ctx).Preload("Account").Where("account_id = ? AND domain = ?", accountID, domain).First(&site).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &site, nil
}

func (g *GormStore) FindBlocklist(ctx context.Context, siteID uint, source string) (*model.Blocklist, error) {
	var bl model.Blocklist
	err := g.db.WithContext(ctx).Where("site_id = ? AND source = ?", siteID, source).First(&bl).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &bl, nil
}

// FindOrCreatePage inserts the page and ignores a conflict on (site_id, href),
// so concurrent first mentions of a target end up sharing one row.
func (g *GormStore) FindOrCreatePage(ctx context.Context, site *model.Site, href string) (*model.Page, bool, error) {
	page := &model.Page{
		SiteID:    site.ID,
		AccountID: site.AccountID,
		Href:      href,
	}

	res := g.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(page)
	if res.Error != nil {
		return nil, false, res.Error
	}

	if res.RowsAffected == 1 && page.ID != 0 {
		return page, true, nil
	}

	existing, err := g.FindPage(ctx, site.ID, href)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

func (g *GormStore) FindPage(ctx context.Context, siteID uint, href string) (*model.Page, error) {
	var page model.Page
	err := g.db.WithContext(ctx).Where("site_id = ? AND href = ?", siteID, href).First(&page).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &page, nil
}

func (g *GormStore) UpdatePage(ctx context.Context, page *model.Page) error {
	return g.db.WithContext(ctx).Model(page).Select("type", "name").Updates(page).Error
}

func (g *GormStore) FindLink(ctx context.Context, pageID uint, href string) (*model.Link, error) {
	var link model.Link
	err := g.db.WithContext(ctx).Where("page_id = ? AND href = ?", pageID, href).First(&link).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &link, nil
}

// UpsertLink writes the whole link in one statement. A concurrent writer for
// the same (page_id, href) either inserts first or is turned into an update,
// the last one to commit owns the content columns.
func (g *GormStore) UpsertLink(ctx context.Context, link *model.Link) (*model.Link, error) {
	row := *link
	row.ID = 0
	row.Page = nil

	err := g.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "page_id"}, {Name: "href"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	return g.FindLink(ctx, link.PageID, link.Href)
}

func (g *GormStore) DeleteLink(ctx context.Context, link *model.Link) error {
	logrus.Infof("deleting link %d: %s", link.ID, link.Href)
	return g.db.WithContext(ctx).Where("id = ?", link.ID).Delete(&model.Link{}).Error
}

func (g *GormStore) ListLinks(ctx context.Context, pageID uint) ([]*model.Link, error) {
	var links []*model.Link
	err := g.db.WithContext(ctx).Where("page_id = ? AND verified = ?", pageID, true).Order("created_at asc").Find(&links).Error
	return links, err
}

func (g *GormStore) FindDebug(ctx context.Context, pageURL, domain string, onSuccess bool) (*model.Debug, error) {
	flag := "enabled"
	if onSuccess {
		flag = "on_success"
	}

	var debug model.Debug
	err := g.db.WithContext(ctx).
		Where("(page_url = ? OR domain = ?) AND "+flag+" = ?", pageURL, domain, true).
		First(&debug).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &debug, nil
}

func (g *GormStore) CreateDebugCapture(ctx context.Context, capture *model.DebugCapture) error {
	return g.db.WithContext(ctx).Create(capture).Error
}

func (g *GormStore) DeleteDebugCapturesBefore(ctx context.Context, t time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Where("created_at < ?", t).Delete(&model.DebugCapture{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
