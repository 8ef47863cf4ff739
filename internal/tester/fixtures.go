package tester

import (
	"testing"

	"github.com/emrgen/webmention/internal/model"
	"gorm.io/gorm"
)

// Fixture is an account with one registered site.
type Fixture struct {
	Account *model.Account
	Site    *model.Site
}

// SeedAccount creates username with a site on domain.
func SeedAccount(t testing.TB, db *gorm.DB, username, domain string) *Fixture {
	t.Helper()

	account := &model.Account{Username: username, Domain: domain}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}

	site := &model.Site{AccountID: account.ID, Domain: domain}
	if err := db.Create(site).Error; err != nil {
		t.Fatalf("create site: %v", err)
	}
	site.Account = account

	return &Fixture{Account: account, Site: site}
}

func (f *Fixture) Block(t testing.TB, db *gorm.DB, domain string) {
	t.Helper()
	if err := db.Create(&model.Block{AccountID: f.Account.ID, Domain: domain}).Error; err != nil {
		t.Fatalf("create block: %v", err)
	}
}

func (f *Fixture) Blocklist(t testing.TB, db *gorm.DB, source string) {
	t.Helper()
	if err := db.Create(&model.Blocklist{SiteID: f.Site.ID, Source: source}).Error; err != nil {
		t.Fatalf("create blocklist: %v", err)
	}
}
