package model

import "gorm.io/gorm"

// Account owns the sites, blocks and links a webmention can target.
type Account struct {
	gorm.Model
	Username        string `gorm:"size:255;not null;uniqueIndex"`
	Domain          string `gorm:"size:255"`
	Email           string `gorm:"size:255"`
	ApertureURI     string `gorm:"size:255"` // archival sink, empty when disabled
	ApertureToken   string `gorm:"size:255"`
	Token           string `gorm:"size:255"`
	PingbackEnabled bool
	Sites           []Site
	Blocks          []Block
}

func (Account) TableName() string {
	return "accounts"
}

// Site is a domain registered to an account. A target resolves to a site
// only when its host equals the site domain.
type Site struct {
	gorm.Model
	AccountID      uint   `gorm:"not null;uniqueIndex:idx_sites_account_domain"`
	Domain         string `gorm:"size:255;not null;uniqueIndex:idx_sites_account_domain"`
	ArchiveAvatars bool
	CallbackURL    string `gorm:"size:512"`
	CallbackSecret string `gorm:"size:255"`
	Account        *Account
}

func (Site) TableName() string {
	return "sites"
}

// Block rejects every source hosted on Domain for the account.
type Block struct {
	gorm.Model
	AccountID uint   `gorm:"not null;index:idx_blocks_account_domain"`
	Domain    string `gorm:"size:255;not null;index:idx_blocks_account_domain"`
}

func (Block) TableName() string {
	return "blocks"
}

// Blocklist rejects one exact source URL for a site.
type Blocklist struct {
	gorm.Model
	SiteID uint   `gorm:"not null;index:idx_blocklists_site_source"`
	Source string `gorm:"size:512;not null;index:idx_blocklists_site_source"`
}

func (Blocklist) TableName() string {
	return "blocklists"
}
