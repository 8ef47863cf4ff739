package model

import "time"

const (
	PageTypeEntry = "entry"
	PageTypePhoto = "photo"
	PageTypeVideo = "video"
	PageTypeAudio = "audio"
	PageTypeEvent = "event"
)

// Page is a target URL inside a site. It is created on first reference and
// its Type and Name are never refreshed afterwards.
type Page struct {
	ID        uint   `gorm:"primaryKey"`
	SiteID    uint   `gorm:"not null;uniqueIndex:idx_pages_site_href"`
	AccountID uint   `gorm:"not null"`
	Href      string `gorm:"size:512;not null;uniqueIndex:idx_pages_site_href"`
	Type      string `gorm:"size:30"`
	Name      string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Page) TableName() string {
	return "pages"
}
