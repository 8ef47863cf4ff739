package model

import "time"

// Debug switches on source captures for a single page or a whole domain.
type Debug struct {
	ID        uint   `gorm:"primaryKey"`
	PageURL   string `gorm:"size:512;index"`
	Domain    string `gorm:"size:255;index"`
	Enabled   bool
	OnSuccess bool
	CreatedAt time.Time
}

func (Debug) TableName() string {
	return "debugs"
}

// DebugCapture holds one encoded snapshot of resolved source data.
type DebugCapture struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"size:64;index"`
	Stage     string `gorm:"size:30"` // received or success
	Source    string `gorm:"size:512"`
	Target    string `gorm:"size:512"`
	Encoding  string `gorm:"size:30"`
	Payload   []byte
	CreatedAt time.Time `gorm:"index"`
}

func (DebugCapture) TableName() string {
	return "debug_captures"
}
