package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Account{}, &Site{}, &Block{}, &Blocklist{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Page{}, &Link{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Debug{}, &DebugCapture{}); err != nil {
		return err
	}

	return nil
}
