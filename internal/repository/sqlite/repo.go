// Package sqlite implements the user and product stores on gorm with the
// pure-Go SQLite driver. It backs DB_DRIVER=sqlite and the API tests.
package sqlite

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the users and products tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}, &productRow{}); err != nil {
		return fmt.Errorf("auto-migrate sqlite schema: %w", err)
	}
	return nil
}
