// database/migrate.go
package database

import (
	"menu-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Menu{},
		&models.MenuItem{},
		&models.MenuChangeLog{},
	)
}
