package helpers

import (
	"time"

	"menu-app/models"
	"menu-app/types"

	"gorm.io/gorm"
)

// InsertMenuChangeLog inserts one audit row for one touched menu item.
// Mutations that touch many rows (order shifts, subtree deletes) call this
// once per row so every downstream observer sees the full set.
func InsertMenuChangeLog(db *gorm.DB, itemID types.SnowflakeID, menuID uint, action, detail string, actor int) error {
	entry := models.MenuChangeLog{
		ItemID:    itemID,
		MenuID:    menuID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
		CreatedBy: actor,
	}

	if err := db.Create(&entry).Error; err != nil {
		return err
	}

	return nil
}
