// database/seeder.go
package database

import (
	"errors"
	"log"

	"menu-app/controllers/idgen"
	"menu-app/models"
	"menu-app/types"
	"menu-app/utils"

	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedMenus(db)
	SeedMenuItems(db)
}

// SeedMenus creates the default menus when they are missing.
func SeedMenus(db *gorm.DB) {
	menus := []models.Menu{
		{Name: "Main menu", Slug: "main"},
		{Name: "Footer", Slug: "footer"},
	}

	for _, m := range menus {
		var existing models.Menu
		if err := db.Where("slug = ?", m.Slug).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&m).Error; err != nil {
					log.Fatalf("Failed to seed menu %s: %v", m.Slug, err)
				}
			}
		}
	}
}

// SeedMenuItems gives the main menu a small starter tree so the admin UI is
// not empty on a fresh database.
func SeedMenuItems(db *gorm.DB) {
	var menu models.Menu
	if err := db.Where("slug = ?", "main").First(&menu).Error; err != nil {
		return
	}

	var count int64
	db.Model(&models.MenuItem{}).Where("menu_id = ?", menu.ID).Count(&count)
	if count > 0 {
		return
	}

	home := newSeedItem(menu.ID, nil, "", 1, "Home", "/")
	about := newSeedItem(menu.ID, nil, "", 2, "About", "/about")
	team := newSeedItem(menu.ID, &about.ID, about.Path, 1, "Team", "/about/team")

	for _, item := range []*models.MenuItem{home, about, team} {
		if err := db.Create(item).Error; err != nil {
			log.Printf("Failed to seed menu item %s: %v", item.Name, err)
			return
		}
	}
}

func newSeedItem(menuID uint, parentID *types.SnowflakeID, parentPath string, order int, name, url string) *models.MenuItem {
	id := types.SnowflakeID(idgen.GenerateID())
	return &models.MenuItem{
		ID:        id,
		MenuID:    menuID,
		Locale:    "en_US",
		ParentID:  parentID,
		Path:      utils.JoinPath(parentPath, id),
		MenuOrder: order,
		Type:      "link",
		Name:      name,
		Fields:    types.FieldBag{"url": {Scalar: url}},
		Enabled:   true,
	}
}
