package repositories

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"menu-app/models"
	"menu-app/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Menu{}, &models.MenuItem{}, &models.MenuChangeLog{}))
	return db
}

func seedItem(t *testing.T, db *gorm.DB, id int64, menuID uint, locale string, parentID *types.SnowflakeID, path string, order int) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		ID:        types.SnowflakeID(id),
		MenuID:    menuID,
		Locale:    locale,
		ParentID:  parentID,
		Path:      path,
		MenuOrder: order,
		Type:      "link",
		Name:      fmt.Sprintf("item-%d", id),
		Enabled:   true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestSiblingsAboveReturnsAscending(t *testing.T) {
	db := openTestDB(t)
	repo := NewMenuItemRepository(db)

	seedItem(t, db, 1, 1, "en_US", nil, "1", 1)
	seedItem(t, db, 2, 1, "en_US", nil, "2", 2)
	seedItem(t, db, 3, 1, "en_US", nil, "3", 3)
	// Same menu, other locale: a separate scope.
	seedItem(t, db, 4, 1, "et_EE", nil, "4", 2)

	items, err := repo.SiblingsAbove(SiblingScope{MenuID: 1, Locale: "en_US"}, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, types.SnowflakeID(2), items[0].ID)
	assert.Equal(t, types.SnowflakeID(3), items[1].ID)
}

func TestGetByIDForUpdate(t *testing.T) {
	db := openTestDB(t)
	repo := NewMenuItemRepository(db)

	seedItem(t, db, 1, 1, "en_US", nil, "1", 1)

	item, err := repo.GetByIDForUpdate(types.SnowflakeID(1))
	require.NoError(t, err)
	assert.Equal(t, types.SnowflakeID(1), item.ID)

	_, err = repo.GetByIDForUpdate(types.SnowflakeID(2))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMaxOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewMenuItemRepository(db)

	scope := SiblingScope{MenuID: 1, Locale: "en_US"}
	max, err := repo.MaxOrder(scope)
	require.NoError(t, err)
	assert.Equal(t, 0, max, "empty scope has max order 0")

	seedItem(t, db, 1, 1, "en_US", nil, "1", 1)
	seedItem(t, db, 2, 1, "en_US", nil, "2", 2)

	max, err = repo.MaxOrder(scope)
	require.NoError(t, err)
	assert.Equal(t, 2, max)
}

func TestDescendantsOfMatchesStrictPrefixOnly(t *testing.T) {
	db := openTestDB(t)
	repo := NewMenuItemRepository(db)

	root := seedItem(t, db, 1, 1, "en_US", nil, "1", 1)
	child := seedItem(t, db, 2, 1, "en_US", &root.ID, "1.2", 1)
	seedItem(t, db, 3, 1, "en_US", &child.ID, "1.2.3", 1)
	// Path "12" shares a string prefix with "1" but is not a descendant.
	seedItem(t, db, 12, 1, "en_US", nil, "12", 2)

	descendants, err := repo.DescendantsOf("1")
	require.NoError(t, err)
	require.Len(t, descendants, 2)
	assert.Equal(t, "1.2", descendants[0].Path)
	assert.Equal(t, "1.2.3", descendants[1].Path)
}

func TestSaveWithAuditWritesOneChangeLogRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewMenuItemRepository(db)

	item := seedItem(t, db, 1, 1, "en_US", nil, "1", 1)
	item.MenuOrder = 2
	require.NoError(t, repo.SaveWithAudit(item, models.AuditOrderShifted, "order 1 -> 2", 7))

	var logs []models.MenuChangeLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, types.SnowflakeID(1), logs[0].ItemID)
	assert.Equal(t, models.AuditOrderShifted, logs[0].Action)
	assert.Equal(t, 7, logs[0].CreatedBy)
}

func TestDeleteWithAudit(t *testing.T) {
	db := openTestDB(t)
	repo := NewMenuItemRepository(db)

	item := seedItem(t, db, 1, 1, "en_US", nil, "1", 1)
	require.NoError(t, repo.DeleteWithAudit(item, "", 3))

	var count int64
	db.Model(&models.MenuItem{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var logs []models.MenuChangeLog
	require.NoError(t, db.Where("action = ?", models.AuditDeleted).Find(&logs).Error)
	require.Len(t, logs, 1)
}
