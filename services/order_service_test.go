package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"menu-app/models"
	"menu-app/repositories"
	"menu-app/types"
)

func TestShiftUpOpensGapAndAuditsEachRow(t *testing.T) {
	db := openTestDB(t)
	maintainer := NewOrderMaintainer(zap.NewNop())

	for i := int64(1); i <= 3; i++ {
		item := &models.MenuItem{
			ID: types.SnowflakeID(i), MenuID: 1, Locale: "en_US",
			Path: types.SnowflakeID(i).String(), MenuOrder: int(i), Type: "link", Enabled: true,
		}
		require.NoError(t, db.Create(item).Error)
	}

	scope := repositories.SiblingScope{MenuID: 1, Locale: "en_US"}
	require.NoError(t, maintainer.ShiftUp(db, scope, 1, 9))

	repo := repositories.NewMenuItemRepository(db)
	items, err := repo.SiblingsInScope(scope)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 1, items[0].MenuOrder, "items at or below the threshold stay put")
	assert.Equal(t, 3, items[1].MenuOrder)
	assert.Equal(t, 4, items[2].MenuOrder)

	var logs []models.MenuChangeLog
	require.NoError(t, db.Where("action = ?", models.AuditOrderShifted).Find(&logs).Error)
	require.Len(t, logs, 2, "one audit row per shifted sibling")

	details := map[string]bool{}
	for _, entry := range logs {
		details[entry.Detail] = true
	}
	assert.True(t, details["order 2 -> 3"], "detail records the pre-shift order")
	assert.True(t, details["order 3 -> 4"])
}

func TestCompactClosesGaps(t *testing.T) {
	db := openTestDB(t)
	maintainer := NewOrderMaintainer(zap.NewNop())

	orders := []int{2, 5, 9}
	for i, order := range orders {
		item := &models.MenuItem{
			ID: types.SnowflakeID(i + 1), MenuID: 1, Locale: "en_US",
			Path: types.SnowflakeID(i + 1).String(), MenuOrder: order, Type: "link", Enabled: true,
		}
		require.NoError(t, db.Create(item).Error)
	}

	scope := repositories.SiblingScope{MenuID: 1, Locale: "en_US"}
	require.NoError(t, maintainer.Compact(db, scope, 9))

	repo := repositories.NewMenuItemRepository(db)
	items, err := repo.SiblingsInScope(scope)
	require.NoError(t, err)
	for i, item := range items {
		assert.Equal(t, i+1, item.MenuOrder)
	}
}

func TestResequenceFailsFastOnUnknownID(t *testing.T) {
	db := openTestDB(t)
	maintainer := NewOrderMaintainer(zap.NewNop())

	err := maintainer.Resequence(db, 1, "en_US", []TreeEntry{{ID: 424242}}, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
