package services

import (
	"fmt"

	"menu-app/models"
	"menu-app/repositories"
	"menu-app/types"
	"menu-app/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TreeEntry is one node of a client-submitted tree snapshot: the item id and
// the intended children beneath it, both in intended order.
type TreeEntry struct {
	ID       types.SnowflakeID `json:"id"`
	Children []TreeEntry       `json:"children"`
}

// OrderMaintainer keeps the sibling order of every scope dense: the order
// values of n siblings are exactly 1..n.
type OrderMaintainer struct {
	log *zap.Logger
}

func NewOrderMaintainer(log *zap.Logger) *OrderMaintainer {
	return &OrderMaintainer{log: log}
}

// ShiftUp increments the order of every item in the scope whose order is
// strictly greater than threshold, opening a gap at threshold+1. Rows are
// saved one by one: the audit log must record each shifted sibling.
func (o *OrderMaintainer) ShiftUp(tx *gorm.DB, scope repositories.SiblingScope, threshold int, actor int) error {
	repo := repositories.NewMenuItemRepository(tx)

	items, err := repo.SiblingsAbove(scope, threshold)
	if err != nil {
		return err
	}

	for i := range items {
		item := &items[i]
		oldOrder := item.MenuOrder
		item.MenuOrder = oldOrder + 1
		detail := fmt.Sprintf("order %d -> %d", oldOrder, item.MenuOrder)
		if err := repo.SaveWithAudit(item, models.AuditOrderShifted, detail, actor); err != nil {
			return err
		}
	}

	o.log.Debug("shifted sibling orders",
		zap.Uint("menu_id", scope.MenuID),
		zap.String("locale", scope.Locale),
		zap.Int("threshold", threshold),
		zap.Int("shifted", len(items)))
	return nil
}

// Compact closes the gaps a removal left behind: the scope's surviving
// items are renumbered 1..n in their current relative order. Untouched rows
// are not rewritten.
func (o *OrderMaintainer) Compact(tx *gorm.DB, scope repositories.SiblingScope, actor int) error {
	repo := repositories.NewMenuItemRepository(tx)

	items, err := repo.SiblingsInScope(scope)
	if err != nil {
		return err
	}

	for i := range items {
		item := &items[i]
		if item.MenuOrder == i+1 {
			continue
		}
		detail := fmt.Sprintf("order %d -> %d", item.MenuOrder, i+1)
		item.MenuOrder = i + 1
		if err := repo.SaveWithAudit(item, models.AuditOrderShifted, detail, actor); err != nil {
			return err
		}
	}

	return nil
}

// Resequence commits a submitted tree snapshot for one menu and locale:
// order becomes the position in the submitted sequence (1-based) at every
// nesting level, and items listed under a parent entry are reattached to it
// with their path rewritten. Top-level entries become root items. Every
// listed item is read under a row lock, like the other scope mutations.
//
// A snapshot id that resolves to no item, or to an item of another menu or
// locale, fails the whole operation; a partial resequence would leave gaps
// behind.
func (o *OrderMaintainer) Resequence(tx *gorm.DB, menuID uint, locale string, entries []TreeEntry, actor int) error {
	return o.resequenceLevel(tx, menuID, locale, nil, entries, actor)
}

func (o *OrderMaintainer) resequenceLevel(tx *gorm.DB, menuID uint, locale string, parent *models.MenuItem, entries []TreeEntry, actor int) error {
	repo := repositories.NewMenuItemRepository(tx)

	for i, entry := range entries {
		item, err := repo.GetByIDForUpdate(entry.ID)
		if err != nil {
			return notFoundAs(err, ErrItemNotFound)
		}
		if item.MenuID != menuID || item.Locale != locale {
			return ErrItemNotFound
		}

		item.MenuOrder = i + 1
		if parent == nil {
			item.ParentID = nil
			item.Path = utils.JoinPath("", item.ID)
		} else {
			if parent.Path == item.Path || utils.IsDescendantPath(parent.Path, item.Path) {
				return ErrInvalidParent
			}
			parentID := parent.ID
			item.ParentID = &parentID
			item.Path = utils.JoinPath(parent.Path, item.ID)
		}

		if err := repo.SaveWithAudit(item, models.AuditReordered, "", actor); err != nil {
			return err
		}

		if err := o.resequenceLevel(tx, menuID, locale, item, entry.Children, actor); err != nil {
			return err
		}
	}

	return nil
}
