package repositories

import (
	"menu-app/controllers/helpers"
	"menu-app/models"
	"menu-app/types"
	"menu-app/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiblingScope identifies one group of siblings: the items sharing a menu,
// a locale and a parent. Order density is maintained per scope.
type SiblingScope struct {
	MenuID   uint
	Locale   string
	ParentID *types.SnowflakeID
}

// ScopeOf returns the sibling scope the item lives in.
func ScopeOf(item *models.MenuItem) SiblingScope {
	return SiblingScope{MenuID: item.MenuID, Locale: item.Locale, ParentID: item.ParentID}
}

type MenuItemRepository struct {
	DB *gorm.DB
}

func NewMenuItemRepository(DB *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{DB: DB}
}

// WithTx rebinds the repository to a transaction handle.
func (r *MenuItemRepository) WithTx(tx *gorm.DB) *MenuItemRepository {
	return &MenuItemRepository{DB: tx}
}

func (r *MenuItemRepository) GetByID(id types.SnowflakeID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDForUpdate loads one item under a row lock. Mutations that derive
// order or path values from the row read it through here so a concurrent
// shift on its scope settles first.
func (r *MenuItemRepository) GetByIDForUpdate(id types.SnowflakeID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.forUpdate(r.DB.Where("id = ?", id)).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuItemRepository) scopeQuery(scope SiblingScope) *gorm.DB {
	q := r.DB.Model(&models.MenuItem{}).
		Where("menu_id = ? AND locale = ?", scope.MenuID, scope.Locale)
	if scope.ParentID == nil {
		return q.Where("parent_id IS NULL")
	}
	return q.Where("parent_id = ?", *scope.ParentID)
}

// forUpdate requests a row lock on the queried scope. Two concurrent shifts
// on one scope would otherwise both read the same order values and write
// duplicates. SQLite serializes writers on its own and rejects FOR UPDATE.
func (r *MenuItemRepository) forUpdate(q *gorm.DB) *gorm.DB {
	if r.DB.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

// SiblingsInScope returns the scope's items in ascending order, locked for
// the duration of the surrounding transaction.
func (r *MenuItemRepository) SiblingsInScope(scope SiblingScope) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.forUpdate(r.scopeQuery(scope)).Order("menu_order asc").Find(&items).Error
	return items, err
}

// SiblingsAbove returns the scope's items with order strictly greater than
// threshold, ascending, locked.
func (r *MenuItemRepository) SiblingsAbove(scope SiblingScope, threshold int) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.forUpdate(r.scopeQuery(scope).Where("menu_order > ?", threshold)).
		Order("menu_order asc").Find(&items).Error
	return items, err
}

// MaxOrder returns the highest order in the scope, 0 when empty. It reads
// the scope through the locked sibling query so an append and a concurrent
// shift cannot interleave.
func (r *MenuItemRepository) MaxOrder(scope SiblingScope) (int, error) {
	items, err := r.SiblingsInScope(scope)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, item := range items {
		if item.MenuOrder > max {
			max = item.MenuOrder
		}
	}
	return max, nil
}

// ChildrenOf returns the item's direct children in ascending order.
func (r *MenuItemRepository) ChildrenOf(item *models.MenuItem) ([]models.MenuItem, error) {
	id := item.ID
	return r.SiblingsInScope(SiblingScope{MenuID: item.MenuID, Locale: item.Locale, ParentID: &id})
}

// DescendantsOf returns every item whose path extends the given path, i.e.
// the full subtree below it, ordered by path so parents come before their
// children. Snowflake ids are plain digits, so the LIKE pattern needs no
// escaping.
func (r *MenuItemRepository) DescendantsOf(path string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.DB.Where("path LIKE ?", path+utils.PathSeparator+"%").
		Order("path asc").Find(&items).Error
	return items, err
}

// RootItems returns a menu's depth-1 items for one locale, in order.
func (r *MenuItemRepository) RootItems(menuID uint, locale string) ([]models.MenuItem, error) {
	return r.SiblingsInScope(SiblingScope{MenuID: menuID, Locale: locale, ParentID: nil})
}

// ItemsForMenu returns every item of a menu's locale forest.
func (r *MenuItemRepository) ItemsForMenu(menuID uint, locale string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.DB.Where("menu_id = ? AND locale = ?", menuID, locale).
		Order("path asc").Find(&items).Error
	return items, err
}

// SaveWithAudit persists the item and writes one audit row for it. Every
// mutation in the system goes through here (or DeleteWithAudit) so the
// change log sees each touched row individually.
func (r *MenuItemRepository) SaveWithAudit(item *models.MenuItem, action, detail string, actor int) error {
	item.UpdatedBy = actor
	if action == models.AuditCreated || action == models.AuditDuplicated || action == models.AuditCopied {
		item.CreatedBy = actor
	}
	if err := r.DB.Save(item).Error; err != nil {
		return err
	}
	return helpers.InsertMenuChangeLog(r.DB, item.ID, item.MenuID, action, detail, actor)
}

// DeleteWithAudit removes the item and writes its audit row.
func (r *MenuItemRepository) DeleteWithAudit(item *models.MenuItem, detail string, actor int) error {
	if err := r.DB.Delete(&models.MenuItem{}, "id = ?", item.ID).Error; err != nil {
		return err
	}
	return helpers.InsertMenuChangeLog(r.DB, item.ID, item.MenuID, models.AuditDeleted, detail, actor)
}
