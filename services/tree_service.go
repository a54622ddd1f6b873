package services

import (
	"errors"
	"fmt"
	"strings"

	"menu-app/controllers/idgen"
	"menu-app/models"
	"menu-app/repositories"
	"menu-app/types"
	"menu-app/utils"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// TreeService owns every mutation of a menu tree. Each operation runs as one
// transaction; the sibling scopes it touches are read under row locks so two
// concurrent mutations of one scope cannot both see the same order values.
type TreeService struct {
	DB     *gorm.DB
	log    *zap.Logger
	items  *repositories.MenuItemRepository
	menus  *repositories.MenuRepository
	orders *OrderMaintainer
}

func NewTreeService(db *gorm.DB, log *zap.Logger) *TreeService {
	return &TreeService{
		DB:     db,
		log:    log,
		items:  repositories.NewMenuItemRepository(db),
		menus:  repositories.NewMenuRepository(db),
		orders: NewOrderMaintainer(log),
	}
}

// MenuSummary is the list-menus row. Title mirrors the admin dropdown
// label, "Name (slug)".
type MenuSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
}

// ItemNode is a menu item with its resolved children, ordered.
type ItemNode struct {
	models.MenuItem
	Children []*ItemNode `json:"children"`
}

type CreateItemInput struct {
	MenuID   uint
	Locale   string
	Type     string
	Name     string
	Fields   types.FieldBag
	ParentID *types.SnowflakeID
}

// UpdateItemInput is a patch: nil pointers leave the column alone, and
// submitted field values are merged into the existing bag key by key.
type UpdateItemInput struct {
	Name    *string
	Type    *string
	Enabled *bool
	Fields  types.FieldBag
}

func (s *TreeService) ListMenus() ([]MenuSummary, error) {
	menus, err := s.menus.GetAll()
	if err != nil {
		return nil, err
	}

	summaries := make([]MenuSummary, 0, len(menus))
	for _, menu := range menus {
		summaries = append(summaries, MenuSummary{
			ID:    menu.ID,
			Title: fmt.Sprintf("%s (%s)", menu.Name, menu.Slug),
			Name:  menu.Name,
			Slug:  menu.Slug,
		})
	}
	return summaries, nil
}

func (s *TreeService) GetMenu(menuID uint) (*models.Menu, error) {
	menu, err := s.menus.GetByID(menuID)
	if err != nil {
		return nil, notFoundAs(err, ErrMenuNotFound)
	}
	return menu, nil
}

// ListItems returns the menu's item forest for one locale as an ordered
// tree of nodes.
func (s *TreeService) ListItems(menuID uint, locale string) ([]*ItemNode, error) {
	if _, err := s.GetMenu(menuID); err != nil {
		return nil, err
	}
	if locale == "" {
		return nil, ErrLocaleRequired
	}

	items, err := s.items.ItemsForMenu(menuID, locale)
	if err != nil {
		return nil, err
	}

	nodes := make(map[types.SnowflakeID]*ItemNode, len(items))
	for _, item := range items {
		nodes[item.ID] = &ItemNode{MenuItem: item, Children: []*ItemNode{}}
	}

	var roots []*ItemNode
	for _, item := range items {
		node := nodes[item.ID]
		if item.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*item.ParentID]
		if !ok {
			// Orphaned rows should not exist; skip rather than fail a read.
			s.log.Warn("menu item parent missing", zap.String("item_id", item.ID.String()))
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	byOrder := func(a, b *ItemNode) int { return a.MenuOrder - b.MenuOrder }
	slices.SortFunc(roots, byOrder)
	for _, node := range nodes {
		slices.SortFunc(node.Children, byOrder)
	}

	return roots, nil
}

func (s *TreeService) GetItem(itemID types.SnowflakeID) (*models.MenuItem, error) {
	item, err := s.items.GetByID(itemID)
	if err != nil {
		return nil, notFoundAs(err, ErrItemNotFound)
	}
	return item, nil
}

// CreateItem appends a new item at the end of its sibling scope (menu root,
// or under the given parent).
func (s *TreeService) CreateItem(input CreateItemInput, actor int) (types.SnowflakeID, error) {
	if _, err := s.GetMenu(input.MenuID); err != nil {
		return 0, err
	}
	if input.Locale == "" {
		return 0, ErrLocaleRequired
	}

	var newID types.SnowflakeID
	err := s.transact(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)

		var parentPath string
		if input.ParentID != nil {
			parent, err := repo.GetByIDForUpdate(*input.ParentID)
			if err != nil {
				return notFoundAs(err, ErrItemNotFound)
			}
			if parent.MenuID != input.MenuID || parent.Locale != input.Locale {
				return ErrInvalidParent
			}
			parentPath = parent.Path
		}

		scope := repositories.SiblingScope{MenuID: input.MenuID, Locale: input.Locale, ParentID: input.ParentID}
		maxOrder, err := repo.MaxOrder(scope)
		if err != nil {
			return err
		}

		newID = types.SnowflakeID(idgen.GenerateID())
		item := models.MenuItem{
			ID:        newID,
			MenuID:    input.MenuID,
			Locale:    input.Locale,
			ParentID:  input.ParentID,
			Path:      utils.JoinPath(parentPath, newID),
			MenuOrder: maxOrder + 1,
			Type:      input.Type,
			Name:      input.Name,
			Fields:    input.Fields,
			Enabled:   true,
		}
		return repo.SaveWithAudit(&item, models.AuditCreated, "", actor)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("menu item created",
		zap.String("item_id", newID.String()),
		zap.Uint("menu_id", input.MenuID),
		zap.String("locale", input.Locale))
	return newID, nil
}

// UpdateItem applies a field patch to one item. Tree shape and order are
// never touched here; moves go through ReorderTree.
func (s *TreeService) UpdateItem(itemID types.SnowflakeID, input UpdateItemInput, actor int) (*models.MenuItem, error) {
	var updated *models.MenuItem
	err := s.transact(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)

		// Locked read: Save writes the whole row, order and path included.
		item, err := repo.GetByIDForUpdate(itemID)
		if err != nil {
			return notFoundAs(err, ErrItemNotFound)
		}

		if input.Name != nil {
			item.Name = *input.Name
		}
		if input.Type != nil {
			item.Type = *input.Type
		}
		if input.Enabled != nil {
			item.Enabled = *input.Enabled
		}
		if len(input.Fields) > 0 {
			if item.Fields == nil {
				item.Fields = types.FieldBag{}
			}
			for key, value := range input.Fields {
				item.Fields[key] = value
			}
		}

		if err := repo.SaveWithAudit(item, models.AuditUpdated, "", actor); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu item updated", zap.String("item_id", itemID.String()))
	return updated, nil
}

// Duplicate deep-copies an item and its subtree next to the original: the
// copy lands at source order + 1 after the trailing siblings are shifted up
// by one. Copies get fresh ids and rewritten paths; the name is left empty
// for the caller to fill in and enabled resets to its default.
func (s *TreeService) Duplicate(itemID types.SnowflakeID, actor int) (types.SnowflakeID, error) {
	var copyID types.SnowflakeID
	err := s.transact(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)

		// The source is read under lock inside the transaction; its order
		// is the shift threshold and must not be stale.
		source, err := repo.GetByIDForUpdate(itemID)
		if err != nil {
			return notFoundAs(err, ErrItemNotFound)
		}

		if err := s.orders.ShiftUp(tx, repositories.ScopeOf(source), source.MenuOrder, actor); err != nil {
			return err
		}

		copyID, err = s.duplicateSubtree(repo, source, source.ParentID,
			utils.ParentPath(source.Path), source.MenuOrder+1, actor)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("menu item duplicated",
		zap.String("source_id", itemID.String()),
		zap.String("copy_id", copyID.String()))
	return copyID, nil
}

// duplicateSubtree copies src and its descendants depth-first, pre-order.
// Descendants keep their relative sibling order; only the top copy takes a
// caller-chosen order.
func (s *TreeService) duplicateSubtree(repo *repositories.MenuItemRepository, src *models.MenuItem, parentID *types.SnowflakeID, parentPath string, order int, actor int) (types.SnowflakeID, error) {
	id := types.SnowflakeID(idgen.GenerateID())
	item := models.MenuItem{
		ID:        id,
		MenuID:    src.MenuID,
		Locale:    src.Locale,
		ParentID:  parentID,
		Path:      utils.JoinPath(parentPath, id),
		MenuOrder: order,
		Type:      src.Type,
		Fields:    copyFieldBag(src.Fields),
		Enabled:   true,
	}
	detail := "duplicate of " + src.ID.String()
	if err := repo.SaveWithAudit(&item, models.AuditDuplicated, detail, actor); err != nil {
		return 0, err
	}

	children, err := repo.ChildrenOf(src)
	if err != nil {
		return 0, err
	}
	for i := range children {
		if _, err := s.duplicateSubtree(repo, &children[i], &item.ID, item.Path, i+1, actor); err != nil {
			return 0, err
		}
	}

	return id, nil
}

// CopyToMenu clones the source menu's root forest for one locale into the
// target menu and locale, appending after the target's existing root items.
func (s *TreeService) CopyToMenu(fromMenuID, toMenuID uint, fromLocale, toLocale string, actor int) error {
	if fromLocale == "" || toLocale == "" {
		return ErrLocaleRequired
	}
	if _, err := s.GetMenu(fromMenuID); err != nil {
		return err
	}
	if _, err := s.GetMenu(toMenuID); err != nil {
		return err
	}

	err := s.transact(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)

		targetScope := repositories.SiblingScope{MenuID: toMenuID, Locale: toLocale}
		maxOrder, err := repo.MaxOrder(targetScope)
		if err != nil {
			return err
		}

		roots, err := repo.RootItems(fromMenuID, fromLocale)
		if err != nil {
			return err
		}

		for i := range roots {
			err := s.cloneSubtree(repo, &roots[i], toMenuID, toLocale, nil, "", maxOrder+i+1, actor)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("menu items copied",
		zap.Uint("from_menu_id", fromMenuID),
		zap.Uint("to_menu_id", toMenuID),
		zap.String("from_locale", fromLocale),
		zap.String("to_locale", toLocale))
	return nil
}

// cloneSubtree is the cross-menu twin of duplicateSubtree: it keeps the
// item's name and enabled flag but remaps menu and locale.
func (s *TreeService) cloneSubtree(repo *repositories.MenuItemRepository, src *models.MenuItem, menuID uint, locale string, parentID *types.SnowflakeID, parentPath string, order int, actor int) error {
	id := types.SnowflakeID(idgen.GenerateID())
	item := models.MenuItem{
		ID:        id,
		MenuID:    menuID,
		Locale:    locale,
		ParentID:  parentID,
		Path:      utils.JoinPath(parentPath, id),
		MenuOrder: order,
		Type:      src.Type,
		Name:      src.Name,
		Fields:    copyFieldBag(src.Fields),
		Enabled:   src.Enabled,
	}
	detail := "copy of " + src.ID.String()
	if err := repo.SaveWithAudit(&item, models.AuditCopied, detail, actor); err != nil {
		return err
	}

	children, err := repo.ChildrenOf(src)
	if err != nil {
		return err
	}
	for i := range children {
		err := s.cloneSubtree(repo, &children[i], menuID, locale, &item.ID, item.Path, i+1, actor)
		if err != nil {
			return err
		}
	}

	return nil
}

// ReorderTree commits a client-edited tree snapshot. This is the only move
// mechanism: an item listed under a new parent entry is reattached there.
// Applying the same snapshot twice yields the same state.
func (s *TreeService) ReorderTree(menuID uint, locale string, entries []TreeEntry, actor int) error {
	if _, err := s.GetMenu(menuID); err != nil {
		return err
	}
	if locale == "" {
		return ErrLocaleRequired
	}

	err := s.transact(func(tx *gorm.DB) error {
		return s.orders.Resequence(tx, menuID, locale, entries, actor)
	})
	if err != nil {
		return err
	}

	s.log.Info("menu tree reordered",
		zap.Uint("menu_id", menuID),
		zap.String("locale", locale),
		zap.Int("roots", len(entries)))
	return nil
}

// DeleteSubtree removes an item and everything below it. The removed
// descendants and the removed root are returned separately so the caller
// can report them as two sets.
func (s *TreeService) DeleteSubtree(itemID types.SnowflakeID, actor int) (root *models.MenuItem, descendants []models.MenuItem, err error) {
	root, err = s.GetItem(itemID)
	if err != nil {
		return nil, nil, err
	}

	err = s.transact(func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)

		descendants, err = repo.DescendantsOf(root.Path)
		if err != nil {
			return err
		}
		for i := range descendants {
			detail := "cascade of " + root.ID.String()
			if err := repo.DeleteWithAudit(&descendants[i], detail, actor); err != nil {
				return err
			}
		}
		if err := repo.DeleteWithAudit(root, "", actor); err != nil {
			return err
		}
		// Close the order gap the removed item leaves in its scope.
		return s.orders.Compact(tx, repositories.ScopeOf(root), actor)
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("menu subtree deleted",
		zap.String("item_id", itemID.String()),
		zap.Int("descendants", len(descendants)))
	return root, descendants, nil
}

// transact wraps fn in one transaction and translates lock contention into
// the conflict error.
func (s *TreeService) transact(fn func(tx *gorm.DB) error) error {
	err := s.DB.Transaction(fn)
	if err == nil {
		return nil
	}
	if code := ErrorCode(err); code != "internal_error" {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "deadlock") || strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "could not obtain lock") {
		return errors.Join(ErrConcurrencyConflict, err)
	}
	return err
}

func copyFieldBag(fields types.FieldBag) types.FieldBag {
	if fields == nil {
		return nil
	}
	bag := make(types.FieldBag, len(fields))
	for key, value := range fields {
		bag[key] = value
	}
	return bag
}
