package controllers

import (
	"menu-app/itemtypes"
	"menu-app/services"
	"menu-app/types"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MenuItemController struct {
	Service  *services.TreeService
	Notifier *services.Notifier
	Registry *itemtypes.Registry
}

func NewMenuItemController(db *gorm.DB, log *zap.Logger, registry *itemtypes.Registry) *MenuItemController {
	return &MenuItemController{
		Service:  services.NewTreeService(db, log),
		Notifier: services.NewNotifier(log),
		Registry: registry,
	}
}

func itemIDParam(ctx *fiber.Ctx) (types.SnowflakeID, error) {
	return types.ParseSnowflakeID(ctx.Params("id"))
}

type createItemRequest struct {
	MenuID   uint               `json:"menu_id" validate:"required"`
	Locale   string             `json:"locale" validate:"required"`
	Type     string             `json:"type"`
	Name     string             `json:"name"`
	ParentID *types.SnowflakeID `json:"parent_id"`
	Fields   types.FieldBag     `json:"fields"`
}

// CreateMenuItem appends a new item to a menu. With no type given the
// menu's default registered type is used.
func (ic *MenuItemController) CreateMenuItem(ctx *fiber.Ctx) error {
	var req createItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if req.Type == "" {
		menu, err := ic.Service.GetMenu(req.MenuID)
		if err != nil {
			return respondServiceError(ctx, err)
		}
		req.Type = ic.Registry.DefaultType(menu.Slug)
	}

	id, err := ic.Service.CreateItem(services.CreateItemInput{
		MenuID:   req.MenuID,
		Locale:   req.Locale,
		Type:     req.Type,
		Name:     req.Name,
		Fields:   req.Fields,
		ParentID: req.ParentID,
	}, actorFrom(ctx))
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": fiber.Map{"id": id}})
}

// GetMenuItem returns one item as stored.
func (ic *MenuItemController) GetMenuItem(ctx *fiber.Ctx) error {
	id, err := itemIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_item_id"})
	}

	item, err := ic.Service.GetItem(id)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": item})
}

type updateItemRequest struct {
	Name    *string        `json:"name"`
	Type    *string        `json:"type"`
	Enabled *bool          `json:"enabled"`
	Fields  types.FieldBag `json:"fields"`
}

// UpdateMenuItem patches an item's own attributes. Tree shape changes go
// through the reorder endpoint instead.
func (ic *MenuItemController) UpdateMenuItem(ctx *fiber.Ctx) error {
	id, err := itemIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_item_id"})
	}

	var req updateItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_body"})
	}

	item, err := ic.Service.UpdateItem(id, services.UpdateItemInput{
		Name:    req.Name,
		Type:    req.Type,
		Enabled: req.Enabled,
		Fields:  req.Fields,
	}, actorFrom(ctx))
	if err != nil {
		return respondServiceError(ctx, err)
	}

	if menu, err := ic.Service.GetMenu(item.MenuID); err == nil {
		go ic.Notifier.MenuUpdated(menu.Name, item.ID.String())
	}

	return ctx.JSON(fiber.Map{"success": true, "data": item})
}

// DeleteMenuItem removes an item and its whole subtree.
func (ic *MenuItemController) DeleteMenuItem(ctx *fiber.Ctx) error {
	id, err := itemIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_item_id"})
	}

	root, descendants, err := ic.Service.DeleteSubtree(id, actorFrom(ctx))
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"deleted_item":        root.ID,
		"deleted_descendants": len(descendants),
	}})
}

// DuplicateMenuItem copies an item and its subtree right after the
// original.
func (ic *MenuItemController) DuplicateMenuItem(ctx *fiber.Ctx) error {
	id, err := itemIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_item_id"})
	}

	copyID, err := ic.Service.Duplicate(id, actorFrom(ctx))
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": fiber.Map{"id": copyID}})
}
