package controllers

import (
	"errors"
	"strconv"

	"menu-app/itemtypes"
	"menu-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

type MenuController struct {
	Service  *services.TreeService
	Registry *itemtypes.Registry
}

func NewMenuController(db *gorm.DB, log *zap.Logger, registry *itemtypes.Registry) *MenuController {
	return &MenuController{
		Service:  services.NewTreeService(db, log),
		Registry: registry,
	}
}

// actorFrom reads the authenticated user id set by the auth middleware.
func actorFrom(ctx *fiber.Ctx) int {
	if userID, ok := ctx.Locals("userID").(float64); ok {
		return int(userID)
	}
	return 0
}

func menuIDParam(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id < 0 {
		return 0, errors.New("invalid menu id")
	}
	return uint(id), nil
}

// respondServiceError turns a taxonomy error into the JSON failure
// envelope with its stable error code.
func respondServiceError(ctx *fiber.Ctx, err error) error {
	return ctx.Status(services.HTTPStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   services.ErrorCode(err),
	})
}

// GetMenus lists every menu for the admin dropdown.
func (mc *MenuController) GetMenus(ctx *fiber.Ctx) error {
	menus, err := mc.Service.ListMenus()
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": menus})
}

// GetMenuItems returns one menu's item tree for a locale.
func (mc *MenuController) GetMenuItems(ctx *fiber.Ctx) error {
	menuID, err := menuIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_menu_id"})
	}

	items, err := mc.Service.ListItems(menuID, ctx.Query("locale"))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": items})
}

type copyMenuItemsRequest struct {
	FromMenuID uint   `json:"fromMenuId" validate:"required"`
	ToMenuID   uint   `json:"toMenuId" validate:"required"`
	FromLocale string `json:"fromLocale" validate:"required"`
	ToLocale   string `json:"toLocale" validate:"required"`
}

// CopyMenuItemsToMenu clones one menu's root forest into another menu,
// possibly remapping the locale.
func (mc *MenuController) CopyMenuItemsToMenu(ctx *fiber.Ctx) error {
	var req copyMenuItemsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	err := mc.Service.CopyToMenu(req.FromMenuID, req.ToMenuID, req.FromLocale, req.ToLocale, actorFrom(ctx))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}

type reorderRequest struct {
	MenuItems []services.TreeEntry `json:"menuItems" validate:"required"`
}

// ReorderMenuItems commits a drag-and-drop tree snapshot for one menu and
// locale.
func (mc *MenuController) ReorderMenuItems(ctx *fiber.Ctx) error {
	menuID, err := menuIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_menu_id"})
	}

	var req reorderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	err = mc.Service.ReorderTree(menuID, ctx.Query("locale"), req.MenuItems, actorFrom(ctx))
	if err != nil {
		return respondServiceError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true})
}

// GetMenuItemTypes renders the registered item types for one menu and
// locale, resolving each type's option list.
func (mc *MenuController) GetMenuItemTypes(ctx *fiber.Ctx) error {
	menuID, err := menuIDParam(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid_menu_id"})
	}

	menu, err := mc.Service.GetMenu(menuID)
	if err != nil {
		return respondServiceError(ctx, err)
	}
	locale := ctx.Query("locale")
	if locale == "" {
		return respondServiceError(ctx, services.ErrLocaleRequired)
	}

	var out []fiber.Map
	for _, descriptor := range mc.Registry.ForMenu(menu.Slug) {
		entry := fiber.Map{
			"name":    descriptor.Name,
			"type":    descriptor.Type,
			"default": descriptor.IsDefault,
			"fields":  descriptor.Fields,
		}
		if descriptor.Options != nil {
			entry["options"] = descriptor.Options(locale)
		}
		out = append(out, entry)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": out})
}
