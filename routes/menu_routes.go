package routes

import (
	"menu-app/config"
	"menu-app/controllers"
	"menu-app/itemtypes"
	"menu-app/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SetupMenuRoutes(app *fiber.App, db *gorm.DB, log *zap.Logger, registry *itemtypes.Registry) {
	menuController := controllers.NewMenuController(db, log, registry)
	exportController := controllers.NewMenuExportController(db, log)

	api := app.Group(
		config.MAIN_ROUTES+"/menus",
		middleware.AuthMiddleware,
	)

	api.Get("/", menuController.GetMenus)
	api.Post("/copy", menuController.CopyMenuItemsToMenu)
	api.Get("/:id/items", menuController.GetMenuItems)
	api.Post("/:id/items/reorder", menuController.ReorderMenuItems)
	api.Get("/:id/item-types", menuController.GetMenuItemTypes)
	api.Get("/:id/export", exportController.ExportExcel)
}
