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

func SetupMenuItemRoutes(app *fiber.App, db *gorm.DB, log *zap.Logger, registry *itemtypes.Registry) {
	itemController := controllers.NewMenuItemController(db, log, registry)

	api := app.Group(
		config.MAIN_ROUTES+"/items",
		middleware.AuthMiddleware,
	)

	api.Post("/", itemController.CreateMenuItem)
	api.Get("/:id", itemController.GetMenuItem)
	api.Put("/:id", itemController.UpdateMenuItem)
	api.Delete("/:id", itemController.DeleteMenuItem)
	api.Post("/:id/duplicate", itemController.DuplicateMenuItem)
}
