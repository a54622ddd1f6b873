package main

import (
	"fmt"
	"log"

	"menu-app/config"
	"menu-app/controllers/idgen"
	"menu-app/database"
	"menu-app/itemtypes"
	"menu-app/logger"
	"menu-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	zapLog, err := logger.NewLogger(config.LogLevel, config.LogFormat)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLog.Sync()

	// Connect to database
	db, err := database.OpenConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	// Item types are registered once here and handed to the controllers;
	// the tree engine itself never consults them.
	registry := itemtypes.Default()

	// Setup CORS middleware
	config.SetupCORS(app)

	// Setup routes
	routes.SetupMenuRoutes(app, db, zapLog, registry)
	routes.SetupMenuItemRoutes(app, db, zapLog, registry)

	port := config.APP_PORT
	fmt.Println("🚀 Server listening on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}

}
