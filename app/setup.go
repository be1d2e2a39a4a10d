package app

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/scholarsknowledge/api/api"
	"github.com/scholarsknowledge/api/config"
	"github.com/scholarsknowledge/api/database"
	"github.com/scholarsknowledge/api/router"
	"github.com/scholarsknowledge/api/services"
	"github.com/scholarsknowledge/api/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to run database migrations\n")
		return err
	}

	// Retention sweeps (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		db := store.GetDB()
		cronManager = cron.NewCronManager(db,
			services.NewContactService(db),
			services.NewMessageService(db),
			services.NewTokenService(db, getEnv.APP_BASE_URL),
		)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Attach Middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Setup Routes
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
