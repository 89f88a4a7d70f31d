package main

import (
	"os"
	"os/signal"
	"syscall"

	"spock.link/configs"
	"spock.link/configs/configsdatabase"
	"spock.link/configs/configslog"
	"spock.link/database"
	"spock.link/routes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configs.Load()

	configsdatabase.InitDB(cfg)
	defer configsdatabase.CloseDB()

	// Schema is kept current on boot; seeding stays behind the database CLI.
	database.Initialize(configsdatabase.GetDB(), true, false)

	app := fiber.New(fiber.Config{
		AppName:               "Spock Admin API",
		DisableStartupMessage: cfg.IsProduction(),
	})

	routes.SetupRoutes(app, cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("Shutdown signal received, draining connections...")
		if err := app.Shutdown(); err != nil {
			configslog.Log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	configslog.SLog.Infof("Spock Admin API listening on %s", cfg.ListenAddr)
	if err := app.Listen(cfg.ListenAddr); err != nil {
		configslog.Log.Fatal("Server stopped unexpectedly", zap.Error(err))
	}
}
