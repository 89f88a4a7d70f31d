package migrations

import (
	"spock.link/configs/configslog"
	"spock.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateContentsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating contents table...")
	err := db.AutoMigrate(&models.Content{})
	if err != nil {
		configslog.Log.Error("Failed to migrate contents table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Contents table migrated successfully")
	return nil
}
