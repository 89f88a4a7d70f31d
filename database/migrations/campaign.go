package migrations

import (
	"spock.link/configs/configslog"
	"spock.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateCampaignsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating campaigns table...")
	err := db.AutoMigrate(&models.Campaign{})
	if err != nil {
		configslog.Log.Error("Failed to migrate campaigns table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Campaigns table migrated successfully")
	return nil
}
