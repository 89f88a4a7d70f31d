package seeders

import (
	"errors"

	"spock.link/configs/configslog"
	"spock.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedWelcomeCampaign creates a starter campaign with one banner so a fresh
// install has something to render. Skipped as soon as any campaign exists.
func SeedWelcomeCampaign(db *gorm.DB) error {
	var existing models.Campaign
	result := db.First(&existing)

	if result.Error == nil {
		configslog.SLog.Debug("Campaigns already present, skipping welcome seed.")
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Database error while checking campaigns", zap.Error(result.Error))
		return result.Error
	}

	campaign := models.Campaign{
		Name:   "Welcome",
		Active: true,
		Contents: []models.Content{
			{
				ContentType: models.ContentTypeBanner,
				Title:       "Welcome to Spock Admin",
				Subtitle:    "Manage campaigns and their content here",
				Order:       0,
			},
		},
	}

	if err := db.Create(&campaign).Error; err != nil {
		configslog.Log.Error("Could not create welcome campaign", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Welcome campaign seeded (ID: %d).", campaign.ID)
	return nil
}
