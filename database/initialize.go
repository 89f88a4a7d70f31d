package database

import (
	"spock.link/configs/configslog"
	"spock.link/database/migrations"
	"spock.link/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Initialize runs migrations and seeders inside a single transaction.
func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Could not start database transaction", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Database initialization failed (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Rolling back after initialization error.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Additional error during rollback", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Database initialization starting...")

	if migrate {
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migration failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrations completed.")
	}

	if seed {
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding failed", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeders completed.")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit failed", zap.Error(err))
		return
	}

	configslog.SLog.Info("Database initialization finished successfully")
}

// RunMigrationsInOrder migrates parent tables before children so foreign keys
// can be created.
func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info(" -> Running campaign migrations...")
	if err := migrations.MigrateCampaignsTable(db); err != nil {
		configslog.Log.Error("Campaigns table migration failed", zap.Error(err))
		return err
	}

	configslog.SLog.Info(" -> Running content migrations...")
	if err := migrations.MigrateContentsTable(db); err != nil {
		configslog.Log.Error("Contents table migration failed", zap.Error(err))
		return err
	}

	configslog.SLog.Info("All migrations ran successfully.")
	return nil
}

// CheckAndRunSeeders runs the idempotent seeders.
func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info(" -> Running campaign seeder...")
	if err := seeders.SeedWelcomeCampaign(db); err != nil {
		configslog.Log.Error("Campaigns table could not be seeded", zap.Error(err))
		return err
	}

	configslog.SLog.Info("All seeders checked/ran successfully.")
	return nil
}
