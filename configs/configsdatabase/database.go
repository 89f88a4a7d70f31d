package configsdatabase

import (
	"context"
	"time"

	"spock.link/configs"
	"spock.link/configs/configslog"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the GORM connection pool. Postgres may still be coming up when
// the service starts, so the dial is retried with exponential backoff.
func InitDB(cfg *configs.Config) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if !cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	open := func() (*gorm.DB, error) {
		conn, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			configslog.Log.Warn("Database not reachable yet, retrying",
				zap.String("host", cfg.DBHost), zap.Error(err))
			return nil, err
		}
		return conn, nil
	}

	conn, err := backoff.Retry(context.Background(), open,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(10),
	)
	if err != nil {
		configslog.Log.Fatal("Could not connect to the database", zap.Error(err))
		return
	}

	sqlDB, err := conn.DB()
	if err != nil {
		configslog.Log.Fatal("Could not access the underlying sql.DB", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = conn
	configslog.SLog.Infof("Connected to database %q on %s:%d", cfg.DBName, cfg.DBHost, cfg.DBPort)
}

// GetDB returns the shared connection pool. InitDB must have run first.
func GetDB() *gorm.DB {
	return db
}

// CloseDB closes the underlying connection pool.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Could not access sql.DB during shutdown", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Error closing the database connection", zap.Error(err))
	}
}
