package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the structured logger, SLog its sugared twin. Both are safe to use
// after InitLogger has run.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

// InitLogger builds the global loggers. Production mode (APP_ENV=production)
// emits JSON, everything else gets the console encoder.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		// Without a logger there is nothing sensible left to do.
		panic("failed to initialize zap logger: " + err.Error())
	}

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered log entries. Call it via defer from main.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
