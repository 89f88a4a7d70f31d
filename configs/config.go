package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the API service. Values come from the
// environment, optionally preloaded from a .env file.
type Config struct {
	AppEnv     string
	ListenAddr string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSchema   string

	UploadDir      string
	FrontendOrigin string
}

const (
	defaultListenAddr = ":5000"
	defaultDBPort     = 5432
	defaultDBSchema   = "spock_schema"
)

// Load reads the configuration from the environment. A .env file in the
// working directory is honored when present but never required.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		ListenAddr:     getEnv("LISTEN_ADDR", defaultListenAddr),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnvInt("DB_PORT", defaultDBPort),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "spock"),
		DBSchema:       getEnv("DB_SCHEMA", defaultDBSchema),
		UploadDir:      getEnv("UPLOAD_DIR", filepath.Join(".", "uploads")),
		FrontendOrigin: getEnv("SPOCK_FRONTEND", "http://localhost:3000"),
	}
	return cfg
}

// DSN builds the Postgres connection string, pinning search_path to the
// application schema.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable search_path=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSchema,
	)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
