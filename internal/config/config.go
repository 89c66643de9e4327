package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for the persisted application state.
const (
	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging configuration
	LogFormat string // "json" or "pretty"
	LogLevel  string

	// State storage configuration
	StoreBackend string // "file" or "postgres"
	DataDir      string
	PostgresURL  string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 30)) * time.Second,

		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		StoreBackend: strings.ToLower(getEnvString("STORE_BACKEND", StoreBackendFile)),
		DataDir:      getEnvString("DATA_DIR", "./data"),
		PostgresURL:  os.Getenv("POSTGRES_DB_URL"),
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks configuration values and logs warnings for anything suspicious
func validateConfig(config *Config) {
	if config.StoreBackend != StoreBackendFile && config.StoreBackend != StoreBackendPostgres {
		log.Printf("Unknown STORE_BACKEND %q, falling back to %q", config.StoreBackend, StoreBackendFile)
		config.StoreBackend = StoreBackendFile
	}

	if config.StoreBackend == StoreBackendPostgres && config.PostgresURL == "" {
		log.Println("Warning: STORE_BACKEND is postgres but POSTGRES_DB_URL is not set. Startup will fail.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
