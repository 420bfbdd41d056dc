package logger

import "os"

// Config controls the logger's level, encoding and destination.
type Config struct {
	Level      string // "debug", "info", "warn", "error"
	Format     string // "json" or "console"
	OutputFile string // "stdout", "stderr" or a file path
}

func DefaultConfig() *Config {
	return &Config{
		Level:      getEnv("LOG_LEVEL", "info"),
		Format:     getEnv("LOG_FORMAT", "json"),
		OutputFile: getEnv("LOG_OUTPUT_FILE", "stdout"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
