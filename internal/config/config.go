package config

import (
	"os"
	"strconv"
	"strings"

	"wearprep/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Data         DataConfig
	Demographics DemographicsConfig
	Batch        BatchConfig
	Database     DatabaseConfig
	Output       OutputConfig
	LogLevel     string
}

// DataConfig locates the per-participant sensor files
type DataConfig struct {
	Dir          string
	Participants []string
	Sensors      []string
}

// DemographicsConfig describes the users info table
type DemographicsConfig struct {
	UsersInfoFile string
	FooterRows    int
	NAPlaceholder string
}

// BatchConfig holds batch cleaning settings
type BatchConfig struct {
	Workers int
}

// DatabaseConfig holds database connection settings. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL string
}

// OutputConfig holds export destinations. Empty paths disable the export.
type OutputConfig struct {
	XLSXFile   string
	ReportHTML string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			Dir:          getEnvOrDefault("DATA_DIR", "dataset/wearables"),
			Participants: getEnvListOrDefault("PARTICIPANTS", nil),
			Sensors:      getEnvListOrDefault("SENSORS", []string{"ACC", "BVP", "EDA", "HR", "IBI", "TEMP"}),
		},
		Demographics: DemographicsConfig{
			UsersInfoFile: getEnvOrDefault("USERS_INFO_FILE", ""),
			FooterRows:    getEnvIntOrDefault("USERS_INFO_FOOTER_ROWS", 10),
			NAPlaceholder: getEnvOrDefault("NA_PLACEHOLDER", "-"),
		},
		Batch: BatchConfig{
			Workers: getEnvIntOrDefault("CLEAN_WORKERS", 4),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Output: OutputConfig{
			XLSXFile:   getEnvOrDefault("OUTPUT_XLSX", ""),
			ReportHTML: getEnvOrDefault("REPORT_HTML", ""),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// LoadWithEnvFile loads variables from an .env file, without overriding ones
// already set, then calls Load. A missing file is not an error.
func LoadWithEnvFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read "+path)
	}
	return Load()
}

func validateConfig(config *Config) error {
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("DATA_DIR is required")
	}
	if config.Batch.Workers <= 0 {
		return errors.ConfigInvalid("CLEAN_WORKERS must be positive")
	}
	if config.Demographics.FooterRows < 0 {
		return errors.ConfigInvalid("USERS_INFO_FOOTER_ROWS cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
