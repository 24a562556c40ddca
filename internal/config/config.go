package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Storage struct {
		DataDir string `yaml:"data_dir" env:"STORAGE_DATA_DIR"`
	} `yaml:"storage"`

	Academic struct {
		Year             string   `yaml:"year" env:"ACADEMIC_YEAR"`
		DefaultSemesters []string `yaml:"default_semesters"`
	} `yaml:"academic"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Storage.DataDir = "data"

	// Year defaults to the current calendar year. One database file per
	// academic year keeps old years portable.
	config.Academic.Year = strconv.Itoa(time.Now().Year())
	config.Academic.DefaultSemesters = []string{"Semester 1"}

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Storage.DataDir == "" {
		return fmt.Errorf("storage data dir is required")
	}
	if config.Academic.Year == "" {
		return fmt.Errorf("academic year is required")
	}
	if _, err := strconv.Atoi(config.Academic.Year); err != nil {
		return fmt.Errorf("academic year must be numeric: %w", err)
	}
	return nil
}

// DatabasePath returns the SQLite file path for the configured year.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, c.Academic.Year+".db")
}

// LegacyYearFilePath returns the pre-database JSON file location for the
// configured year, used by the one-shot import.
func (c *Config) LegacyYearFilePath() string {
	return filepath.Join(c.Storage.DataDir, c.Academic.Year+".json")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
