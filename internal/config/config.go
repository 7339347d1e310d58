// Package config loads runtime configuration from the environment.
//
// Values may come from a .env file in the working directory; variables that
// are already set take precedence over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/easyocr-go/internal/logging"
)

// Region modes accepted by EASYOCR_REGION_MODE.
const (
	RegionModeDetector = "detector"
	RegionModeContent  = "content"
)

// Config holds runtime configuration.
type Config struct {
	// Model directory holding EasyOCRDetector.onnx and EasyOCRRecognizer.onnx.
	// Character set files live in the sibling "character" directory.
	ModelDir string

	// Recognition language tag.
	Language string

	// ONNX Runtime shared library path. Empty uses the platform default.
	ORTLibrary string

	// Intra-op threads for each session. Zero keeps the engine default.
	Threads int

	// Region mode: "detector" or "content".
	RegionMode string

	// Log level: debug, info, warn or error.
	LogLevel string

	// Tesseract language for the baseline comparison.
	BaselineLanguage string
}

// LoadDotEnv loads the named files (".env" when none are given) into the
// environment. Missing files are not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	var present []string
	for _, f := range filenames {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ModelDir:         getEnvOrDefault("EASYOCR_MODEL_DIR", "models"),
		Language:         getEnvOrDefault("EASYOCR_LANG", "en"),
		ORTLibrary:       getEnvOrDefault("EASYOCR_ORT_LIB", ""),
		Threads:          getEnvAsIntOrDefault("EASYOCR_THREADS", 0),
		RegionMode:       strings.ToLower(getEnvOrDefault("EASYOCR_REGION_MODE", RegionModeDetector)),
		LogLevel:         getEnvOrDefault("EASYOCR_LOG_LEVEL", "info"),
		BaselineLanguage: getEnvOrDefault("EASYOCR_BASELINE_LANG", "eng"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.ModelDir == "" {
		return fmt.Errorf("EASYOCR_MODEL_DIR is required")
	}

	if c.Language == "" {
		return fmt.Errorf("EASYOCR_LANG is required")
	}

	if c.Threads < 0 || c.Threads > 256 {
		return fmt.Errorf("EASYOCR_THREADS must be between 0 and 256, got %d", c.Threads)
	}

	if c.RegionMode != RegionModeDetector && c.RegionMode != RegionModeContent {
		return fmt.Errorf("EASYOCR_REGION_MODE must be %q or %q, got %q", RegionModeDetector, RegionModeContent, c.RegionMode)
	}

	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("EASYOCR_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}

	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default.
// Unparseable values become -1 so Validate reports them.
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return -1
	}

	return value
}
