package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"furigana/kana"
	"furigana/render"
	"furigana/tokenize"
)

// Config holds all application configuration
type Config struct {
	Analyzer AnalyzerConfig
	Output   OutputConfig
	Log      LogConfig
	Server   ServerConfig
}

// AnalyzerConfig holds morphological analysis and reading conversion settings
type AnalyzerConfig struct {
	Dict           string
	Converter      string
	PreserveSpaces bool
	CacheTTL       time.Duration
	Workers        int
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	Format  string
	DumpDir string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			Dict:           getEnv("FURIGANA_DICT", "ipa"),
			Converter:      getEnv("FURIGANA_CONVERTER", "table"),
			PreserveSpaces: getEnvAsBool("FURIGANA_PRESERVE_SPACES", true),
			CacheTTL:       getEnvAsDuration("FURIGANA_CACHE_TTL", 10*time.Minute),
			Workers:        getEnvAsInt("FURIGANA_WORKERS", 4),
		},
		Output: OutputConfig{
			Format:  getEnv("FURIGANA_FORMAT", "html"),
			DumpDir: getEnv("FURIGANA_DUMP_DIR", ""),
		},
		Log: LogConfig{
			Level:  getEnv("FURIGANA_LOG_LEVEL", "warn"),
			Format: getEnv("FURIGANA_LOG_FORMAT", "text"),
		},
		Server: ServerConfig{
			Addr:           getEnv("FURIGANA_ADDR", ":8080"),
			AllowedOrigins: []string{getEnv("FURIGANA_ALLOWED_ORIGIN", "*")},
		},
	}
}

// Validate checks that every named component exists.
func (c *Config) Validate() error {
	var errs []error
	if _, err := kana.ConverterByName(c.Analyzer.Converter); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ByName(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := tokenize.DictName(c.Analyzer.Dict); err != nil {
		errs = append(errs, err)
	}
	if c.Analyzer.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Analyzer.Workers))
	}
	if c.Analyzer.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache ttl must not be negative, got %s", c.Analyzer.CacheTTL))
	}
	return errors.Join(errs...)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
