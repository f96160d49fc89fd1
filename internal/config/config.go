package config

import (
	"os"
	"strconv"
	"time"

	"goaffect/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig `validate:"required"`
	Analysis AnalysisConfig
	Source   SourceConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port                  string `validate:"required"`
	GinMode               string
	MaxConcurrentAnalyses int64
}

// AnalysisConfig holds the engine tunables. Defaults follow the analyzer
// definitions; env overrides exist for operational tuning, not semantics.
type AnalysisConfig struct {
	VolatilityWindowSize         int
	PercentileThreshold          float64
	TransitionMinDuration        int
	TransitionIntensityThreshold float64
}

// SourceConfig holds upstream classifier API settings. BaseURL empty means
// pull ingest is disabled and only direct/file input is served.
type SourceConfig struct {
	BaseURL   string
	APIKey    string
	DataPath  string
	FieldMap  FieldMapConfig
	Timeout   time.Duration
	PageLimit int
}

// FieldMapConfig names the JSON paths inside one classifier record
type FieldMapConfig struct {
	Timestamp string
	Session   string
	Emotion   string
	Intensity string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	config.Server = *loadServerConfig()
	config.Analysis = *loadAnalysisConfig()
	config.Source = *loadSourceConfig()

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:                  getEnvOrDefault("PORT", "8080"),
		GinMode:               getEnvOrDefault("GIN_MODE", "debug"),
		MaxConcurrentAnalyses: int64(getEnvIntOrDefault("MAX_CONCURRENT_ANALYSES", 4)),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		VolatilityWindowSize:         getEnvIntOrDefault("ANALYSIS_WINDOW_SIZE", 5),
		PercentileThreshold:          getEnvFloatOrDefault("ANALYSIS_PERCENTILE_THRESHOLD", 90),
		TransitionMinDuration:        getEnvIntOrDefault("ANALYSIS_MIN_DURATION", 2),
		TransitionIntensityThreshold: getEnvFloatOrDefault("ANALYSIS_INTENSITY_THRESHOLD", 0.3),
	}
}

func loadSourceConfig() *SourceConfig {
	return &SourceConfig{
		BaseURL:  getEnvOrDefault("CLASSIFIER_API_URL", ""),
		APIKey:   getEnvOrDefault("CLASSIFIER_API_KEY", ""),
		DataPath: getEnvOrDefault("CLASSIFIER_DATA_PATH", "data.records"),
		FieldMap: FieldMapConfig{
			Timestamp: getEnvOrDefault("CLASSIFIER_FIELD_TIMESTAMP", "timestamp"),
			Session:   getEnvOrDefault("CLASSIFIER_FIELD_SESSION", "session_id"),
			Emotion:   getEnvOrDefault("CLASSIFIER_FIELD_EMOTION", "emotion"),
			Intensity: getEnvOrDefault("CLASSIFIER_FIELD_INTENSITY", "intensity"),
		},
		Timeout:   getEnvDurationOrDefault("CLASSIFIER_TIMEOUT", 30*time.Second),
		PageLimit: getEnvIntOrDefault("CLASSIFIER_PAGE_LIMIT", 500),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Server.MaxConcurrentAnalyses < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_ANALYSES must be at least 1")
	}
	if config.Analysis.VolatilityWindowSize < 1 {
		return errors.ConfigInvalid("ANALYSIS_WINDOW_SIZE must be at least 1")
	}
	if config.Analysis.PercentileThreshold < 0 || config.Analysis.PercentileThreshold > 100 {
		return errors.ConfigInvalid("ANALYSIS_PERCENTILE_THRESHOLD must be within [0,100]")
	}
	if config.Analysis.TransitionMinDuration < 1 {
		return errors.ConfigInvalid("ANALYSIS_MIN_DURATION must be at least 1")
	}
	if config.Analysis.TransitionIntensityThreshold < 0 {
		return errors.ConfigInvalid("ANALYSIS_INTENSITY_THRESHOLD cannot be negative")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
