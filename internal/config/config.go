package config

import (
	"os"
	"strconv"
	"time"

	"csvlens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Upload    UploadConfig
	Logging   LoggingConfig
	Profiling ProfilingConfig
}

// ServerConfig holds dashboard web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// APIConfig holds JSON API settings; an empty port leaves the API off in the dashboard binary
type APIConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// UploadConfig bounds what a single upload may contain
type UploadConfig struct {
	MaxUploadMB int
	PreviewRows int
}

// MaxBytes returns the upload limit in bytes
func (u UploadConfig) MaxBytes() int64 {
	return int64(u.MaxUploadMB) * 1024 * 1024
}

// LoggingConfig holds log verbosity
type LoggingConfig struct {
	Level string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		API:       *loadAPIConfig(),
		Upload:    *loadUploadConfig(),
		Logging:   *loadLoggingConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadAPIConfig() *APIConfig {
	return &APIConfig{
		Port:           getEnvOrDefault("API_PORT", ""),
		RequestTimeout: getEnvDurationOrDefault("API_REQUEST_TIMEOUT", 60*time.Second),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 5),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.API.Port != "" {
		if _, err := strconv.Atoi(config.API.Port); err != nil {
			return errors.ConfigInvalid("API_PORT must be numeric")
		}
		if config.API.Port == config.Server.Port {
			return errors.ConfigInvalid("API_PORT must differ from PORT")
		}
	}
	if config.Upload.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Upload.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
