package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	Scheme          string
	RatioThreshold  float64
	ProviderURL     string
	ProviderTimeout time.Duration
	Language        string
	PHIThreshold    float64
	DataPath        string
	Port            int
	LogLevel        string
}

type ConfigFile struct {
	Fairness struct {
		Scheme         string  `yaml:"scheme"`
		RatioThreshold float64 `yaml:"ratioThreshold"`
	} `yaml:"fairness"`

	PHI struct {
		ProviderURL string  `yaml:"providerURL"`
		Timeout     string  `yaml:"timeout"`
		Language    string  `yaml:"language"`
		Threshold   float64 `yaml:"threshold"`
	} `yaml:"phi"`

	System struct {
		DataPath string `yaml:"dataPath"`
		Port     int    `yaml:"port"`
		LogLevel string `yaml:"logLevel"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}

	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	timeout, err := time.ParseDuration(config.PHI.Timeout)
	if err != nil {
		timeout = 10 * time.Second
	}

	settings := Settings{
		Scheme:          getEnvOrDefault("FAIRNESS_SCHEME", orDefault(config.Fairness.Scheme, "ratio")),
		RatioThreshold:  getFloatFromEnvOrConfig("RATIO_THRESHOLD", config.Fairness.RatioThreshold, 0.8),
		ProviderURL:     getEnvOrDefault("PHI_PROVIDER_URL", orDefault(config.PHI.ProviderURL, "http://localhost:5001")),
		ProviderTimeout: timeout,
		Language:        getEnvOrDefault("PHI_LANGUAGE", orDefault(config.PHI.Language, "en")),
		PHIThreshold:    getFloatFromEnvOrConfig("PHI_THRESHOLD", config.PHI.Threshold, 0.5),
		DataPath:        getEnvOrDefault("DATA_PATH", config.System.DataPath),
		Port:            getIntFromEnvOrConfig("PORT", config.System.Port, 8080),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", orDefault(config.System.LogLevel, "info")),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		Scheme:          getEnvOrDefault("FAIRNESS_SCHEME", "ratio"),
		RatioThreshold:  getFloatOrDefault("RATIO_THRESHOLD", 0.8),
		ProviderURL:     getEnvOrDefault("PHI_PROVIDER_URL", "http://localhost:5001"),
		ProviderTimeout: getDurationOrDefault("PHI_TIMEOUT", 10*time.Second),
		Language:        getEnvOrDefault("PHI_LANGUAGE", "en"),
		PHIThreshold:    getFloatOrDefault("PHI_THRESHOLD", 0.5),
		DataPath:        os.Getenv("DATA_PATH"), // optional
		Port:            getIntOrDefault("PORT", 8080),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getFloatFromEnvOrConfig(key string, configValue, defaultValue float64) float64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseFloat(env, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.Scheme != "difference" && settings.Scheme != "ratio" {
		return fmt.Errorf("scheme must be \"difference\" or \"ratio\", got %q", settings.Scheme)
	}

	if settings.RatioThreshold <= 0 || settings.RatioThreshold > 1 {
		return fmt.Errorf("ratio threshold must be in (0, 1], got %f", settings.RatioThreshold)
	}
	if settings.PHIThreshold < 0 || settings.PHIThreshold > 1 {
		return fmt.Errorf("PHI confidence threshold must be in [0, 1], got %f", settings.PHIThreshold)
	}

	if settings.ProviderURL == "" {
		return fmt.Errorf("provider URL cannot be empty")
	}
	if settings.ProviderTimeout < time.Second || settings.ProviderTimeout > time.Minute {
		return fmt.Errorf("provider timeout must be between 1s and 1m, got %v", settings.ProviderTimeout)
	}

	if settings.Port < 1024 || settings.Port > 65535 {
		return fmt.Errorf("port must be between 1024 and 65535, got %d", settings.Port)
	}

	return nil
}
