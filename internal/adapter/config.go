package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Remote   RemoteConfig   `mapstructure:"remote"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Prefetch PrefetchConfig `mapstructure:"prefetch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RemoteConfig holds content service configuration
type RemoteConfig struct {
	URL            string `mapstructure:"url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// CacheConfig holds cache tuning
type CacheConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Dir             string `mapstructure:"dir"` // empty = memory-only
	ProjectTTLHours int    `mapstructure:"project_ttl_hours"`
	EpisodeTTLHours int    `mapstructure:"episode_ttl_hours"`
}

// ProjectTTL returns the project index TTL as a duration
func (c CacheConfig) ProjectTTL() time.Duration {
	return time.Duration(c.ProjectTTLHours) * time.Hour
}

// EpisodeTTL returns the episode detail TTL as a duration
func (c CacheConfig) EpisodeTTL() time.Duration {
	return time.Duration(c.EpisodeTTLHours) * time.Hour
}

// PrefetchConfig holds prefetch tuning
type PrefetchConfig struct {
	MaxBatch int `mapstructure:"max_batch"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			TimeoutSeconds: 30,
		},
		Cache: CacheConfig{
			Enabled:         true,
			Dir:             defaultCachePath(),
			ProjectTTLHours: 8,
			EpisodeTTLHours: 72,
		},
		Prefetch: PrefetchConfig{
			MaxBatch: 5,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "catchup", "catchup.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "catchup", "catchup.log")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "catchup", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "catchup", "cache")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "catchup")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "catchup")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("CATCHUP")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("remote.url", cfg.Remote.URL)
	viper.Set("remote.token", cfg.Remote.Token)
	viper.Set("remote.timeout_seconds", cfg.Remote.TimeoutSeconds)

	viper.Set("cache.enabled", cfg.Cache.Enabled)
	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("cache.project_ttl_hours", cfg.Cache.ProjectTTLHours)
	viper.Set("cache.episode_ttl_hours", cfg.Cache.EpisodeTTLHours)

	viper.Set("prefetch.max_batch", cfg.Prefetch.MaxBatch)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the remote URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Remote.URL != "" && c.Remote.Token != ""
}

// ClearCache removes all cached data on disk
func ClearCache(cfg *Config) error {
	if cfg.Cache.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Cache.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
