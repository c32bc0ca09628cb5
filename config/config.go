package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Matching  MatchingConfig
	Lexicon   LexiconConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MatchingConfig holds the scoring and ranking knobs
type MatchingConfig struct {
	MinScore           float64 `mapstructure:"min_score"`
	FatTolerancePct    int     `mapstructure:"fat_tolerance_pct"`
	PackTolerance      float64 `mapstructure:"pack_tolerance"`
	TopN               int     `mapstructure:"top_n"`
	Workers            int     `mapstructure:"workers"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// LexiconConfig holds lexicon data source configuration
type LexiconConfig struct {
	// Dir points at an external lexicon directory; empty means the
	// embedded defaults.
	Dir string `mapstructure:"dir"`
}

// CacheConfig holds signature cache configuration
type CacheConfig struct {
	SignatureSize int `mapstructure:"signature_size"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Burst int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/provimatch/")

	// Environment variable settings
	v.SetEnvPrefix("PROVIMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Matching defaults
	v.SetDefault("matching.min_score", 70.0)
	v.SetDefault("matching.fat_tolerance_pct", 2)
	v.SetDefault("matching.pack_tolerance", 0.10)
	v.SetDefault("matching.top_n", 20)
	v.SetDefault("matching.workers", 0) // 0 = NumCPU
	v.SetDefault("matching.enable_debug_logging", false)

	// Lexicon defaults; empty dir means the embedded data
	v.SetDefault("lexicon.dir", "")

	// Cache defaults
	v.SetDefault("cache.signature_size", 4096)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 50)
	v.SetDefault("ratelimit.burst", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Matching.MinScore < 0 || config.Matching.MinScore > 100 {
		return fmt.Errorf("matching.min_score must be between 0 and 100, got: %v", config.Matching.MinScore)
	}

	if config.Matching.PackTolerance < 0 || config.Matching.PackTolerance >= 1 {
		return fmt.Errorf("matching.pack_tolerance must be in [0, 1), got: %v", config.Matching.PackTolerance)
	}

	if config.Matching.FatTolerancePct < 0 {
		return fmt.Errorf("matching.fat_tolerance_pct must be non-negative, got: %d", config.Matching.FatTolerancePct)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
