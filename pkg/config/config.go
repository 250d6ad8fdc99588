// Package config provides configuration loading and validation for gStats.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort      = errors.New("invalid server port")
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 1")
	ErrInvalidMaxLines  = errors.New("max lines per commit must not be negative")
	ErrInvalidTheme     = errors.New("theme must be light or dark")
)

// Default configuration values.
const (
	DefaultThreshold    = 0.7
	defaultPort         = 8080
	defaultHost         = "127.0.0.1"
	defaultOutput       = "gstats-report.html"
	defaultMappingsFile = "gstats-mappings.yaml"
	maxPort             = 65535
)

// Config holds all configuration for gStats.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository"`
	Identity   IdentityConfig   `mapstructure:"identity"`
	Report     ReportConfig     `mapstructure:"report"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// RepositoryConfig holds repository-specific configuration.
type RepositoryConfig struct {
	Path              string `mapstructure:"path"`
	MaxLinesPerCommit int    `mapstructure:"max_lines_per_commit"`
}

// IdentityConfig holds author identity resolution configuration.
type IdentityConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MappingsFile        string  `mapstructure:"mappings_file"`
}

// ReportConfig holds report output configuration.
type ReportConfig struct {
	Output string `mapstructure:"output"`
	Theme  string `mapstructure:"theme"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	Port         int           `mapstructure:"port"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("gstats")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/gstats")
	}

	viperCfg.SetEnvPrefix("GSTATS")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Repository defaults.
	viperCfg.SetDefault("repository.path", ".")
	viperCfg.SetDefault("repository.max_lines_per_commit", 0)

	// Identity defaults.
	viperCfg.SetDefault("identity.similarity_threshold", DefaultThreshold)
	viperCfg.SetDefault("identity.mappings_file", defaultMappingsFile)

	// Report defaults.
	viperCfg.SetDefault("report.output", defaultOutput)
	viperCfg.SetDefault("report.theme", "dark")

	// Server defaults.
	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.read_timeout", "30s")
	viperCfg.SetDefault("server.write_timeout", "60s")
	viperCfg.SetDefault("server.idle_timeout", "120s")

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
}

// validate validates the configuration.
func validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	if config.Identity.SimilarityThreshold < 0 || config.Identity.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidThreshold, config.Identity.SimilarityThreshold)
	}

	if config.Repository.MaxLinesPerCommit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxLines, config.Repository.MaxLinesPerCommit)
	}

	if config.Report.Theme != "light" && config.Report.Theme != "dark" {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, config.Report.Theme)
	}

	return nil
}
