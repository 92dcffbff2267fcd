// Package config provides configuration loading and validation for the inliner CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viant/inliner/transform"
)

// Sentinel validation errors.
var (
	ErrNoInline         = errors.New("no units to inline")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidCacheSize = errors.New("cache size must not be negative")
)

// Default configuration values.
const (
	EnvPrefix        = "INLINER"
	DefaultLogLevel  = "info"
	DefaultCacheSize = 4096
)

// Config holds all configuration of an inlining run.
type Config struct {
	Sources []string      `mapstructure:"sources"`
	Index   bool          `mapstructure:"index"`
	Inline  []string      `mapstructure:"inline"`
	Import  []string      `mapstructure:"import"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Markers MarkersConfig `mapstructure:"markers"`
	Output  OutputConfig  `mapstructure:"output"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig describes units known to exist without source.
type CatalogConfig struct {
	// URL locates an optional YAML catalog file
	URL        string   `mapstructure:"url"`
	Units      []string `mapstructure:"units"`
	Packages   []string `mapstructure:"packages"`
	NoDefaults bool     `mapstructure:"no_defaults"`
}

// MarkersConfig holds in-source marker tokens, an empty token disables its marker.
type MarkersConfig struct {
	Delete        string `mapstructure:"delete"`
	CommentToCode string `mapstructure:"comment_to_code"`
}

// Markers returns transform markers
func (m MarkersConfig) Markers() transform.Markers {
	return transform.Markers{Delete: m.Delete, CommentToCode: m.CommentToCode}
}

// OutputConfig holds output destinations, empty means stdout.
type OutputConfig struct {
	Code        string `mapstructure:"code"`
	Imports     string `mapstructure:"imports"`
	Statements  bool   `mapstructure:"statements"`
	Fingerprint bool   `mapstructure:"fingerprint"`
}

// CacheConfig holds locator cache configuration, zero size disables caching.
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// flagKeys maps configuration keys to command line flags
var flagKeys = map[string]string{
	"sources":            "source",
	"index":              "index",
	"inline":             "inline",
	"import":             "import",
	"catalog.url":        "catalog",
	"output.code":        "output",
	"output.imports":     "imports-output",
	"output.statements":  "statements",
	"output.fingerprint": "fingerprint",
	"cache.size":         "cache-size",
	"logging.level":      "log-level",
}

// LoadConfig loads configuration from defaults, config file, environment variables and flags, in increasing priority.
// flags may be nil, only changed flags override other sources.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".inliner")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for key, name := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := viperCfg.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %v: %w", name, err)
			}
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config
	if err := viperCfg.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// LogLevel returns parsed logging level
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ValidateInline checks that the run has something to inline
func (c *Config) ValidateInline() error {
	for _, name := range c.Inline {
		if strings.TrimSpace(name) != "" {
			return nil
		}
	}
	return ErrNoInline
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("sources", []string{})
	viperCfg.SetDefault("index", false)
	viperCfg.SetDefault("inline", []string{})
	viperCfg.SetDefault("import", []string{})
	viperCfg.SetDefault("catalog.url", "")
	viperCfg.SetDefault("catalog.units", []string{})
	viperCfg.SetDefault("catalog.packages", []string{})
	viperCfg.SetDefault("catalog.no_defaults", false)
	defaults := transform.DefaultMarkers()
	viperCfg.SetDefault("markers.delete", defaults.Delete)
	viperCfg.SetDefault("markers.comment_to_code", defaults.CommentToCode)
	viperCfg.SetDefault("output.code", "")
	viperCfg.SetDefault("output.imports", "")
	viperCfg.SetDefault("output.statements", false)
	viperCfg.SetDefault("output.fingerprint", false)
	viperCfg.SetDefault("cache.size", DefaultCacheSize)
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
}

func validateConfig(config *Config) error {
	if _, err := log.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}
	if config.Cache.Size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, config.Cache.Size)
	}
	return nil
}
