/*
Package config manages the TOML config for typesearch.

	[feed]
	url = "https://typespublisher.blob.core.windows.net/typespublisher/data/search-index-min.json"
	timeout_sec = 20
	max_retries = 2
	cache_ttl_min = 1440
	offline = false

	[search]
	limit = 0
	fold_case = false
	namespace = "@types/"
	suggestions = 5

	[server]
	max_limit = 64
	max_term_len = 214

	[log]
	level = "warn"
	format = "text"
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/typesearch/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Feed   FeedConfig   `toml:"feed"`
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// FeedConfig controls where the index comes from and how long it is cached.
type FeedConfig struct {
	URL         string `toml:"url"`
	TimeoutSec  int    `toml:"timeout_sec"`
	MaxRetries  int    `toml:"max_retries"`
	CacheTTLMin int    `toml:"cache_ttl_min"`
	Offline     bool   `toml:"offline"`
}

// SearchConfig holds lookup options.
type SearchConfig struct {
	Limit       int    `toml:"limit"`
	FoldCase    bool   `toml:"fold_case"`
	Namespace   string `toml:"namespace"`
	Suggestions int    `toml:"suggestions"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit   int `toml:"max_limit"`
	MaxTermLen int `toml:"max_term_len"`
}

// LogConfig selects log level and formatter.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Timeout returns the fetch timeout.
func (f FeedConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// CacheTTL returns how long a cached index stays fresh.
func (f FeedConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLMin) * time.Minute
}

// GetDefaultConfigPath returns the path of config.toml in the platform config
// dir ($XDG_CONFIG_HOME/typesearch, %APPDATA%\typesearch, ...), falling back to
// ~/.typesearch when that dir is not writable.
func GetDefaultConfigPath() (string, error) {
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to initialize path resolver: %v", err)
		return "", err
	}
	return pathResolver.GetConfigPath("config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/typesearch/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:         "https://typespublisher.blob.core.windows.net/typespublisher/data/search-index-min.json",
			TimeoutSec:  20,
			MaxRetries:  2,
			CacheTTLMin: 24 * 60,
			Offline:     false,
		},
		Search: SearchConfig{
			Limit:       0,
			FoldCase:    false,
			Namespace:   "@types/",
			Suggestions: 5,
		},
		Server: ServerConfig{
			MaxLimit:   64,
			MaxTermLen: 214,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps whatever sections of a broken file still parse.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "feed"); ok {
		extractFeedConfig(section, &config.Feed)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		extractLogConfig(section, &config.Log)
	}
	return config, nil
}

func extractFeedConfig(data map[string]any, feed *FeedConfig) {
	if val, ok := utils.ExtractString(data, "url"); ok {
		feed.URL = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_sec"); ok {
		feed.TimeoutSec = val
	}
	if val, ok := utils.ExtractInt64(data, "max_retries"); ok {
		feed.MaxRetries = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_ttl_min"); ok {
		feed.CacheTTLMin = val
	}
	if val, ok := utils.ExtractBool(data, "offline"); ok {
		feed.Offline = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		search.Limit = val
	}
	if val, ok := utils.ExtractBool(data, "fold_case"); ok {
		search.FoldCase = val
	}
	if val, ok := utils.ExtractString(data, "namespace"); ok {
		search.Namespace = val
	}
	if val, ok := utils.ExtractInt64(data, "suggestions"); ok {
		search.Suggestions = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_term_len"); ok {
		server.MaxTermLen = val
	}
}

func extractLogConfig(data map[string]any, logCfg *LogConfig) {
	if val, ok := utils.ExtractString(data, "level"); ok {
		logCfg.Level = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		logCfg.Format = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
