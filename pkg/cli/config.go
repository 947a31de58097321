// Package cli provides CLI-specific logic including configuration loading.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the configuration file and home directory.
const (
	DefaultConfigName = ".heft"
	DefaultConfigDir  = "~/.heft"
	DefaultDBName     = "history.db"
	EnvPrefix         = "HEFT"
)

// Config represents the .heft.yml configuration file.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	AI      AIConfig      `mapstructure:"ai"`
	Server  ServerConfig  `mapstructure:"server"`
	Report  ReportConfig  `mapstructure:"report"`
	History HistoryConfig `mapstructure:"history"`
}

// GitHubConfig selects the API endpoint and default ref.
type GitHubConfig struct {
	APIURL string `mapstructure:"api_url"`
	Ref    string `mapstructure:"ref"`
}

// AIConfig holds configuration for the report narrator.
type AIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Provider    string        `mapstructure:"provider"`
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ResolveAPIKey returns the inline key, or the value of the configured env var.
func (a AIConfig) ResolveAPIKey() string {
	if a.APIKey != "" {
		return a.APIKey
	}
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

// ServerConfig is the default target server.
type ServerConfig struct {
	CPU int `mapstructure:"cpu"`
	RAM int `mapstructure:"ram"`
}

// ReportConfig controls report generation and output.
type ReportConfig struct {
	Format        string `mapstructure:"format"`
	TopFileTypes  int    `mapstructure:"top_file_types"`
	Fallback      bool   `mapstructure:"fallback"`
	ContextBudget int    `mapstructure:"context_budget"`
	CommitLimit   int    `mapstructure:"commit_limit"`
	FailOn        string `mapstructure:"fail_on"`
}

// HistoryConfig controls the local report history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_url", "https://api.github.com/")
	v.SetDefault("github.ref", "")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "anthropic")
	v.SetDefault("ai.endpoint", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.api_key_env", "HEFT_AI_API_KEY")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.timeout", 60*time.Second)

	v.SetDefault("server.cpu", 2)
	v.SetDefault("server.ram", 4)

	v.SetDefault("report.format", "terminal")
	v.SetDefault("report.top_file_types", 10)
	v.SetDefault("report.fallback", true)
	v.SetDefault("report.context_budget", 4000)
	v.SetDefault("report.commit_limit", 10)
	v.SetDefault("report.fail_on", "")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", filepath.Join(DefaultConfigDir, DefaultDBName))
}

// LoadConfig reads configuration from path, or from .heft.yml in the current
// directory or the heft home directory when path is empty. A missing default
// file yields the defaults; a missing explicit file is an error.
// HEFT_* environment variables override file values, e.g. HEFT_AI_MODEL.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(ExpandPath(path))
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ExpandPath(DefaultConfigDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cli: reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cli: parsing config: %w", err)
	}

	cfg.History.Path = ExpandPath(cfg.History.Path)

	// a key in the environment turns the narrator on without a config file
	if !cfg.AI.Enabled && cfg.AI.ResolveAPIKey() != "" {
		cfg.AI.Enabled = true
		slog.Debug("narrator auto-enabled (API key detected)")
	}

	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.History.Path = ExpandPath(cfg.History.Path)
	return &cfg
}

// HomeDir returns the expanded heft home directory.
func HomeDir() string {
	return ExpandPath(DefaultConfigDir)
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
