// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default endpoints for the hosted assistant platform. The webhook receives
// wizard submissions; the API base serves assistant, session and chat calls.
const (
	DefaultWebhookURL = "https://builderbid.app.n8n.cloud/webhook/vapi-create-assistant"
	DefaultAPIBase    = "https://api.vapi.ai"
)

// Config holds all configuration values for voicedeck.
type Config struct {
	APIKey        string `mapstructure:"api_key" yaml:"api_key"`                 // private key, bearer auth for REST calls
	PublicKey     string `mapstructure:"public_key" yaml:"public_key"`           // public key, voice call transport
	WebhookURL    string `mapstructure:"webhook_url" yaml:"webhook_url"`         // wizard submission endpoint
	APIBase       string `mapstructure:"api_base" yaml:"api_base"`               // platform REST base URL
	OAuthClientID string `mapstructure:"oauth_client_id" yaml:"oauth_client_id"` // Google OAuth client for calendar access
	CallbackPort  int    `mapstructure:"callback_port" yaml:"callback_port"`     // localhost OAuth callback listener
	DataDir       string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	LogFile       string `mapstructure:"log_file" yaml:"log_file"`
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
//
// A .env file in the working directory is loaded first so that API keys can
// live outside the YAML config.
func Load() (*Config, error) {
	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("voicedeck")

	// Set defaults (api_key and public_key have no default - they're required
	// for platform calls and checked at the call sites)
	v.SetDefault("api_key", "")
	v.SetDefault("public_key", "")
	v.SetDefault("webhook_url", DefaultWebhookURL)
	v.SetDefault("api_base", DefaultAPIBase)
	v.SetDefault("oauth_client_id", "")
	v.SetDefault("callback_port", 8484)
	v.SetDefault("data_dir", ".voicedeck")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	// Setup ENV binding with VOICEDECK_ prefix
	v.SetEnvPrefix("VOICEDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings for better parsing.
	// Note: BindEnv errors are very rare (only invalid key names), but we check them anyway
	bindings := map[string]string{
		"api_key":         "VOICEDECK_API_KEY",
		"public_key":      "VOICEDECK_PUBLIC_KEY",
		"webhook_url":     "VOICEDECK_WEBHOOK_URL",
		"api_base":        "VOICEDECK_API_BASE",
		"oauth_client_id": "VOICEDECK_OAUTH_CLIENT_ID",
		"callback_port":   "VOICEDECK_CALLBACK_PORT",
		"data_dir":        "VOICEDECK_DATA_DIR",
		"log_level":       "VOICEDECK_LOG_LEVEL",
		"log_file":        "VOICEDECK_LOG_FILE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		// Need to set config file explicitly for merge
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/voicedeck/voicedeck.yml or $XDG_CONFIG_HOME/voicedeck/voicedeck.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "voicedeck", "voicedeck.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "voicedeck", "voicedeck.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./voicedeck.yml in the current working directory.
func ProjectPath() string {
	return "voicedeck.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	path := ProjectPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
