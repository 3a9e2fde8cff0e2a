package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		got := GlobalPath()
		want := "/custom/config/voicedeck/voicedeck.yml"
		if got != want {
			t.Errorf("GlobalPath() = %v, want %v", got, want)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		os.Unsetenv("XDG_CONFIG_HOME")
		got := GlobalPath()
		if !filepath.IsAbs(got) {
			t.Errorf("GlobalPath() should return absolute path, got %v", got)
		}
		if filepath.Base(got) != "voicedeck.yml" {
			t.Errorf("GlobalPath() should end with voicedeck.yml, got %v", got)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	// Run from an empty dir so no project config or .env leaks in.
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.WebhookURL != DefaultWebhookURL {
		t.Errorf("expected default webhook URL, got %q", cfg.WebhookURL)
	}
	if cfg.APIBase != DefaultAPIBase {
		t.Errorf("expected default API base, got %q", cfg.APIBase)
	}
	if cfg.DataDir != ".voicedeck" {
		t.Errorf("expected default data dir .voicedeck, got %q", cfg.DataDir)
	}
	if cfg.CallbackPort != 8484 {
		t.Errorf("expected default callback port 8484, got %d", cfg.CallbackPort)
	}
	if cfg.APIKey != "" {
		t.Errorf("api_key should have no default, got %q", cfg.APIKey)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VOICEDECK_API_KEY", "sk-test-123")
	t.Setenv("VOICEDECK_WEBHOOK_URL", "https://example.com/hook")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIKey != "sk-test-123" {
		t.Errorf("expected env api key, got %q", cfg.APIKey)
	}
	if cfg.WebhookURL != "https://example.com/hook" {
		t.Errorf("expected env webhook URL, got %q", cfg.WebhookURL)
	}
}

func TestWriteAndLoadProject(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		APIKey:       "file-key",
		WebhookURL:   "https://hooks.example.com/create",
		APIBase:      DefaultAPIBase,
		CallbackPort: 9999,
		DataDir:      ".voicedeck",
		LogLevel:     "debug",
	}
	if err := WriteProject(cfg); err != nil {
		t.Fatalf("WriteProject() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.APIKey != "file-key" {
		t.Errorf("expected file api key, got %q", loaded.APIKey)
	}
	if loaded.CallbackPort != 9999 {
		t.Errorf("expected callback port 9999, got %d", loaded.CallbackPort)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", loaded.LogLevel)
	}
}
