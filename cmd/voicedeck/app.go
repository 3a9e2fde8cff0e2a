package main

import (
	"context"
	"fmt"

	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/storage"
	"github.com/voicedeck/voicedeck/internal/vapi"
)

// loadConfig loads configuration and enforces the platform API key, which
// every REST call needs.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured\n\nRun 'voicedeck setup' to create a config file, or set VOICEDECK_API_KEY")
	}
	return cfg, nil
}

// openStore opens the embedded KV store under the configured data directory.
// The returned cleanup shuts the NATS server down.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	kv, cleanup, err := storage.Open(ctx, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return kv, cleanup, nil
}

func newClient(cfg *config.Config) *vapi.Client {
	return vapi.New(cfg.APIKey, cfg.APIBase)
}
