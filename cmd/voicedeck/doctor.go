package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/vapi"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and platform connectivity",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ok := true
	report := func(pass bool, label, detail string) {
		mark := "✓"
		if !pass {
			mark = "✗"
			ok = false
		}
		fmt.Printf("  %s %-28s %s\n", mark, label, detail)
	}

	fmt.Println("voicedeck doctor")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		report(false, "config", err.Error())
		return fmt.Errorf("configuration is broken")
	}

	if config.Exists() {
		report(true, "config file", "found")
	} else {
		report(true, "config file", "none (using env and defaults)")
	}

	report(cfg.APIKey != "", "api key",
		orElse(cfg.APIKey != "", "set", "missing; REST calls will fail"))
	report(true, "public key",
		orElse(cfg.PublicKey != "", "set", "missing; voice calls disabled, chat still works"))
	report(cfg.WebhookURL != "", "webhook url", cfg.WebhookURL)
	report(cfg.APIBase != "", "api base", cfg.APIBase)
	report(true, "oauth client",
		orElse(cfg.OAuthClientID != "", "set", "missing; calendar connection disabled"))

	// Data dir must be creatable for the embedded store.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		report(false, "data dir", fmt.Sprintf("%s: %v", cfg.DataDir, err))
	} else {
		report(true, "data dir", cfg.DataDir)
	}

	if cfg.APIKey != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		client := newClient(cfg)
		if assistants, err := client.ListAssistants(ctx); err != nil {
			report(false, "platform connectivity", err.Error())
		} else {
			ready := 0
			for _, s := range vapi.SummarizeAll(assistants, cfg.PublicKey != "") {
				if s.CallReady.Ready {
					ready++
				}
			}
			report(true, "platform connectivity",
				fmt.Sprintf("%d assistant(s), %d call-ready", len(assistants), ready))
		}
	}

	fmt.Println()
	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Println("All checks passed.")
	return nil
}

func orElse(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
