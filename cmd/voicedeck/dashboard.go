package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voicedeck/voicedeck/internal/call"
	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/storage"
	"github.com/voicedeck/voicedeck/internal/tui"
	"github.com/voicedeck/voicedeck/internal/tui/wizard"
	"github.com/voicedeck/voicedeck/internal/vapi"
)

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kv, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	client := newClient(cfg)

	// Each screen runs its own Bubbletea program; the loop routes between
	// them until the user quits from the dashboard.
	for {
		res, err := tui.RunDashboard(ctx, cfg, kv, client)
		if err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}

		switch res.Action {
		case tui.ActionQuit:
			return nil

		case tui.ActionNewAssistant, tui.ActionEditAssistant:
			if err := runWizardFlow(ctx, cfg, kv); err != nil {
				return err
			}

		case tui.ActionOpenCall:
			if err := openCallScreen(ctx, cfg, client, res.Assistant, res.Mode); err != nil {
				return err
			}
		}
	}
}

// runWizardFlow runs the setup wizard and, when the user opted in, the
// Google Calendar handoff afterwards.
func runWizardFlow(ctx context.Context, cfg *config.Config, kv storage.Store) error {
	res, err := wizard.Run(ctx, cfg, kv)
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	if !res.Submitted {
		return nil
	}

	logger.Info("Assistant submitted: %s", res.AssistantID)

	if res.LaunchOAuth {
		if err := runOAuthFlow(ctx, cfg, kv, res.AssistantID); err != nil {
			// Calendar linking is optional; the assistant already exists.
			fmt.Printf("Google Calendar connection failed: %v\n", err)
			logger.Warn("OAuth flow failed: %v", err)
		}
	}
	return nil
}

func openCallScreen(ctx context.Context, cfg *config.Config, client *vapi.Client, assistant vapi.AssistantSummary, mode tui.Mode) error {
	transport := call.NewWebSocketTransport(cfg.PublicKey, cfg.APIBase)
	if err := tui.RunCallChat(ctx, cfg, client, transport, assistant, mode); err != nil {
		return fmt.Errorf("call screen failed: %w", err)
	}
	return nil
}
