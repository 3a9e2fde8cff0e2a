package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/oauth"
	"github.com/voicedeck/voicedeck/internal/storage"
	"github.com/voicedeck/voicedeck/internal/tui"
)

var authFlags struct {
	assistantID string
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Connect Google Calendar",
	Long: `Connect Google Calendar so assistants can book appointments.

The command opens the Google consent page in your browser, waits for the
redirect on a localhost listener, and then returns you to where you left
off: the call console of the assistant that requested the connection, or
the dashboard.`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().StringVarP(&authFlags.assistantID, "assistant", "a", "", "Assistant to return to after authorization")
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.OAuthClientID == "" {
		return fmt.Errorf("no OAuth client configured\n\nSet oauth_client_id in your config or VOICEDECK_OAUTH_CLIENT_ID")
	}

	kv, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	return runOAuthFlow(ctx, cfg, kv, authFlags.assistantID)
}

// runOAuthFlow drives the full browser handoff: consent page, loopback
// callback, then navigation back to the screen the flow started from.
func runOAuthFlow(ctx context.Context, cfg *config.Config, kv storage.Store, assistantID string) error {
	flow := oauth.New(kv, cfg.OAuthClientID, cfg.CallbackPort)

	authURL, err := flow.Initiate(ctx, assistantID)
	if err != nil {
		return fmt.Errorf("failed to start authorization: %w", err)
	}

	if err := oauth.OpenBrowser(authURL); err != nil {
		logger.Warn("Could not open browser: %v", err)
		fmt.Printf("Open this URL in your browser:\n\n  %s\n\n", authURL)
	} else {
		fmt.Println("Waiting for Google authorization in your browser...")
	}

	if _, err := flow.WaitCallback(ctx); err != nil {
		flow.ClearPending(ctx)
		return err
	}

	dest := flow.ResolveDestination(ctx)
	flow.ClearPending(ctx)
	fmt.Println("Google Calendar connected.")

	// The flow remembers where it started: a call console destination
	// reopens that assistant, anything else lands back on the dashboard.
	if id := oauth.AssistantIDFromDestination(dest); id != "" {
		client := newClient(cfg)
		assistant, err := fetchAssistant(ctx, client, cfg.PublicKey != "", id)
		if err != nil {
			logger.Warn("Could not reopen call console: %v", err)
			return nil
		}
		return openCallScreen(ctx, cfg, client, assistant, tui.ModeChat)
	}
	return nil
}
