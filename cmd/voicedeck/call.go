package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voicedeck/voicedeck/internal/tui"
	"github.com/voicedeck/voicedeck/internal/vapi"
)

var callFlags struct {
	mode string
}

var callCmd = &cobra.Command{
	Use:   "call <assistant-id>",
	Short: "Open the call and chat console for an assistant",
	Long: `Open the call and chat console for an assistant directly, skipping
the dashboard. The console starts in chat mode unless --mode call is
given; voice calls need the public key configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVarP(&callFlags.mode, "mode", "m", "chat", "Initial mode: chat or call")
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mode := tui.ModeChat
	switch callFlags.mode {
	case "chat":
	case "call", "voice":
		mode = tui.ModeVoice
	default:
		return fmt.Errorf("invalid mode %q (chat or call)", callFlags.mode)
	}

	client := newClient(cfg)

	assistant, err := fetchAssistant(ctx, client, cfg.PublicKey != "", args[0])
	if err != nil {
		return err
	}

	return openCallScreen(ctx, cfg, client, assistant, mode)
}

func fetchAssistant(ctx context.Context, client *vapi.Client, publicKeySet bool, id string) (vapi.AssistantSummary, error) {
	a, err := client.GetAssistant(ctx, id)
	if err != nil {
		return vapi.AssistantSummary{}, fmt.Errorf("failed to fetch assistant %s: %w", id, err)
	}
	return vapi.Summarize(*a, publicKeySet), nil
}
