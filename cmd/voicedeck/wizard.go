package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voicedeck/voicedeck/internal/logger"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Configure a new voice assistant",
	Long: `Configure a new voice assistant through the four-step setup wizard.

The wizard collects company details, assistant behavior, knowledge base
documents and integration settings, then submits everything to the
provisioning endpoint. Knowledge documents are encoded and carried inside
the submission itself.

Configuration is loaded with the following precedence:
  Environment variables > Project config > Global config > Defaults

Project config: ./voicedeck.yml
Global config: ~/.config/voicedeck/voicedeck.yml`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
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

	if err := runWizardFlow(ctx, cfg, kv); err != nil {
		return err
	}

	logger.Debug("Wizard command finished")
	fmt.Println("Run 'voicedeck' to open the dashboard.")
	return nil
}
