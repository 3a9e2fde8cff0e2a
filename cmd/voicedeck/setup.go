package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voicedeck/voicedeck/internal/config"
)

var setupFlags struct {
	project bool
	force   bool
	apiKey  string
	pubKey  string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create voicedeck configuration file",
	Long: `Create a voicedeck configuration file with sensible defaults.

By default, creates a global config at ~/.config/voicedeck/voicedeck.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.apiKey, "api-key", "", "Platform API key (private, bearer auth)")
	setupCmd.Flags().StringVar(&setupFlags.pubKey, "public-key", "", "Platform public key (voice call transport)")
}

func runSetup(cmd *cobra.Command, args []string) error {
	// Determine target path
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	// Check if config already exists
	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := &config.Config{
		APIKey:       setupFlags.apiKey,
		PublicKey:    setupFlags.pubKey,
		WebhookURL:   config.DefaultWebhookURL,
		APIBase:      config.DefaultAPIBase,
		CallbackPort: 8484,
		DataDir:      ".voicedeck",
		LogLevel:     "info",
		LogFile:      "",
	}

	// Write config to target location
	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}

	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	// Print success message
	fmt.Printf("Config written to: %s\n\n", targetPath)
	if cfg.APIKey == "" {
		fmt.Println("Add your platform API key to the config (api_key) before running 'voicedeck'.")
	} else {
		fmt.Println("Run 'voicedeck' to open the dashboard.")
	}

	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
