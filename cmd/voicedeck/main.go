package main

import (
	"context"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/voicedeck/voicedeck/internal/logger"
)

const (
	logoText1 = "█ █ █▀█ █ █▀▀ █▀▀ █▀▄ █▀▀ █▀▀ █▄▀"
	logoText2 = "▀▄▀ █▄█ █ █▄▄ ██▄ █▄▀ ██▄ █▄▄ █ █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voicedeck",
	Short: "Voice assistant configuration and call console",
	RunE:  runDashboard,
}

// renderLogo colors the two logo lines with the palette's primary shades.
func renderLogo() string {
	line1 := lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Render(logoText1)
	line2 := lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Render(logoText2)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

voicedeck configures and operates AI voice assistants from the terminal.
It walks you through a four-step setup wizard, submits the configuration
to the provisioning endpoint, and gives every assistant a dashboard with
a live call and chat console. State persists via embedded NATS JetStream.

Running voicedeck with no subcommand opens the dashboard.`

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(doctorCmd)
}
