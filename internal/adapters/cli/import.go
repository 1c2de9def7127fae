package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/application"
)

// NewImportCmd creates the import subcommand
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <audio-file>",
		Short: "Make notes from an existing audio file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	prompt, err := selectedPrompt(app)
	if err != nil {
		return err
	}

	req := application.Request{Producer: application.FileImport(args[0]), Prompt: prompt}
	return runJob(cmd, app, req, audioSteps, audioStepIndex)
}
