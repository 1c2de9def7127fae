package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/document"
	"github.com/devbush/lecturenotes/internal/application"
)

// NewNotesCmd creates the notes subcommand
func NewNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <transcript-file|->",
		Short: "Make notes from an existing transcript or PDF",
		Long: `Make notes from a .txt, .md or .pdf file, skipping transcription.
Use - to read plain text from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: runNotes,
	}
}

func readTranscript(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	return document.ReadText(path)
}

func runNotes(cmd *cobra.Command, args []string) error {
	text, err := readTranscript(cmd, args[0])
	if err != nil {
		return err
	}

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	prompt, err := selectedPrompt(app)
	if err != nil {
		return err
	}

	return runJob(cmd, app, application.Request{Text: text, Prompt: prompt}, textSteps, textStepIndex)
}
