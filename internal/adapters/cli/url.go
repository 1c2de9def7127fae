package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/application"
	"github.com/devbush/lecturenotes/internal/domain"
)

// NewURLCmd creates the url subcommand
func NewURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "url <video-url|video-id>",
		Aliases: []string{"youtube"},
		Short:   "Download a video's audio and make notes",
		Args:    cobra.ExactArgs(1),
		RunE:    runURL,
	}
}

func runURL(cmd *cobra.Command, args []string) error {
	link, err := domain.ParseMediaLink(args[0])
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

	req := application.Request{
		Producer: application.RemoteDownload(app.Downloader, link, app.Store.TempDir()),
		Prompt:   prompt,
	}
	return runJob(cmd, app, req, audioSteps, audioStepIndex)
}
