package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/portaudio"
	"github.com/devbush/lecturenotes/internal/logging"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check and install external tools",
		RunE:  runDepsStatus,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency status",
		RunE:  runDepsStatus,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp to latest version",
		RunE:  runDepsUpdate,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install yt-dlp",
		RunE:  runDepsInstall,
	}

	cmd.AddCommand(statusCmd, updateCmd, installCmd)
	return cmd
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dependency Status:")
	fmt.Fprintln(out)

	if path := app.Resolver.ResolveInterpreter(ctx); path != "" {
		fmt.Fprintf(out, "  python:      %s\n", path)
	} else {
		fmt.Fprintln(out, "  python:      not found (needed for transcription)")
	}

	if script := app.Transcriber.ScriptPath(); script != "" {
		fmt.Fprintf(out, "  transcriber: %s\n", script)
	} else {
		fmt.Fprintln(out, "  transcriber: script not installed")
	}

	if app.Downloader.IsAvailable(ctx) {
		fmt.Fprintf(out, "  yt-dlp:      %s\n", app.Downloader.GetBinaryPath(ctx))
	} else {
		fmt.Fprintln(out, "  yt-dlp:      not found (run 'lecturenotes deps install')")
	}

	if path := app.Resolver.ResolveTool(ctx, "ffmpeg"); path != "" {
		fmt.Fprintf(out, "  ffmpeg:      %s\n", path)
	} else {
		fmt.Fprintln(out, "  ffmpeg:      not found (yt-dlp needs it to extract audio)")
	}

	if portaudio.Available() {
		fmt.Fprintln(out, "  microphone:  available")
	} else {
		fmt.Fprintln(out, "  microphone:  not built in (rebuild with cgo and portaudio)")
	}

	switch {
	case app.Credentials.HasOverride():
		fmt.Fprintln(out, "  api key:     your key")
	case app.Credentials.HasBundled():
		fmt.Fprintln(out, "  api key:     bundled")
	default:
		fmt.Fprintln(out, "  api key:     missing (run 'lecturenotes key set')")
	}
	fmt.Fprintln(out)

	return nil
}

func runDepsUpdate(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if !app.Downloader.IsAvailable(ctx) {
		return fmt.Errorf("yt-dlp is not installed. Run 'lecturenotes deps install' first")
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Updating yt-dlp...")

	if err := app.Downloader.Update(ctx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "yt-dlp updated")
	return nil
}

func runDepsInstall(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if app.Downloader.IsAvailable(ctx) {
		fmt.Fprintf(cmd.OutOrStdout(), "yt-dlp is already installed (%s)\n", app.Downloader.GetBinaryPath(ctx))
		return nil
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, "Installing yt-dlp...")

	showProgress := !quietFlag && logging.IsTerminal(os.Stderr)
	path, err := app.Downloader.Install(ctx, func(downloaded, total int64) {
		if showProgress && total > 0 {
			pct := float64(downloaded) / float64(total) * 100
			fmt.Fprintf(errOut, "\rProgress: %.1f%%", pct)
		}
	})
	if showProgress {
		fmt.Fprintln(errOut)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "yt-dlp installed (%s)\n", path)
	return nil
}
