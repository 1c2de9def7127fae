package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/capture"
	"github.com/devbush/lecturenotes/internal/adapters/cli/tui"
	"github.com/devbush/lecturenotes/internal/adapters/portaudio"
	"github.com/devbush/lecturenotes/internal/application"
	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/logging"
)

var durationFlag time.Duration

// NewRecordCmd creates the record subcommand
func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a lecture from the microphone and make notes",
		Args:  cobra.NoArgs,
		RunE:  runRecord,
	}

	cmd.Flags().DurationVar(&durationFlag, "duration", 0, "Stop automatically after this long (e.g. 50m)")

	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	if !portaudio.Available() {
		return fmt.Errorf("%w (rebuild with -tags portaudio)", domain.ErrCaptureUnavailable)
	}
	if durationFlag <= 0 && !logging.IsTerminal(os.Stdin) {
		return fmt.Errorf("recording without a terminal needs --duration")
	}

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	prompt, err := selectedPrompt(app)
	if err != nil {
		return err
	}

	device := portaudio.NewDevice(app.Config.Capture.SampleRate)
	rec := capture.NewRecorder(device, app.Store.TempDir(),
		capture.WithSettleDelay(app.SettleDelay()),
		capture.WithLogger(app.Logger),
	)

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	// Claim the job slot before opening the microphone so a busy pipeline refuses early.
	ticket, err := app.Coordinator.Start(ctx, application.Request{Producer: rec, Prompt: prompt})
	if err != nil {
		return err
	}

	if err := rec.Start(); err != nil {
		cancel()
		<-ticket.Done()
		return err
	}

	keep, err := waitForStop(ctx, rec)
	if err != nil || !keep {
		cancel()
		<-ticket.Done()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Recording discarded")
		return nil
	}

	w := watchJob(cmd, app, audioSteps, audioStepIndex)
	return finishJob(cmd, w, ticket)
}

// waitForStop runs the level meter, or a fixed timer with --duration.
// It returns false when the recording should be thrown away.
func waitForStop(ctx context.Context, rec *capture.Recorder) (bool, error) {
	if durationFlag > 0 {
		select {
		case <-time.After(durationFlag):
		case <-ctx.Done():
			return false, nil
		}
		if err := rec.Stop(); err != nil {
			return false, err
		}
		return true, nil
	}

	return tui.RunMeter(rec)
}
