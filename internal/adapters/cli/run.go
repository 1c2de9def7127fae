package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/cli/tui"
	"github.com/devbush/lecturenotes/internal/application"
	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/prompts"
)

var (
	audioSteps = []string{"Acquiring audio", "Transcribing", "Generating notes", "Saving"}
	textSteps  = []string{"Reading transcript", "Generating notes", "Saving"}
)

func audioStepIndex(state domain.JobState) int {
	switch state {
	case domain.JobAcquiring:
		return 0
	case domain.JobTranscribing:
		return 1
	case domain.JobGeneratingNotes:
		return 2
	case domain.JobPersisting:
		return 3
	}
	return -1
}

func textStepIndex(state domain.JobState) int {
	switch state {
	case domain.JobAcquiring:
		return 0
	case domain.JobGeneratingNotes:
		return 1
	case domain.JobPersisting:
		return 2
	}
	return -1
}

// selectedPrompt resolves --prompt, then the configured default
func selectedPrompt(app *App) (domain.PromptTemplate, error) {
	return app.Prompts.Get(cmp.Or(promptFlag, app.Config.Defaults.Prompt, prompts.DefaultID))
}

// jobWatcher renders coordinator events as step progress
type jobWatcher struct {
	progress    *tui.ProgressDisplay
	stepIndex   func(domain.JobState) int
	unsubscribe func()
	stopSpinner chan struct{}
}

func watchJob(cmd *cobra.Command, app *App, steps []string, stepIndex func(domain.JobState) int) *jobWatcher {
	w := &jobWatcher{
		progress:  tui.NewProgressDisplayTo(cmd.ErrOrStderr(), steps, quietFlag),
		stepIndex: stepIndex,
	}
	w.unsubscribe = app.Coordinator.Events().Subscribe(w.handle)
	if i := stepIndex(app.Coordinator.State()); i >= 0 {
		w.progress.StartStep(i)
	}
	w.stopSpinner = w.progress.StartSpinner()
	return w
}

func (w *jobWatcher) handle(e application.Event) {
	switch e.Type {
	case application.EventState:
		if i := w.stepIndex(e.State); i >= 0 {
			w.progress.StartStep(i)
		}
	case application.EventProgress:
		w.progress.UpdatePercent(e.Percent)
	case application.EventLine:
		w.progress.UpdateDetail(e.Text)
	case application.EventError:
		w.progress.FailCurrent(e.Message)
	case application.EventResult:
		w.progress.StartStep(len(w.progress.Steps()) - 1)
		w.progress.CompleteStep(len(w.progress.Steps()) - 1)
	}
}

func (w *jobWatcher) stop() {
	w.unsubscribe()
	close(w.stopSpinner)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// runJob starts req, shows its progress and prints the outcome
func runJob(cmd *cobra.Command, app *App, req application.Request, steps []string, stepIndex func(domain.JobState) int) error {
	ctx := commandContext(cmd)

	w := watchJob(cmd, app, steps, stepIndex)
	ticket, err := app.Coordinator.Start(ctx, req)
	if err != nil {
		w.stop()
		return err
	}
	return finishJob(cmd, w, ticket)
}

func finishJob(cmd *cobra.Command, w *jobWatcher, ticket *application.Ticket) error {
	// Wait on Done rather than ctx: a cancelled ctx still ends the job with an outcome.
	<-ticket.Done()
	out, _ := ticket.Wait(context.Background())
	w.stop()

	return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), w.progress, out)
}

func report(stdout, stderr io.Writer, progress *tui.ProgressDisplay, out *application.Outcome) error {
	fmt.Fprintln(stdout, out.Display())
	if out.Err != nil {
		return errReported
	}

	var outputs [][2]string
	if a := out.Artifacts; a != nil {
		for _, kv := range [][2]string{{"Notes", a.NotesPath}, {"Transcript", a.TranscriptPath}, {"Audio", a.AudioPath}} {
			if kv[1] != "" {
				outputs = append(outputs, kv)
			}
		}
	}
	outputs = append(outputs, [2]string{"Usage", fmt.Sprintf("%s tokens on %s, about %s",
		tui.FormatCount(int64(out.Notes.TokensUsed)), out.Notes.Model, tui.FormatCost(out.Notes.EstimatedCost))})
	progress.Complete(outputs)

	for _, err := range out.PersistErrors {
		fmt.Fprintf(stderr, "Warning: %s\n", err)
	}
	return nil
}
