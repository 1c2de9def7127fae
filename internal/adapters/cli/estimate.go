package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/cli/tui"
	"github.com/devbush/lecturenotes/internal/adapters/openai"
)

var allModelsFlag bool

// NewEstimateCmd creates the estimate subcommand
func NewEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate <transcript-file|->",
		Short: "Preview the input cost of making notes from a transcript",
		Long: `Preview the input cost of making notes from a transcript.

The figure is a rough character-based estimate of the request only. Real
usage is reported by the API after notes are generated.`,
		Args: cobra.ExactArgs(1),
		RunE: runEstimate,
	}

	cmd.Flags().BoolVar(&allModelsFlag, "all", false, "Show every priced model")

	return cmd
}

func runEstimate(cmd *cobra.Command, args []string) error {
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
	message := prompt.UserMessage(text)

	models := []string{app.Notes.Model()}
	if allModelsFlag {
		models = openai.Models()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Prompt: %s\n\n", prompt.Name)
	fmt.Fprintf(out, "  %-16s %10s %12s\n", "Model", "Tokens", "Input cost")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 40))
	for _, model := range models {
		est := openai.EstimateInput(model, message)
		cost := tui.FormatCost(est.Cost)
		if _, ok := openai.PriceFor(model); !ok {
			cost = "unpriced"
		}
		fmt.Fprintf(out, "  %-16s %10s %12s\n", model, tui.FormatCount(int64(est.Tokens)), cost)
	}
	fmt.Fprintln(out)

	return nil
}
