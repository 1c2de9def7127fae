package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/cli/tui"
	"github.com/devbush/lecturenotes/internal/adapters/document"
	"github.com/devbush/lecturenotes/internal/adapters/portaudio"
	"github.com/devbush/lecturenotes/internal/config"
	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/logging"
)

var (
	// Global flags
	modelFlag   string
	promptFlag  string
	verboseFlag bool
	quietFlag   bool

	logCloser io.Closer
)

// errReported marks failures whose description was already shown in place of notes
var errReported = errors.New("job failed")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lecturenotes [audio-file|url|text-file]",
		Short: "Turn lecture audio into study notes",
		Long: `lecturenotes records or imports lecture audio, transcribes it locally,
and asks a language model to turn the transcript into study notes.

Provide an audio file, a video URL or a transcript (.txt, .md, .pdf), or run without
arguments for an interactive menu.`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              runRoot,
		PersistentPreRunE: setupLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Notes model (default from config)")
	rootCmd.PersistentFlags().StringVarP(&promptFlag, "prompt", "p", "", "Prompt preset id (see 'lecturenotes prompts')")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")

	// Add subcommands
	rootCmd.AddCommand(NewRecordCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewURLCmd())
	rootCmd.AddCommand(NewNotesCmd())
	rootCmd.AddCommand(NewEstimateCmd())
	rootCmd.AddCommand(NewPromptsCmd())
	rootCmd.AddCommand(NewKeyCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewDepsCmd())

	return rootCmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	// The interactive menu owns the terminal, so its logs go to a file.
	interactive := cmd.Root() == cmd && len(args) == 0
	_, closer, err := logging.Setup(logging.Options{
		Verbose: verboseFlag,
		Quiet:   quietFlag,
		ToFile:  interactive,
		Dir:     config.LogDir(),
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// No arguments - show interactive menu
		return runInteractiveMenu(cmd)
	}

	switch input := args[0]; inputKind(input) {
	case kindAudio:
		return runImport(cmd, []string{input})
	case kindDocument:
		return runNotes(cmd, []string{input})
	default:
		return runURL(cmd, []string{input})
	}
}

const (
	kindAudio    = "audio"
	kindDocument = "document"
	kindURL      = "url"
)

// inputKind decides how a bare argument is processed. Anything that is not a
// known audio or document file is treated as a link.
func inputKind(input string) string {
	switch {
	case domain.IsAudioFile(input):
		return kindAudio
	case document.IsDocument(input):
		return kindDocument
	default:
		return kindURL
	}
}

func runInteractiveMenu(cmd *cobra.Command) error {
	if !logging.IsTerminal(os.Stdin) {
		return cmd.Help()
	}

	record := tui.MenuOption{Label: "Record a lecture", Value: "record", Hint: "microphone"}
	if !portaudio.Available() {
		record.Hint = "not built with microphone support"
		record.Disabled = true
	}

	options := []tui.MenuOption{
		record,
		{Label: "Import an audio file", Value: "import", Hint: "m4a, mp3, wav, ..."},
		{Label: "Notes from a video URL", Value: "url", Hint: "YouTube and other sites"},
		{Label: "Notes from a transcript", Value: "notes", Hint: ".txt, .md or .pdf"},
		{Label: "Choose note style", Value: "prompt"},
		{Label: "Set API key", Value: "key"},
		{Label: "Manage cache", Value: "cache"},
		{Label: "Check dependencies", Value: "deps"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	switch selected {
	case "record":
		return runRecord(cmd, nil)
	case "import":
		return withInput(cmd, "Audio file path: ", runImport)
	case "url":
		return withInput(cmd, "Video URL: ", runURL)
	case "notes":
		return withInput(cmd, "Transcript file path: ", runNotes)
	case "prompt":
		return runPromptsChoose(cmd, nil)
	case "key":
		return runKeySet(cmd, nil)
	case "cache":
		return runCacheInteractive(cmd)
	case "deps":
		return runDepsStatus(cmd, nil)
	case "":
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
	}

	return nil
}

// readLine prints label and returns one trimmed line from stdin, unquoted
func readLine(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(line), `"'`), nil
}

// withInput reads one line from stdin and passes it to run as the only argument
func withInput(cmd *cobra.Command, label string, run func(*cobra.Command, []string) error) error {
	input, err := readLine(cmd, label)
	if err != nil {
		return err
	}
	if input == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}
	return run(cmd, []string{input})
}

// Execute runs the CLI
func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, domain.Describe(err))
		}
		os.Exit(1)
	}
}
