package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/cli/tui"
	"github.com/devbush/lecturenotes/internal/adapters/credentials"
	"github.com/devbush/lecturenotes/internal/logging"
)

// NewKeyCmd creates the key subcommand
func NewKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the notes API key",
		RunE:  runKeyStatus,
	}

	setCmd := &cobra.Command{
		Use:   "set [key]",
		Short: "Store your own API key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runKeySet,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove your API key and fall back to the bundled one",
		Args:  cobra.NoArgs,
		RunE:  runKeyClear,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show which API key is in use",
		Args:  cobra.NoArgs,
		RunE:  runKeyStatus,
	}

	cmd.AddCommand(setCmd, clearCmd, statusCmd)
	return cmd
}

func runKeyStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	key, err := app.Credentials.APIKey()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case app.Credentials.HasOverride():
		fmt.Fprintf(out, "Using your key %s\n", credentials.Mask(key))
	case key != "":
		fmt.Fprintf(out, "Using the bundled key %s\n", credentials.Mask(key))
	default:
		fmt.Fprintln(out, "No API key configured. Run 'lecturenotes key set'.")
	}
	return nil
}

func runKeySet(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		if !logging.IsTerminal(os.Stdin) {
			return fmt.Errorf("pass the key as an argument when not running in a terminal")
		}
		value, ok, err := tui.RunSecretInput("Enter your OpenAI API key", "sk-...")
		if err != nil {
			return err
		}
		if !ok || value == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		key = value
	}

	if err := app.Credentials.SetAPIKey(key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API key saved (%s)\n", credentials.Mask(key))
	return nil
}

func runKeyClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	if err := app.Credentials.ClearAPIKey(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Your API key was removed")
	return nil
}
