package cli

import (
	"cmp"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/cli/tui"
	"github.com/devbush/lecturenotes/internal/prompts"
)

// NewPromptsCmd creates the prompts subcommand
func NewPromptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List and choose note styles",
		RunE:  runPromptsList,
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a prompt's full text",
		Args:  cobra.ExactArgs(1),
		RunE:  runPromptsShow,
	}

	useCmd := &cobra.Command{
		Use:   "use [id]",
		Short: "Set the default note style",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPromptsChoose,
	}

	cmd.AddCommand(showCmd, useCmd)
	return cmd
}

func runPromptsList(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	current := cmp.Or(app.Config.Defaults.Prompt, prompts.DefaultID)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	for _, t := range app.Prompts.All() {
		marker := " "
		if t.ID == current {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %-14s %s\n", marker, t.ID, t.Name)
	}
	fmt.Fprintln(out)

	return nil
}

func runPromptsShow(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	t, err := app.Prompts.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s", t.Name, t.Body)
	return nil
}

func runPromptsChoose(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	var id string
	if len(args) == 1 {
		t, err := app.Prompts.Get(args[0])
		if err != nil {
			return err
		}
		id = t.ID
	} else {
		t, ok, err := tui.RunPromptPicker(app.Prompts.All(), app.Config.Defaults.Prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
		id = t.ID
	}

	app.Config.Defaults.Prompt = id
	if err := app.Config.SaveDefault(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Default note style set to %s\n", id)
	return nil
}
