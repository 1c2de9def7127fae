package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/lecturenotes/internal/adapters/cli/tui"
)

var (
	clearYesFlag bool
	listLimit    int
)

// NewCacheCmd creates the cache subcommand
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage saved recordings, transcripts and notes",
		RunE:  runCacheStatus,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cached files, newest first",
		Args:  cobra.NoArgs,
		RunE:  runCacheList,
	}
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most this many files")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached file",
		Args:  cobra.NoArgs,
		RunE:  runCacheClear,
	}
	clearCmd.Flags().BoolVarP(&clearYesFlag, "yes", "y", false, "Skip the confirmation prompt")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.CacheSvc.Dir())
			return nil
		},
	}

	cmd.AddCommand(listCmd, clearCmd, pathCmd)

	return cmd
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	stats, err := app.CacheSvc.Stats(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cache Statistics:")
	fmt.Fprintf(out, "  Location: %s\n", stats.Dir)
	fmt.Fprintf(out, "  Files:    %d\n", stats.ItemCount)
	fmt.Fprintf(out, "  Size:     %s\n", tui.FormatSize(stats.TotalSize))
	fmt.Fprintln(out)

	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	items, err := app.CacheSvc.List(commandContext(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "Cache is empty")
		return nil
	}
	if listLimit > 0 && len(items) > listLimit {
		items = items[:listLimit]
	}

	for _, item := range items {
		fmt.Fprintf(out, "  %-12s %9s  %s\n",
			tui.FormatDate(item.ModTime), tui.FormatSize(item.Size), tui.Truncate(item.Name, 60))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	if !clearYesFlag {
		stats, err := app.CacheSvc.Stats(commandContext(cmd))
		if err != nil {
			return err
		}
		answer, err := readLine(cmd, fmt.Sprintf("Delete %d files (%s) from %s? [y/N] ",
			stats.ItemCount, tui.FormatSize(stats.TotalSize), stats.Dir))
		if err != nil {
			return err
		}
		if answer = strings.ToLower(answer); answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if err := app.CacheSvc.Clear(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}

func runCacheInteractive(cmd *cobra.Command) error {
	if err := runCacheStatus(cmd, nil); err != nil {
		return err
	}

	selected, err := tui.RunMenu("Cache", []tui.MenuOption{
		{Label: "List files", Value: "list"},
		{Label: "Clear cache", Value: "clear", Hint: "deletes recordings too"},
		{Label: "Back", Value: "back"},
	})
	if err != nil {
		return err
	}

	switch selected {
	case "list":
		return runCacheList(cmd, nil)
	case "clear":
		return runCacheClear(cmd, nil)
	}
	return nil
}
