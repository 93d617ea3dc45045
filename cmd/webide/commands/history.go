package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mobidic/webide/internal/workspace"
)

var (
	historyProject string
	historyVersion int
	historyDiff    int
)

var historyCmd = &cobra.Command{
	Use:   "history <path>",
	Short: "Show a file's version history",
	Long: `List the saved versions of a project file, or show one version's
content, or diff a past version against the current buffer.

Examples:
  webide history --project 01ABC src/main.py
  webide history --project 01ABC src/main.py --version 2
  webide history --project 01ABC src/main.py --diff 2`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyProject, "project", "p", "", "Project ID")
	historyCmd.Flags().IntVar(&historyVersion, "version", 0, "Print the content of one version")
	historyCmd.Flags().IntVar(&historyDiff, "diff", 0, "Diff a version against the latest content")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	project, err := resolveProject(cmd, historyProject)
	if err != nil {
		return err
	}

	client := newClient()
	w := workspace.New(client, client, cfg.BaseURL)
	defer w.Close()
	if err := w.ActivateProject(ctx, project); err != nil {
		return err
	}
	if err := w.Select(ctx, args[0]); err != nil {
		return err
	}

	switch {
	case historyVersion > 0:
		record, err := w.Buffer().Version(ctx, historyVersion)
		if err != nil {
			return err
		}
		fmt.Print(record.Content)
	case historyDiff > 0:
		diff, err := w.Buffer().DiffVersion(ctx, historyDiff)
		if err != nil {
			return err
		}
		fmt.Print(diff)
	default:
		history, err := w.Buffer().History(ctx)
		if err != nil {
			return err
		}
		for _, record := range history {
			fmt.Printf("v%-3d  %s  %d bytes\n", record.Version, record.CreatedAt, len(record.Content))
		}
	}
	return nil
}
