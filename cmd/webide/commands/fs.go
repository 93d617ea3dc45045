package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mobidic/webide/internal/workspace"
	"github.com/mobidic/webide/pkg/types"
)

var (
	fsProject string
	fsFolder  bool
	fsParent  string
)

var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Create, delete, and rename project files",
}

var fsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a file or folder",
	Long: `Create a node in the project tree. With --parent the node is created
inside that folder; otherwise it is attached to the root.

Examples:
  webide fs create --project 01ABC src --folder
  webide fs create --project 01ABC --parent src main.py`,
	Args: cobra.ExactArgs(1),
	RunE: runFsCreate,
}

var fsRemoveCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or folder (and its contents)",
	Args:  cobra.ExactArgs(1),
	RunE:  runFsRemove,
}

var fsRenameCmd = &cobra.Command{
	Use:   "mv <path> <new-name>",
	Short: "Rename a file or folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runFsRename,
}

var saveCmd = &cobra.Command{
	Use:   "save <path> <local-file>",
	Short: "Save a local file as a new version of a project file",
	Long: `Replace the content of a project file with a local file's content and
persist it as a new version. Prior versions stay readable via
'webide history'.`,
	Args: cobra.ExactArgs(2),
	RunE: runSave,
}

func init() {
	fsCmd.PersistentFlags().StringVarP(&fsProject, "project", "p", "", "Project ID")
	fsCreateCmd.Flags().BoolVar(&fsFolder, "folder", false, "Create a folder instead of a file")
	fsCreateCmd.Flags().StringVar(&fsParent, "parent", "", "Parent folder path")
	fsCmd.AddCommand(fsCreateCmd)
	fsCmd.AddCommand(fsRemoveCmd)
	fsCmd.AddCommand(fsRenameCmd)

	saveCmd.Flags().StringVarP(&fsProject, "project", "p", "", "Project ID")

	rootCmd.AddCommand(fsCmd)
	rootCmd.AddCommand(saveCmd)
}

// fsWorkspace builds a workspace with the project activated.
func fsWorkspace(cmd *cobra.Command) (*workspace.Workspace, error) {
	project, err := resolveProject(cmd, fsProject)
	if err != nil {
		return nil, err
	}
	client := newClient()
	w := workspace.New(client, client, cfg.BaseURL)
	if err := w.ActivateProject(cmd.Context(), project); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func runFsCreate(cmd *cobra.Command, args []string) error {
	w, err := fsWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	if fsParent != "" {
		if err := w.Select(cmd.Context(), fsParent); err != nil {
			return fmt.Errorf("parent %q: %w", fsParent, err)
		}
	}
	kind := types.KindFile
	if fsFolder {
		kind = types.KindFolder
	}
	if err := w.Create(cmd.Context(), args[0], kind); err != nil {
		return err
	}
	fmt.Printf("created %s\n", args[0])
	return nil
}

func runFsRemove(cmd *cobra.Command, args []string) error {
	w, err := fsWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Select(cmd.Context(), args[0]); err != nil {
		return err
	}
	if err := w.Delete(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func runFsRename(cmd *cobra.Command, args []string) error {
	w, err := fsWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Select(cmd.Context(), args[0]); err != nil {
		return err
	}
	if err := w.Rename(cmd.Context(), args[1]); err != nil {
		return err
	}
	fmt.Printf("renamed %s -> %s\n", args[0], args[1])
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	w, err := fsWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Select(cmd.Context(), args[0]); err != nil {
		return err
	}
	if err := w.Edit(string(content)); err != nil {
		return err
	}
	record, err := w.Save(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("saved %s as v%d\n", args[0], record.Version)
	return nil
}
