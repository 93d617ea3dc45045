package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mobidic/webide/internal/tree"
	"github.com/mobidic/webide/pkg/types"
)

var (
	treeProject string
	treeGlob    string
	treeFind    string
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show a project's file tree",
	Long: `Fetch and reconcile the project file hierarchy.

Examples:
  webide tree --project 01ABC
  webide tree --project 01ABC --glob '**/*.py'
  webide tree --project 01ABC --find main`,
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringVarP(&treeProject, "project", "p", "", "Project ID")
	treeCmd.Flags().StringVar(&treeGlob, "glob", "", "Only list file paths matching a glob pattern")
	treeCmd.Flags().StringVar(&treeFind, "find", "", "Fuzzy-find file paths by name")
}

func runTree(cmd *cobra.Command, args []string) error {
	project, err := resolveProject(cmd, treeProject)
	if err != nil {
		return err
	}
	raw, err := newClient().Tree(cmd.Context(), project.ID)
	if err != nil {
		return err
	}
	root, err := tree.Reconcile(raw)
	if err != nil {
		return err
	}

	switch {
	case treeGlob != "":
		paths, err := tree.Glob(root, treeGlob)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Println(path)
		}
	case treeFind != "":
		for _, match := range tree.FuzzyFind(root, treeFind, 10) {
			fmt.Println(match.Path)
		}
	default:
		// The canonical root is synthetic; print its children.
		for _, child := range root.Children {
			printNode(child, 0)
		}
	}
	return nil
}

var folderColor = color.New(color.FgBlue, color.Bold)

func printNode(n *types.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsFolder() {
		folderColor.Printf("%s%s/\n", indent, n.Name)
	} else {
		fmt.Printf("%s%s\n", indent, n.Name)
	}
	for _, child := range n.Children {
		printNode(child, depth+1)
	}
}
