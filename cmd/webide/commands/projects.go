package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mobidic/webide/pkg/types"
)

var (
	projectDescription string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List and manage projects",
	RunE:  runProjectsList,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsCreate,
}

var projectsJoinCmd = &cobra.Command{
	Use:   "join <invite-code>",
	Short: "Join a project by invite code",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsJoin,
}

func init() {
	projectsCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsJoinCmd)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	projects, err := newClient().MyProjects(cmd.Context())
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("no projects")
		return nil
	}
	bold := color.New(color.Bold)
	for _, p := range projects {
		bold.Printf("%s", p.Name)
		fmt.Printf("  id=%s", p.ID)
		if p.Description != "" {
			fmt.Printf("  %s", p.Description)
		}
		fmt.Println()
	}
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	p, err := newClient().CreateProject(cmd.Context(), args[0], projectDescription)
	if err != nil {
		return err
	}
	fmt.Printf("created project %s (id=%s, invite=%s)\n", p.Name, p.ID, p.InviteCode)
	return nil
}

func runProjectsJoin(cmd *cobra.Command, args []string) error {
	client := newClient()
	p, err := client.ProjectByInviteCode(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := client.JoinProject(cmd.Context(), p.ID, args[0]); err != nil {
		return err
	}
	fmt.Printf("joined project %s (id=%s)\n", p.Name, p.ID)
	return nil
}

// resolveProject fetches the project named by the --project flag.
func resolveProject(cmd *cobra.Command, id string) (*types.Project, error) {
	if id == "" {
		return nil, fmt.Errorf("--project is required")
	}
	return newClient().Project(cmd.Context(), types.ID(id))
}
