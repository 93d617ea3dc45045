package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mobidic/webide/pkg/types"
)

// MyProjects lists the projects the authenticated user belongs to.
func (c *Client) MyProjects(ctx context.Context) ([]types.Project, error) {
	var projects []types.Project
	if err := c.get(ctx, "/api/projects/my", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, name, description string) (*types.Project, error) {
	body := map[string]string{"name": name, "description": description}
	var project types.Project
	if err := c.post(ctx, "/api/projects", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Project fetches one project by identity.
func (c *Client) Project(ctx context.Context, id types.ID) (*types.Project, error) {
	var project types.Project
	if err := c.get(ctx, fmt.Sprintf("/api/projects/%s", id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectByInviteCode looks up a project by invite code.
func (c *Client) ProjectByInviteCode(ctx context.Context, code string) (*types.Project, error) {
	var project types.Project
	if err := c.get(ctx, fmt.Sprintf("/api/projects/invite/%s", url.PathEscape(code)), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// JoinProject joins a project using its invite code. The user identity is
// taken from the auth token server-side.
func (c *Client) JoinProject(ctx context.Context, projectID types.ID, inviteCode string) error {
	path := fmt.Sprintf("/api/projects/%s/members/join?inviteCode=%s", projectID, url.QueryEscape(inviteCode))
	return c.post(ctx, path, nil, nil)
}
