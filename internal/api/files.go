package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mobidic/webide/pkg/types"
)

// CreateNodeRequest is the payload for creating a file or folder.
// A nil ParentID attaches the node to the project root.
type CreateNodeRequest struct {
	ProjectID types.ID       `json:"projectId"`
	ParentID  *types.ID      `json:"parentId"`
	Name      string         `json:"name"`
	Kind      types.NodeKind `json:"type"`
}

// Tree fetches the project file hierarchy. The payload shape varies by
// backend version (nested forest, single root, or flat list), so the raw
// JSON is returned for the reconciler to normalize.
func (c *Client) Tree(ctx context.Context, projectID types.ID) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, fmt.Sprintf("/api/files/project/%s/tree", projectID), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateNode creates a file or folder and returns the persisted node.
func (c *Client) CreateNode(ctx context.Context, req CreateNodeRequest) (*types.TreeNode, error) {
	var node types.TreeNode
	if err := c.post(ctx, "/api/files", req, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// DeleteNode removes a node (and its descendants) by identity.
func (c *Client) DeleteNode(ctx context.Context, id types.ID) error {
	return c.delete(ctx, fmt.Sprintf("/api/files/%s", id))
}

// RenameNode updates a node's name and returns the updated node.
func (c *Client) RenameNode(ctx context.Context, id types.ID, name string) (*types.TreeNode, error) {
	var node types.TreeNode
	body := map[string]string{"name": name}
	if err := c.put(ctx, fmt.Sprintf("/api/files/%s/name", id), body, &node); err != nil {
		return nil, err
	}
	return &node, nil
}
