package api

import (
	"context"
	"fmt"

	"github.com/mobidic/webide/pkg/types"
)

// Latest fetches the newest content version for a file.
func (c *Client) Latest(ctx context.Context, fileID types.ID) (*types.FileContent, error) {
	var content types.FileContent
	if err := c.get(ctx, fmt.Sprintf("/api/file-contents/file/%s", fileID), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// SaveContent creates a new immutable content version for a file. Prior
// versions are never overwritten; the returned record carries the new
// monotonically increasing version number.
func (c *Client) SaveContent(ctx context.Context, fileID types.ID, content string) (*types.FileContent, error) {
	body := map[string]any{"fileId": fileID, "content": content}
	var saved types.FileContent
	if err := c.post(ctx, "/api/file-contents", body, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// History lists all content versions of a file, read-only.
func (c *Client) History(ctx context.Context, fileID types.ID) ([]types.FileContent, error) {
	var history []types.FileContent
	if err := c.get(ctx, fmt.Sprintf("/api/file-contents/file/%s/history", fileID), &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ContentVersion fetches one specific content version, read-only. It never
// affects the file's "latest" pointer.
func (c *Client) ContentVersion(ctx context.Context, fileID types.ID, version int) (*types.FileContent, error) {
	var content types.FileContent
	if err := c.get(ctx, fmt.Sprintf("/api/file-contents/file/%s/version/%d", fileID, version), &content); err != nil {
		return nil, err
	}
	return &content, nil
}
