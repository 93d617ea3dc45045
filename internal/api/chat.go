package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mobidic/webide/pkg/types"
)

// envelope is the `{status, message, data}` wrapper the chat endpoints use.
type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ChatRooms lists all chat rooms.
func (c *Client) ChatRooms(ctx context.Context) ([]types.ChatRoom, error) {
	var resp envelope[[]types.ChatRoom]
	if err := c.get(ctx, "/api/chat/rooms", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateChatRoom creates a chat room by name.
func (c *Client) CreateChatRoom(ctx context.Context, name string) (*types.ChatRoom, error) {
	var resp envelope[types.ChatRoom]
	if err := c.post(ctx, "/api/chat/rooms", map[string]string{"name": name}, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ChatMessages lists the messages of a room.
func (c *Client) ChatMessages(ctx context.Context, roomID types.ID) ([]types.ChatMessage, error) {
	var resp envelope[[]types.ChatMessage]
	if err := c.get(ctx, fmt.Sprintf("/api/chat/rooms/%s/messages", roomID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SearchChatMessages searches a room's messages by keyword.
func (c *Client) SearchChatMessages(ctx context.Context, roomID types.ID, keyword string) ([]types.ChatMessage, error) {
	path := fmt.Sprintf("/api/chat/rooms/%s/search?keyword=%s", roomID, url.QueryEscape(keyword))
	var resp envelope[[]types.ChatMessage]
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
