// Package chat is a thin client for the collaboration store: room lookup
// and creation, message listing, and keyword search. Sending is a local,
// non-persisted echo; the server exposes no send operation.
package chat

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/internal/logging"
	"github.com/mobidic/webide/pkg/types"
)

// Store is the slice of the API client the chat service needs.
type Store interface {
	ChatRooms(ctx context.Context) ([]types.ChatRoom, error)
	CreateChatRoom(ctx context.Context, name string) (*types.ChatRoom, error)
	ChatMessages(ctx context.Context, roomID types.ID) ([]types.ChatMessage, error)
	SearchChatMessages(ctx context.Context, roomID types.ID, keyword string) ([]types.ChatMessage, error)
}

// Service wraps the chat endpoints.
type Service struct {
	store   Store
	bus     *event.Bus
	entropy *ulid.MonotonicEntropy
}

// NewService creates a chat service. A nil bus falls back to the global bus.
func NewService(store Store, bus *event.Bus) *Service {
	if bus == nil {
		bus = event.Default()
	}
	return &Service{
		store:   store,
		bus:     bus,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// RoomName derives the canonical room name for a project. The separator
// must stay in sync with the web client's naming or rooms get duplicated.
func RoomName(projectID types.ID) string {
	return fmt.Sprintf("project:%s", projectID)
}

// RoomForProject finds the project's room by its derived name, creating it
// when absent.
func (s *Service) RoomForProject(ctx context.Context, projectID types.ID) (*types.ChatRoom, error) {
	name := RoomName(projectID)

	rooms, err := s.store.ChatRooms(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].Name == name {
			return &rooms[i], nil
		}
	}

	logging.Debug().Str("room", name).Msg("creating project chat room")
	return s.store.CreateChatRoom(ctx, name)
}

// Messages lists a room's messages.
func (s *Service) Messages(ctx context.Context, roomID types.ID) ([]types.ChatMessage, error) {
	return s.store.ChatMessages(ctx, roomID)
}

// Search searches a room's messages by keyword.
func (s *Service) Search(ctx context.Context, roomID types.ID, keyword string) ([]types.ChatMessage, error) {
	return s.store.SearchChatMessages(ctx, roomID, keyword)
}

// Send echoes a message locally. It is never persisted server-side and is
// lost on the next Messages fetch.
func (s *Service) Send(roomID types.ID, sender, content string) *types.ChatMessage {
	msg := &types.ChatMessage{
		ID:        types.ID(ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()),
		RoomID:    roomID,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Local:     true,
	}
	s.bus.PublishSync(event.Event{Type: event.ChatMessage, Data: event.ChatMessageData{Message: msg}})
	return msg
}
