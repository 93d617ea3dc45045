package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/pkg/types"
)

type fakeChatStore struct {
	rooms    []types.ChatRoom
	messages map[types.ID][]types.ChatMessage
	created  []string
}

func (f *fakeChatStore) ChatRooms(ctx context.Context) ([]types.ChatRoom, error) {
	return f.rooms, nil
}

func (f *fakeChatStore) CreateChatRoom(ctx context.Context, name string) (*types.ChatRoom, error) {
	room := types.ChatRoom{ID: types.ID(name), Name: name}
	f.rooms = append(f.rooms, room)
	f.created = append(f.created, name)
	return &room, nil
}

func (f *fakeChatStore) ChatMessages(ctx context.Context, roomID types.ID) ([]types.ChatMessage, error) {
	return f.messages[roomID], nil
}

func (f *fakeChatStore) SearchChatMessages(ctx context.Context, roomID types.ID, keyword string) ([]types.ChatMessage, error) {
	var out []types.ChatMessage
	for _, m := range f.messages[roomID] {
		if strings.Contains(m.Content, keyword) {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestRoomNameMatchesWebClient(t *testing.T) {
	// The web client derives `project:${projectId}`; any other separator
	// would duplicate rooms on a shared backend.
	assert.Equal(t, "project:42", RoomName("42"))
}

func TestRoomForProjectFindsExisting(t *testing.T) {
	store := &fakeChatStore{rooms: []types.ChatRoom{{ID: "r1", Name: "project:p1"}}}
	svc := NewService(store, event.NewBus())

	room, err := svc.RoomForProject(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, types.ID("r1"), room.ID)
	assert.Empty(t, store.created, "existing room is not recreated")
}

func TestRoomForProjectCreatesMissing(t *testing.T) {
	store := &fakeChatStore{}
	svc := NewService(store, event.NewBus())

	room, err := svc.RoomForProject(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "project:p2", room.Name)
	assert.Equal(t, []string{"project:p2"}, store.created)
}

func TestSendIsLocalEchoOnly(t *testing.T) {
	store := &fakeChatStore{messages: map[types.ID][]types.ChatMessage{}}
	bus := event.NewBus()
	svc := NewService(store, bus)

	var published *types.ChatMessage
	unsub := bus.Subscribe(event.ChatMessage, func(e event.Event) {
		published = e.Data.(event.ChatMessageData).Message
	})
	defer unsub()

	msg := svc.Send("r1", "me", "hello")
	require.NotNil(t, msg)
	assert.True(t, msg.Local)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hello", msg.Content)
	require.NotNil(t, published)
	assert.Equal(t, msg.ID, published.ID)

	// Never persisted: a fetch does not include the echo.
	msgs, err := svc.Messages(context.Background(), "r1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSearch(t *testing.T) {
	store := &fakeChatStore{messages: map[types.ID][]types.ChatMessage{
		"r1": {
			{ID: "1", Content: "deploy tomorrow"},
			{ID: "2", Content: "lunch?"},
		},
	}}
	svc := NewService(store, event.NewBus())

	got, err := svc.Search(context.Background(), "r1", "deploy")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.ID("1"), got[0].ID)
}
