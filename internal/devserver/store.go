package devserver

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mobidic/webide/pkg/types"
)

var errNotFound = errors.New("devserver: not found")

// Store is the in-memory backend state. Everything lives for the process
// lifetime; content versions are append-only.
type Store struct {
	mu       sync.Mutex
	entropy  *ulid.MonotonicEntropy
	projects map[types.ID]*types.Project
	nodes    map[types.ID]*types.TreeNode
	contents map[types.ID][]types.FileContent
	rooms    map[types.ID]*types.ChatRoom
	messages map[types.ID][]types.ChatMessage
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		projects: make(map[types.ID]*types.Project),
		nodes:    make(map[types.ID]*types.TreeNode),
		contents: make(map[types.ID][]types.FileContent),
		rooms:    make(map[types.ID]*types.ChatRoom),
		messages: make(map[types.ID][]types.ChatMessage),
	}
}

func (s *Store) newID() types.ID {
	return types.ID(ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String())
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// CreateProject registers a project with a random invite code.
func (s *Store) CreateProject(name, description string) *types.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &types.Project{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		InviteCode:  ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()[:8],
		CreatedAt:   now(),
	}
	s.projects[p.ID] = p
	return p
}

// Projects lists all projects sorted by name.
func (s *Store) Projects() []types.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Project returns one project by identity.
func (s *Store) Project(id types.ID) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *p
	return &clone, nil
}

// ProjectByInvite returns the project carrying the invite code.
func (s *Store) ProjectByInvite(code string) (*types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.InviteCode == code {
			clone := *p
			return &clone, nil
		}
	}
	return nil, errNotFound
}

// CreateNode adds a file or folder. A nil parent attaches to the project
// root. Duplicate sibling names are accepted; the store is not the place
// to police them.
func (s *Store) CreateNode(projectID types.ID, parentID *types.ID, name string, kind types.NodeKind) (*types.TreeNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[projectID]; !ok {
		return nil, errNotFound
	}
	if parentID != nil {
		parent, ok := s.nodes[*parentID]
		if !ok || !parent.IsFolder() {
			return nil, errNotFound
		}
	}
	id := s.newID()
	n := &types.TreeNode{
		ID:        &id,
		Name:      name,
		Kind:      kind,
		ProjectID: &projectID,
		ParentID:  parentID,
	}
	s.nodes[id] = n
	clone := *n
	return &clone, nil
}

// DeleteNode removes a node and, recursively, its descendants.
func (s *Store) DeleteNode(id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[id]; !ok {
		return errNotFound
	}
	s.deleteSubtreeLocked(id)
	return nil
}

func (s *Store) deleteSubtreeLocked(id types.ID) {
	for childID, n := range s.nodes {
		if n.ParentID != nil && *n.ParentID == id {
			s.deleteSubtreeLocked(childID)
		}
	}
	delete(s.nodes, id)
	delete(s.contents, id)
}

// RenameNode updates a node's name.
func (s *Store) RenameNode(id types.ID, name string) (*types.TreeNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, errNotFound
	}
	n.Name = name
	clone := *n
	return &clone, nil
}

// Nodes returns the flat node list of one project, ordered by identity for
// determinism.
func (s *Store) Nodes(projectID types.ID) []types.TreeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.TreeNode, 0)
	for _, n := range s.nodes {
		if n.ProjectID != nil && *n.ProjectID == projectID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out
}

// SaveContent appends a new content version for a file and returns it.
func (s *Store) SaveContent(fileID types.ID, content string) (*types.FileContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[fileID]
	if !ok || n.IsFolder() {
		return nil, errNotFound
	}
	id := s.newID()
	record := types.FileContent{
		ID:        &id,
		FileID:    fileID,
		Content:   content,
		Version:   len(s.contents[fileID]) + 1,
		CreatedAt: now(),
	}
	s.contents[fileID] = append(s.contents[fileID], record)
	return &record, nil
}

// LatestContent returns the newest content version for a file. A file with
// no saved content yet yields an empty version 0 record.
func (s *Store) LatestContent(fileID types.ID) (*types.FileContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[fileID]
	if !ok || n.IsFolder() {
		return nil, errNotFound
	}
	history := s.contents[fileID]
	if len(history) == 0 {
		return &types.FileContent{FileID: fileID, Content: "", Version: 0}, nil
	}
	record := history[len(history)-1]
	return &record, nil
}

// History returns all content versions of a file, oldest first.
func (s *Store) History(fileID types.ID) ([]types.FileContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[fileID]; !ok {
		return nil, errNotFound
	}
	history := s.contents[fileID]
	out := make([]types.FileContent, len(history))
	copy(out, history)
	return out, nil
}

// ContentVersion returns one specific version of a file's content.
func (s *Store) ContentVersion(fileID types.ID, version int) (*types.FileContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.contents[fileID]
	if version < 1 || version > len(history) {
		return nil, errNotFound
	}
	record := history[version-1]
	return &record, nil
}

// CreateRoom registers a chat room.
func (s *Store) CreateRoom(name string) *types.ChatRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := &types.ChatRoom{ID: s.newID(), Name: name, CreatedAt: now()}
	s.rooms[room.ID] = room
	return room
}

// Rooms lists all chat rooms sorted by name.
func (s *Store) Rooms() []types.ChatRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatRoom, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddMessage appends a message to a room. Used for seeding; the client
// consumes rooms read-only.
func (s *Store) AddMessage(roomID types.ID, sender, content string) (*types.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return nil, errNotFound
	}
	msg := types.ChatMessage{
		ID:        s.newID(),
		RoomID:    roomID,
		Sender:    sender,
		Content:   content,
		CreatedAt: now(),
	}
	s.messages[roomID] = append(s.messages[roomID], msg)
	return &msg, nil
}

// Messages returns a room's messages, oldest first.
func (s *Store) Messages(roomID types.ID) ([]types.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return nil, errNotFound
	}
	msgs := s.messages[roomID]
	out := make([]types.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

// SearchMessages filters a room's messages by a case-insensitive keyword.
func (s *Store) SearchMessages(roomID types.ID, keyword string) ([]types.ChatMessage, error) {
	msgs, err := s.Messages(roomID)
	if err != nil {
		return nil, err
	}
	out := make([]types.ChatMessage, 0)
	for _, msg := range msgs {
		if strings.Contains(strings.ToLower(msg.Content), strings.ToLower(keyword)) {
			out = append(out, msg)
		}
	}
	return out, nil
}
