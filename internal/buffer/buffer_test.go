package buffer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/pkg/types"
)

// fakeStore is an in-memory append-only content store.
type fakeStore struct {
	versions map[types.ID][]types.FileContent
	failLoad bool
	failSave bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{versions: make(map[types.ID][]types.FileContent)}
}

func (s *fakeStore) seed(fileID types.ID, content string) {
	s.versions[fileID] = append(s.versions[fileID], types.FileContent{
		FileID:  fileID,
		Content: content,
		Version: len(s.versions[fileID]) + 1,
	})
}

func (s *fakeStore) Latest(ctx context.Context, fileID types.ID) (*types.FileContent, error) {
	if s.failLoad {
		return nil, errors.New("boom")
	}
	vs := s.versions[fileID]
	if len(vs) == 0 {
		return nil, fmt.Errorf("no content for %s", fileID)
	}
	c := vs[len(vs)-1]
	return &c, nil
}

func (s *fakeStore) SaveContent(ctx context.Context, fileID types.ID, content string) (*types.FileContent, error) {
	if s.failSave {
		return nil, errors.New("boom")
	}
	s.seed(fileID, content)
	c := s.versions[fileID][len(s.versions[fileID])-1]
	return &c, nil
}

func (s *fakeStore) History(ctx context.Context, fileID types.ID) ([]types.FileContent, error) {
	return s.versions[fileID], nil
}

func (s *fakeStore) ContentVersion(ctx context.Context, fileID types.ID, version int) (*types.FileContent, error) {
	for _, c := range s.versions[fileID] {
		if c.Version == version {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("version %d not found", version)
}

func fileNode(id types.ID, name string) *types.TreeNode {
	return &types.TreeNode{ID: &id, Name: name, Kind: types.KindFile}
}

func TestOpenSetsCleanState(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "print(1)")
	b := New(store, event.NewBus())

	open, err := b.Open(context.Background(), fileNode("f1", "main.py"), "src/main.py")
	require.NoError(t, err)

	assert.Equal(t, "print(1)", open.Content)
	assert.False(t, open.Dirty)
	assert.Equal(t, types.LangPython, open.Language)
	assert.Equal(t, 1, open.Version)
}

func TestOpenFolderRejected(t *testing.T) {
	b := New(newFakeStore(), event.NewBus())
	id := types.ID("d1")
	_, err := b.Open(context.Background(), &types.TreeNode{ID: &id, Name: "src", Kind: types.KindFolder}, "src")
	assert.ErrorIs(t, err, ErrNotAFile)
}

func TestOpenUnpersistedRejected(t *testing.T) {
	b := New(newFakeStore(), event.NewBus())
	_, err := b.Open(context.Background(), &types.TreeNode{Name: "a.py", Kind: types.KindFile}, "a.py")
	assert.ErrorIs(t, err, ErrNotAFile)
}

func TestOpenFailureKeepsPreviousFile(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "one")
	b := New(store, event.NewBus())

	_, err := b.Open(context.Background(), fileNode("f1", "a.py"), "a.py")
	require.NoError(t, err)

	store.failLoad = true
	_, err = b.Open(context.Background(), fileNode("f2", "b.py"), "b.py")
	require.Error(t, err)

	open := b.File()
	require.NotNil(t, open, "previous open file survives a failed load")
	assert.Equal(t, types.ID("f1"), open.ID)
	assert.Equal(t, "one", open.Content)
}

func TestDirtyFlagDiscipline(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "v1")
	b := New(store, event.NewBus())

	_, err := b.Open(context.Background(), fileNode("f1", "a.py"), "a.py")
	require.NoError(t, err)
	assert.False(t, b.Dirty(), "open sets dirty=false")

	require.NoError(t, b.Edit("v2"))
	assert.True(t, b.Dirty(), "edit sets dirty=true")

	_, err = b.Save(context.Background())
	require.NoError(t, err)
	assert.False(t, b.Dirty(), "save resets dirty")

	require.NoError(t, b.Edit("v3"))
	store.failSave = true
	_, err = b.Save(context.Background())
	require.Error(t, err)
	assert.True(t, b.Dirty(), "failed save leaves dirty=true")
}

func TestSaveCreatesNewVersion(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "v1")
	b := New(store, event.NewBus())

	_, err := b.Open(context.Background(), fileNode("f1", "a.py"), "a.py")
	require.NoError(t, err)

	require.NoError(t, b.Edit("v2"))
	saved, err := b.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)

	history, err := b.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "v1", history[0].Content, "prior version content unchanged")
	assert.Equal(t, "v2", history[1].Content)
}

func TestSaveWithoutOpenFile(t *testing.T) {
	b := New(newFakeStore(), event.NewBus())
	_, err := b.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoFileOpen)
	assert.ErrorIs(t, b.Edit("x"), ErrNoFileOpen)
}

func TestLanguageInference(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "x")
	store.seed("f2", "y")
	store.seed("f3", "z")
	b := New(store, event.NewBus())

	_, err := b.Open(context.Background(), fileNode("f1", "Main.java"), "Main.java")
	require.NoError(t, err)
	assert.Equal(t, types.LangJava, b.Language())

	// Unrecognized extension keeps the previous selection.
	_, err = b.Open(context.Background(), fileNode("f2", "notes.txt"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, types.LangJava, b.Language())

	_, err = b.Open(context.Background(), fileNode("f3", "run.py"), "run.py")
	require.NoError(t, err)
	assert.Equal(t, types.LangPython, b.Language())
}

func TestVersionViewDoesNotMutateBuffer(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "v1")
	b := New(store, event.NewBus())

	_, err := b.Open(context.Background(), fileNode("f1", "a.py"), "a.py")
	require.NoError(t, err)
	require.NoError(t, b.Edit("local"))

	old, err := b.Version(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", old.Content)

	open := b.File()
	assert.Equal(t, "local", open.Content, "viewing a version leaves the buffer untouched")
	assert.True(t, open.Dirty)
}

func TestDiffVersion(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "a\nb\n")
	b := New(store, event.NewBus())

	_, err := b.Open(context.Background(), fileNode("f1", "a.py"), "a.py")
	require.NoError(t, err)
	require.NoError(t, b.Edit("a\nc\n"))

	diff, err := b.DiffVersion(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
	assert.Contains(t, diff, " a")
}

func TestOpenReplacesWholesale(t *testing.T) {
	store := newFakeStore()
	store.seed("f1", "one")
	store.seed("f2", "two")
	b := New(store, event.NewBus())

	_, err := b.Open(context.Background(), fileNode("f1", "a.py"), "a.py")
	require.NoError(t, err)
	require.NoError(t, b.Edit("dirty"))

	open, err := b.Open(context.Background(), fileNode("f2", "b.py"), "b.py")
	require.NoError(t, err)

	assert.Equal(t, types.ID("f2"), open.ID)
	assert.Equal(t, "two", open.Content)
	assert.False(t, open.Dirty, "no carry-over from the previous file")
}
