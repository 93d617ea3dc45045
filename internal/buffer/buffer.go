// Package buffer owns the currently open file: its loaded content, dirty
// flag, and the load/save/version protocol against the content store.
package buffer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/internal/logging"
	"github.com/mobidic/webide/pkg/types"
)

var (
	// ErrNoFileOpen is returned by operations that require an open file.
	ErrNoFileOpen = errors.New("buffer: no file open")
	// ErrNotAFile is returned when a folder or unpersisted node is opened.
	ErrNotAFile = errors.New("buffer: node is not a persisted file")
)

// ContentStore is the slice of the store API the buffer needs.
type ContentStore interface {
	Latest(ctx context.Context, fileID types.ID) (*types.FileContent, error)
	SaveContent(ctx context.Context, fileID types.ID, content string) (*types.FileContent, error)
	History(ctx context.Context, fileID types.ID) ([]types.FileContent, error)
	ContentVersion(ctx context.Context, fileID types.ID, version int) (*types.FileContent, error)
}

// OpenFile is the buffer's view of the currently open file. It is replaced
// wholesale when a different file is opened.
type OpenFile struct {
	ID       types.ID
	Name     string
	Path     string
	Content  string
	Dirty    bool
	Language types.Language
	Version  int
}

// Buffer tracks one open file against the content store.
type Buffer struct {
	store ContentStore
	bus   *event.Bus

	mu       sync.Mutex
	open     *OpenFile
	language types.Language
}

// New creates a buffer. A nil bus falls back to the global event bus.
func New(store ContentStore, bus *event.Bus) *Buffer {
	if bus == nil {
		bus = event.Default()
	}
	return &Buffer{store: store, bus: bus, language: types.LangPython}
}

// Open loads the latest content of a persisted FILE node and replaces the
// open file wholesale. On a fetch failure the previous open file is left
// untouched. The language is inferred from the file name's extension; an
// unrecognized extension keeps the previously selected language.
func (b *Buffer) Open(ctx context.Context, node *types.TreeNode, path string) (*OpenFile, error) {
	if node == nil || node.IsFolder() {
		return nil, ErrNotAFile
	}
	id, ok := node.Identity()
	if !ok {
		return nil, ErrNotAFile
	}

	latest, err := b.store.Latest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buffer: load %s: %w", id, err)
	}

	b.mu.Lock()
	if lang, ok := LanguageForFilename(node.Name); ok {
		b.language = lang
	}
	b.open = &OpenFile{
		ID:       id,
		Name:     node.Name,
		Path:     path,
		Content:  latest.Content,
		Dirty:    false,
		Language: b.language,
		Version:  latest.Version,
	}
	snapshot := *b.open
	b.mu.Unlock()

	logging.Debug().Str("file", path).Int("version", snapshot.Version).Msg("opened file")
	b.bus.PublishSync(event.Event{Type: event.FileOpened, Data: event.FileOpenedData{
		FileID:  snapshot.ID,
		Path:    snapshot.Path,
		Version: snapshot.Version,
	}})
	return &snapshot, nil
}

// Edit replaces the buffer content locally and marks it dirty. No network
// effect.
func (b *Buffer) Edit(content string) error {
	b.mu.Lock()
	if b.open == nil {
		b.mu.Unlock()
		return ErrNoFileOpen
	}
	b.open.Content = content
	b.open.Dirty = true
	id, path := b.open.ID, b.open.Path
	b.mu.Unlock()

	b.bus.PublishSync(event.Event{Type: event.BufferEdited, Data: event.BufferEditedData{
		FileID: id,
		Path:   path,
	}})
	return nil
}

// Save persists the current content as a new immutable version. The dirty
// flag clears only on success; a failed save leaves the buffer dirty.
func (b *Buffer) Save(ctx context.Context) (*types.FileContent, error) {
	b.mu.Lock()
	if b.open == nil {
		b.mu.Unlock()
		return nil, ErrNoFileOpen
	}
	id, content := b.open.ID, b.open.Content
	b.mu.Unlock()

	saved, err := b.store.SaveContent(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("buffer: save %s: %w", id, err)
	}

	b.mu.Lock()
	// Only clear dirty if the same file is still open.
	if b.open != nil && b.open.ID == id {
		b.open.Dirty = false
		b.open.Version = saved.Version
	}
	b.mu.Unlock()

	logging.Info().Str("file", string(id)).Int("version", saved.Version).Msg("saved file")
	b.bus.PublishSync(event.Event{Type: event.FileSaved, Data: event.FileSavedData{
		FileID:  id,
		Version: saved.Version,
	}})
	return saved, nil
}

// History lists all stored versions of the open file, read-only.
func (b *Buffer) History(ctx context.Context) ([]types.FileContent, error) {
	id, err := b.openID()
	if err != nil {
		return nil, err
	}
	return b.store.History(ctx, id)
}

// Version fetches one stored version of the open file, read-only. It never
// mutates the buffer or the file's "latest" pointer.
func (b *Buffer) Version(ctx context.Context, version int) (*types.FileContent, error) {
	id, err := b.openID()
	if err != nil {
		return nil, err
	}
	return b.store.ContentVersion(ctx, id, version)
}

// File returns a snapshot of the open file, or nil if nothing is open.
func (b *Buffer) File() *OpenFile {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open == nil {
		return nil
	}
	snapshot := *b.open
	return &snapshot
}

// Dirty reports whether the open file has unsaved edits.
func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open != nil && b.open.Dirty
}

// Language returns the currently selected execution language.
func (b *Buffer) Language() types.Language {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.language
}

// SetLanguage overrides the selected language (the UI dropdown).
func (b *Buffer) SetLanguage(lang types.Language) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.language = lang
	if b.open != nil {
		b.open.Language = lang
	}
}

// Close clears the open file without persisting anything.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = nil
}

func (b *Buffer) openID() (types.ID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open == nil {
		return "", ErrNoFileOpen
	}
	return b.open.ID, nil
}
