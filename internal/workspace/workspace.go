// Package workspace composes the tree, buffer, and execution session and
// binds user intents to them. It is the only component with externally
// visible side effects beyond state.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mobidic/webide/internal/api"
	"github.com/mobidic/webide/internal/buffer"
	"github.com/mobidic/webide/internal/event"
	"github.com/mobidic/webide/internal/execsession"
	"github.com/mobidic/webide/internal/logging"
	"github.com/mobidic/webide/internal/tree"
	"github.com/mobidic/webide/pkg/types"
)

var (
	// ErrNoProject is returned when an operation needs an active project.
	ErrNoProject = errors.New("workspace: no active project")
	// ErrEmptyName rejects empty or whitespace-only names before any
	// network call.
	ErrEmptyName = errors.New("workspace: name must not be empty")
	// ErrNoSelection is returned when an operation needs a selected,
	// persisted node.
	ErrNoSelection = errors.New("workspace: no node selected")
	// ErrNotFound is returned when a path does not resolve in the tree.
	ErrNotFound = errors.New("workspace: path not found")
	// ErrEmptyContent rejects running an empty buffer.
	ErrEmptyContent = errors.New("workspace: no code to run")
	// ErrUnsupportedLanguage rejects running with an unrecognized language.
	ErrUnsupportedLanguage = errors.New("workspace: unsupported language")
)

// FileStore is the slice of the store API the workspace needs for
// structural tree operations.
type FileStore interface {
	Tree(ctx context.Context, projectID types.ID) (json.RawMessage, error)
	CreateNode(ctx context.Context, req api.CreateNodeRequest) (*types.TreeNode, error)
	DeleteNode(ctx context.Context, id types.ID) error
	RenameNode(ctx context.Context, id types.ID, name string) (*types.TreeNode, error)
}

// SessionFactory builds a fresh execution session. A new one is created
// whenever the previous session reached a terminal state.
type SessionFactory func() (*execsession.Session, error)

// Workspace orchestrates one project's IDE state.
type Workspace struct {
	files      FileStore
	buf        *buffer.Buffer
	bus        *event.Bus
	newSession SessionFactory

	mu           sync.Mutex
	project      *types.Project
	root         *types.TreeNode
	selected     *types.TreeNode
	selectedPath string
	session      *execsession.Session

	termMu   sync.Mutex
	terminal []string

	unsubs []func()
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithBus sets the event bus; nil means the global bus.
func WithBus(bus *event.Bus) Option {
	return func(w *Workspace) {
		if bus != nil {
			w.bus = bus
		}
	}
}

// WithSessionFactory replaces how execution sessions are built (tests).
func WithSessionFactory(f SessionFactory) Option {
	return func(w *Workspace) { w.newSession = f }
}

// New creates a workspace over the given stores. baseURL is the backend
// HTTP base URL the execution transport is derived from.
func New(files FileStore, contents buffer.ContentStore, baseURL string, opts ...Option) *Workspace {
	w := &Workspace{
		files: files,
		bus:   event.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.buf = buffer.New(contents, w.bus)
	if w.newSession == nil {
		w.newSession = func() (*execsession.Session, error) {
			return execsession.New(baseURL, execsession.WithBus(w.bus))
		}
	}
	w.subscribeTerminal()
	return w
}

// ActivateProject switches the active project: the session is torn down,
// the buffer cleared, and the tree rebuilt from the server.
func (w *Workspace) ActivateProject(ctx context.Context, project *types.Project) error {
	if project == nil {
		return ErrNoProject
	}

	w.mu.Lock()
	w.project = project
	w.selected = nil
	w.selectedPath = ""
	session := w.session
	w.session = nil
	w.mu.Unlock()

	if session != nil {
		session.Close()
	}
	w.buf.Close()

	logging.Info().Str("project", string(project.ID)).Msg("project activated")
	return w.RefreshTree(ctx)
}

// RefreshTree re-fetches and re-reconciles the whole tree. The tree is
// rebuilt, never diffed; a fetch failure leaves the existing tree intact.
func (w *Workspace) RefreshTree(ctx context.Context) error {
	w.mu.Lock()
	project := w.project
	w.mu.Unlock()
	if project == nil {
		return ErrNoProject
	}

	payload, err := w.files.Tree(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("workspace: fetch tree: %w", err)
	}
	root, err := tree.Reconcile(payload)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	w.mu.Lock()
	w.root = root
	// Re-resolve the selection against the new tree.
	if w.selectedPath != "" {
		w.selected = tree.NodeAtPath(root, w.selectedPath)
		if w.selected == nil {
			w.selectedPath = ""
		}
	}
	w.mu.Unlock()

	// The open file must stay reachable in the current tree.
	if open := w.buf.File(); open != nil && tree.FindByID(root, open.ID) == nil {
		w.buf.Close()
	}

	w.bus.PublishSync(event.Event{Type: event.TreeUpdated, Data: event.TreeUpdatedData{
		ProjectID: project.ID,
		Root:      root,
	}})
	return nil
}

// Select resolves a path to a node and, for files, opens it in the buffer.
func (w *Workspace) Select(ctx context.Context, path string) error {
	path = tree.NormalizePath(path)

	w.mu.Lock()
	node := tree.NodeAtPath(w.root, path)
	if node == nil {
		w.mu.Unlock()
		return ErrNotFound
	}
	w.selected = node
	w.selectedPath = path
	w.mu.Unlock()

	if node.IsFolder() {
		return nil
	}
	_, err := w.buf.Open(ctx, node, path)
	return err
}

// Create makes a new file or folder under the contextual parent: the
// selected folder, the selected file's parent folder, or the root when
// nothing is selected. The tree is rebuilt afterwards.
func (w *Workspace) Create(ctx context.Context, name string, kind types.NodeKind) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	w.mu.Lock()
	project := w.project
	parentID := w.parentForCreateLocked()
	w.mu.Unlock()
	if project == nil {
		return ErrNoProject
	}

	_, err := w.files.CreateNode(ctx, api.CreateNodeRequest{
		ProjectID: project.ID,
		ParentID:  parentID,
		Name:      name,
		Kind:      kind,
	})
	if err != nil {
		return err
	}
	return w.RefreshTree(ctx)
}

// parentForCreateLocked resolves the create target. Caller holds w.mu.
func (w *Workspace) parentForCreateLocked() *types.ID {
	sel := w.selected
	if sel == nil {
		return nil
	}
	if sel.IsFolder() {
		if id, ok := sel.Identity(); ok {
			idCopy := id
			return &idCopy
		}
		return nil
	}
	return sel.ParentID
}

// Delete removes the selected node. If it was the open file, the buffer is
// cleared. The tree is rebuilt afterwards.
func (w *Workspace) Delete(ctx context.Context) error {
	w.mu.Lock()
	sel := w.selected
	w.mu.Unlock()
	if sel == nil {
		return ErrNoSelection
	}
	id, ok := sel.Identity()
	if !ok {
		return ErrNoSelection
	}

	if err := w.files.DeleteNode(ctx, id); err != nil {
		return err
	}

	w.mu.Lock()
	w.selected = nil
	w.selectedPath = ""
	w.mu.Unlock()

	if open := w.buf.File(); open != nil && open.ID == id {
		w.buf.Close()
	}
	return w.RefreshTree(ctx)
}

// Rename renames the selected node and rebuilds the tree. The selection
// follows the renamed node.
func (w *Workspace) Rename(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	w.mu.Lock()
	sel := w.selected
	w.mu.Unlock()
	if sel == nil {
		return ErrNoSelection
	}
	id, ok := sel.Identity()
	if !ok {
		return ErrNoSelection
	}

	if _, err := w.files.RenameNode(ctx, id, name); err != nil {
		return err
	}
	if err := w.RefreshTree(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	if path, found := tree.PathOf(w.root, id); found {
		w.selected = tree.NodeAtPath(w.root, path)
		w.selectedPath = path
	}
	w.mu.Unlock()
	return nil
}

// Edit applies a local edit to the open file.
func (w *Workspace) Edit(content string) error {
	return w.buf.Edit(content)
}

// Save persists the open file as a new version.
func (w *Workspace) Save(ctx context.Context) (*types.FileContent, error) {
	return w.buf.Save(ctx)
}

// Run snapshots the open file's content and selected language and starts a
// remote execution. Later edits do not affect the in-flight run.
func (w *Workspace) Run(ctx context.Context) error {
	open := w.buf.File()
	if open == nil {
		return buffer.ErrNoFileOpen
	}
	if strings.TrimSpace(open.Content) == "" {
		return ErrEmptyContent
	}
	lang := w.buf.Language()
	if !lang.Valid() {
		return ErrUnsupportedLanguage
	}

	session, err := w.ensureSession()
	if err != nil {
		return err
	}
	if err := session.Connect(ctx); err != nil {
		return err
	}
	return session.Run(open.Content, lang, nil)
}

// ensureSession returns a live session, replacing one that reached a
// terminal state.
func (w *Workspace) ensureSession() (*execsession.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session != nil {
		switch w.session.State() {
		case execsession.StateClosed, execsession.StateErrored:
			// fall through to a fresh session
		default:
			return w.session, nil
		}
	}
	session, err := w.newSession()
	if err != nil {
		return nil, err
	}
	w.session = session
	return session, nil
}

// Stop ends the current run (or discards a buffered one).
func (w *Workspace) Stop() error {
	w.mu.Lock()
	session := w.session
	w.mu.Unlock()
	if session == nil {
		return execsession.ErrNotRunning
	}
	return session.Stop()
}

// SendInput forwards a line of terminal input to the running execution.
func (w *Workspace) SendInput(data string) error {
	w.mu.Lock()
	session := w.session
	w.mu.Unlock()
	if session == nil {
		return execsession.ErrNotRunning
	}
	if err := session.SendInput(data); err != nil {
		return err
	}
	w.appendTerminal("> " + data)
	return nil
}

// SetLanguage overrides the execution language selection.
func (w *Workspace) SetLanguage(lang types.Language) {
	w.buf.SetLanguage(lang)
}

// QuickOpen ranks file paths against a fuzzy query.
func (w *Workspace) QuickOpen(query string, limit int) []tree.Match {
	w.mu.Lock()
	root := w.root
	w.mu.Unlock()
	return tree.FuzzyFind(root, query, limit)
}

// Glob lists file paths matching a doublestar pattern.
func (w *Workspace) Glob(pattern string) ([]string, error) {
	w.mu.Lock()
	root := w.root
	w.mu.Unlock()
	return tree.Glob(root, pattern)
}

// Root returns the canonical tree, or nil before the first refresh.
func (w *Workspace) Root() *types.TreeNode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.root
}

// Project returns the active project, or nil.
func (w *Workspace) Project() *types.Project {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.project
}

// Selected returns the current selection path and node.
func (w *Workspace) Selected() (string, *types.TreeNode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectedPath, w.selected
}

// OpenFile returns a snapshot of the open file, or nil.
func (w *Workspace) OpenFile() *buffer.OpenFile {
	return w.buf.File()
}

// Buffer exposes the file buffer for history and diff views.
func (w *Workspace) Buffer() *buffer.Buffer {
	return w.buf
}

// SessionState reports the execution session state; Idle when no session
// exists yet.
func (w *Workspace) SessionState() execsession.State {
	w.mu.Lock()
	session := w.session
	w.mu.Unlock()
	if session == nil {
		return execsession.StateIdle
	}
	return session.State()
}

// Close tears the workspace down and releases the transport.
func (w *Workspace) Close() {
	w.mu.Lock()
	session := w.session
	w.session = nil
	unsubs := w.unsubs
	w.unsubs = nil
	w.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if session != nil {
		session.Close()
	}
	w.buf.Close()
}
