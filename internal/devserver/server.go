// Package devserver is a self-contained in-memory backend speaking the
// store REST API and the execution websocket protocol. It exists for local
// development and end-to-end testing of the client without a real backend.
package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mobidic/webide/internal/logging"
	"github.com/mobidic/webide/pkg/types"
)

// Server serves the development backend.
type Server struct {
	store     *Store
	router    chi.Router
	execDelay time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithStore provides a pre-populated store.
func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

// WithExecDelay inserts a pause between simulated output lines so the
// streaming path can be exercised interactively.
func WithExecDelay(d time.Duration) Option {
	return func(s *Server) { s.execDelay = d }
}

// New creates a dev server.
func New(opts ...Option) *Server {
	s := &Server{store: NewStore()}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Store exposes the backing store for seeding.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/my", s.handleListProjects)
		r.Post("/", s.handleCreateProject)
		r.Get("/invite/{code}", s.handleProjectByInvite)
		r.Get("/{id}", s.handleGetProject)
		r.Post("/{id}/members/join", s.handleJoinProject)
	})

	r.Route("/api/files", func(r chi.Router) {
		r.Get("/project/{projectID}/tree", s.handleTree)
		r.Post("/", s.handleCreateNode)
		r.Delete("/{id}", s.handleDeleteNode)
		r.Put("/{id}/name", s.handleRenameNode)
	})

	r.Route("/api/file-contents", func(r chi.Router) {
		r.Post("/", s.handleSaveContent)
		r.Get("/file/{fileID}", s.handleLatestContent)
		r.Get("/file/{fileID}/history", s.handleHistory)
		r.Get("/file/{fileID}/version/{version}", s.handleContentVersion)
	})

	r.Route("/api/chat/rooms", func(r chi.Router) {
		r.Get("/", s.handleListRooms)
		r.Post("/", s.handleCreateRoom)
		r.Get("/{roomID}/messages", s.handleMessages)
		r.Get("/{roomID}/search", s.handleSearchMessages)
	})

	r.Get("/ws/compile", s.handleExec)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// chatEnvelope mirrors the `{status, message, data}` wrapper the chat
// endpoints answer with.
type chatEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeChat(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, chatEnvelope{Status: status, Message: "ok", Data: data})
}

func (s *Server) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Projects())
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateProject(body.Name, body.Description))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Project(types.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjectByInvite(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.ProjectByInvite(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, http.StatusNotFound, "invite code not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleJoinProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Project(types.ID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if r.URL.Query().Get("inviteCode") != p.InviteCode {
		writeError(w, http.StatusForbidden, "invite code mismatch")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	projectID := types.ID(chi.URLParam(r, "projectID"))
	if _, err := s.store.Project(projectID); err != nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	nodes := s.store.Nodes(projectID)

	// ?shape= selects the payload variant, mirroring the differences
	// between backend versions the reconciler has to absorb.
	switch r.URL.Query().Get("shape") {
	case "forest":
		writeJSON(w, http.StatusOK, buildForest(nodes))
	case "single":
		writeJSON(w, http.StatusOK, &forestNode{
			Name:     "root",
			Kind:     types.KindFolder,
			Children: buildForest(nodes),
		})
	default: // flat
		writeJSON(w, http.StatusOK, nodes)
	}
}

// forestNode is the nested wire form. Children is always serialized, even
// when empty; shape detection keys on its presence in the first element.
type forestNode struct {
	ID       *types.ID      `json:"id,omitempty"`
	Name     string         `json:"name"`
	Kind     types.NodeKind `json:"type"`
	ParentID *types.ID      `json:"parentId,omitempty"`
	Children []*forestNode  `json:"children"`
}

// buildForest nests the flat node list into top-level subtrees, ordered by
// identity for determinism.
func buildForest(nodes []types.TreeNode) []*forestNode {
	byID := make(map[types.ID]*forestNode, len(nodes))
	for _, n := range nodes {
		byID[*n.ID] = &forestNode{
			ID:       n.ID,
			Name:     n.Name,
			Kind:     n.Kind,
			ParentID: n.ParentID,
			Children: []*forestNode{},
		}
	}
	roots := []*forestNode{}
	// nodes is already sorted by identity, so attachment order is stable.
	for _, n := range nodes {
		fn := byID[*n.ID]
		if n.ParentID != nil {
			if parent, ok := byID[*n.ParentID]; ok {
				parent.Children = append(parent.Children, fn)
				continue
			}
		}
		roots = append(roots, fn)
	}
	return roots
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectID types.ID       `json:"projectId"`
		ParentID  *types.ID      `json:"parentId"`
		Name      string         `json:"name"`
		Kind      types.NodeKind `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if body.Kind != types.KindFile && body.Kind != types.KindFolder {
		writeError(w, http.StatusBadRequest, "type must be FILE or FOLDER")
		return
	}
	n, err := s.store.CreateNode(body.ProjectID, body.ParentID, body.Name, body.Kind)
	if err != nil {
		writeError(w, http.StatusNotFound, "project or parent not found")
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteNode(types.ID(chi.URLParam(r, "id"))); err != nil {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleRenameNode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	n, err := s.store.RenameNode(types.ID(chi.URLParam(r, "id")), body.Name)
	if err != nil {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleSaveContent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FileID  types.ID `json:"fileId"`
		Content string   `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	record, err := s.store.SaveContent(body.FileID, body.Content)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleLatestContent(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.LatestContent(types.ID(chi.URLParam(r, "fileID")))
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.History(types.ID(chi.URLParam(r, "fileID")))
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleContentVersion(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid version")
		return
	}
	record, err := s.store.ContentVersion(types.ID(chi.URLParam(r, "fileID")), version)
	if err != nil {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeChat(w, http.StatusOK, s.store.Rooms())
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	writeChat(w, http.StatusCreated, s.store.CreateRoom(body.Name))
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.store.Messages(types.ID(chi.URLParam(r, "roomID")))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeChat(w, http.StatusOK, msgs)
}

func (s *Server) handleSearchMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.store.SearchMessages(types.ID(chi.URLParam(r, "roomID")), r.URL.Query().Get("keyword"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeChat(w, http.StatusOK, msgs)
}
