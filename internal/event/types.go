package event

import "github.com/mobidic/webide/pkg/types"

// TreeUpdatedData is the data for tree.updated events.
type TreeUpdatedData struct {
	ProjectID types.ID        `json:"projectId"`
	Root      *types.TreeNode `json:"root"`
}

// FileOpenedData is the data for file.opened events.
type FileOpenedData struct {
	FileID  types.ID `json:"fileId"`
	Path    string   `json:"path"`
	Version int      `json:"version"`
}

// FileSavedData is the data for file.saved events.
type FileSavedData struct {
	FileID  types.ID `json:"fileId"`
	Version int      `json:"version"`
}

// BufferEditedData is the data for buffer.edited events.
type BufferEditedData struct {
	FileID types.ID `json:"fileId"`
	Path   string   `json:"path"`
}

// ExecStateChangeData is the data for exec.state events.
type ExecStateChangeData struct {
	State string `json:"state"`
}

// ExecStartedData is the data for exec.started events.
type ExecStartedData struct {
	Language types.Language `json:"language"`
}

// ExecOutputData is the data for exec.output events. Stream is stdout or
// stderr; Data is forwarded verbatim.
type ExecOutputData struct {
	Stream string `json:"stream"`
	Data   string `json:"data"`
}

// ExecResultData is the data for exec.result events.
type ExecResultData struct {
	ExitCode    *int   `json:"exitCode,omitempty"`
	Result      string `json:"result,omitempty"`
	Performance int64  `json:"performance,omitempty"`
	Stderr      string `json:"stderr,omitempty"`
}

// ExecErrorData is the data for exec.error events. The error is scoped to
// one run; the session stays connected.
type ExecErrorData struct {
	Message string `json:"message"`
}

// SessionClosedData is the data for session.closed events.
type SessionClosedData struct {
	Err string `json:"error,omitempty"`
}

// ChatMessageData is the data for chat.message events (local echo only).
type ChatMessageData struct {
	Message *types.ChatMessage `json:"message"`
}
