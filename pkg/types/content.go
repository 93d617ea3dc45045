package types

// FileContent is one immutable version of a file's content. Versions are
// append-only: each save creates a new record with a higher version number
// and prior records are never rewritten.
type FileContent struct {
	ID        *ID    `json:"id,omitempty"`
	FileID    ID     `json:"fileId"`
	Content   string `json:"content"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt,omitempty"`
}
