// Package types defines the wire and data types shared across the client.
package types

// NodeKind discriminates files from folders in the project tree.
type NodeKind string

const (
	KindFile   NodeKind = "FILE"
	KindFolder NodeKind = "FOLDER"
)

// TreeNode is a single node in the canonical project tree. ID is nil for
// nodes that have not been persisted yet; paths are always derived from
// ancestor names, never stored.
type TreeNode struct {
	ID        *ID         `json:"id,omitempty"`
	Name      string      `json:"name"`
	Kind      NodeKind    `json:"type"`
	ProjectID *ID         `json:"projectId,omitempty"`
	ParentID  *ID         `json:"parentId,omitempty"`
	Children  []*TreeNode `json:"children,omitempty"`
}

// IsFolder reports whether the node is a folder.
func (n *TreeNode) IsFolder() bool {
	return n.Kind == KindFolder
}

// Identity returns the node's ID and whether it has been persisted.
func (n *TreeNode) Identity() (ID, bool) {
	if n.ID == nil {
		return "", false
	}
	return *n.ID, true
}
