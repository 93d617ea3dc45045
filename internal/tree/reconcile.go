// Package tree normalizes server file-listing payloads into one canonical
// addressable tree and provides lookups over it.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mobidic/webide/pkg/types"
)

const (
	// RootName is the name of the synthetic root folder. The root itself
	// has no path.
	RootName = "root"
	// Delimiter separates path segments.
	Delimiter = "/"
)

// shape is the detected form of a server tree payload.
type shape int

const (
	shapeEmpty shape = iota
	// shapeForest: an array of top-level nodes already carrying nested children.
	shapeForest
	// shapeSingleRoot: one object already carrying nested children.
	shapeSingleRoot
	// shapeFlat: a flat array of records with parent identities.
	shapeFlat
)

// Reconcile turns a server payload of any supported shape into the
// canonical tree. The same logical hierarchy produces a structurally
// identical tree regardless of how the server chose to serialize it.
func Reconcile(payload json.RawMessage) (*types.TreeNode, error) {
	root := &types.TreeNode{Name: RootName, Kind: types.KindFolder}

	s, err := detectShape(payload)
	if err != nil {
		return nil, err
	}

	switch s {
	case shapeEmpty:
		// root with no children

	case shapeForest:
		var nodes []*types.TreeNode
		if err := json.Unmarshal(payload, &nodes); err != nil {
			return nil, fmt.Errorf("tree: decode forest payload: %w", err)
		}
		for _, n := range nodes {
			if n == nil {
				continue
			}
			normalize(n)
			root.Children = append(root.Children, n)
		}

	case shapeSingleRoot:
		var node types.TreeNode
		if err := json.Unmarshal(payload, &node); err != nil {
			return nil, fmt.Errorf("tree: decode root payload: %w", err)
		}
		normalize(&node)
		if node.Name == RootName {
			root = &node
		} else {
			root.Children = append(root.Children, &node)
		}

	case shapeFlat:
		var records []*types.TreeNode
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("tree: decode flat payload: %w", err)
		}
		attachFlat(root, records)
	}

	sortTree(root)
	return root, nil
}

// detectShape inspects the payload without committing to a decode of the
// whole structure. Detection happens once, up front; the normalization
// below never branches on shape again.
func detectShape(payload json.RawMessage) (shape, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return shapeEmpty, nil
	}

	switch trimmed[0] {
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return 0, fmt.Errorf("tree: malformed payload: %w", err)
		}
		if isArray(probe["children"]) {
			return shapeSingleRoot, nil
		}
		// A bare object without children carries no hierarchy.
		return shapeEmpty, nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return 0, fmt.Errorf("tree: malformed payload: %w", err)
		}
		if len(elems) == 0 {
			return shapeEmpty, nil
		}
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(elems[0], &probe); err != nil {
			return 0, fmt.Errorf("tree: malformed payload element: %w", err)
		}
		if isArray(probe["children"]) {
			return shapeForest, nil
		}
		return shapeFlat, nil

	default:
		return 0, fmt.Errorf("tree: unsupported payload shape")
	}
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// normalize strips children from files recursively. Some backends include
// an empty children array on FILE records.
func normalize(n *types.TreeNode) {
	if !n.IsFolder() {
		n.Children = nil
		return
	}
	for _, c := range n.Children {
		normalize(c)
	}
}

// attachFlat links flat records to their parents in one pass. A record
// whose declared parent is missing from the batch, or whose parent is not
// a folder, attaches to the root instead of being dropped.
func attachFlat(root *types.TreeNode, records []*types.TreeNode) {
	byID := make(map[types.ID]*types.TreeNode, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rec.Children = nil
		if id, ok := rec.Identity(); ok {
			byID[id] = rec
		}
	}

	for _, rec := range records {
		if rec == nil {
			continue
		}
		if rec.ParentID == nil {
			root.Children = append(root.Children, rec)
			continue
		}
		parent, ok := byID[*rec.ParentID]
		if !ok || !parent.IsFolder() {
			root.Children = append(root.Children, rec)
			continue
		}
		parent.Children = append(parent.Children, rec)
	}
}

// sortTree orders every folder's children recursively: folders before
// files, then case-sensitive lexicographic by name.
func sortTree(n *types.TreeNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsFolder() {
			sortTree(c)
		}
	}
}
