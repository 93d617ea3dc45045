package tree

import (
	"strings"

	"github.com/mobidic/webide/pkg/types"
)

// FindByID returns the node with the given identity, or nil. Nodes without
// an identity (not yet persisted) never match.
func FindByID(root *types.TreeNode, id types.ID) *types.TreeNode {
	if root == nil {
		return nil
	}
	stack := []*types.TreeNode{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cid, ok := cur.Identity(); ok && cid == id {
			return cur
		}
		stack = append(stack, cur.Children...)
	}
	return nil
}

// PathOf returns the delimiter-joined name chain from the root down to the
// node with the given identity. The root itself yields "". A missing
// identity yields "" with found=false.
func PathOf(root *types.TreeNode, id types.ID) (path string, found bool) {
	if root == nil {
		return "", false
	}
	if rid, ok := root.Identity(); ok && rid == id {
		return "", true
	}
	var walk func(n *types.TreeNode, prefix string) (string, bool)
	walk = func(n *types.TreeNode, prefix string) (string, bool) {
		for _, c := range n.Children {
			p := c.Name
			if prefix != "" {
				p = prefix + Delimiter + c.Name
			}
			if cid, ok := c.Identity(); ok && cid == id {
				return p, true
			}
			if c.IsFolder() {
				if got, ok := walk(c, p); ok {
					return got, true
				}
			}
		}
		return "", false
	}
	return walk(root, "")
}

// NodeAtPath resolves a normalized path to a node. An empty path resolves
// to the root.
func NodeAtPath(root *types.TreeNode, path string) *types.TreeNode {
	if root == nil {
		return nil
	}
	path = NormalizePath(path)
	if path == "" {
		return root
	}
	cur := root
	for _, seg := range strings.Split(path, Delimiter) {
		var next *types.TreeNode
		for _, c := range cur.Children {
			if c.Name == seg {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// NormalizePath converts backslashes to the delimiter, collapses repeated
// delimiters, and trims leading/trailing ones.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	path = strings.ReplaceAll(path, "\\", Delimiter)
	for strings.Contains(path, Delimiter+Delimiter) {
		path = strings.ReplaceAll(path, Delimiter+Delimiter, Delimiter)
	}
	return strings.Trim(path, Delimiter)
}

// Walk visits every node under root in depth-first order, passing each
// node's derived path. The root itself is visited with an empty path.
func Walk(root *types.TreeNode, fn func(path string, n *types.TreeNode)) {
	if root == nil {
		return
	}
	var walk func(n *types.TreeNode, prefix string)
	walk = func(n *types.TreeNode, prefix string) {
		fn(prefix, n)
		for _, c := range n.Children {
			p := c.Name
			if prefix != "" {
				p = prefix + Delimiter + c.Name
			}
			walk(c, p)
		}
	}
	walk(root, "")
}
