package tree

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/mobidic/webide/pkg/types"
)

// substringBand shifts substring-hit scores far below any edit distance a
// real path could produce.
const substringBand = 1 << 20

// Match is a scored quick-open candidate.
type Match struct {
	Path     string
	Node     *types.TreeNode
	Distance int
}

// FuzzyFind ranks file paths against a query by edit distance and returns
// up to limit matches, best first. Paths containing the query as a
// substring rank ahead of pure edit-distance matches.
func FuzzyFind(root *types.TreeNode, query string, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var matches []Match
	Walk(root, func(path string, n *types.TreeNode) {
		if n.IsFolder() || path == "" {
			return
		}
		lower := strings.ToLower(path)
		d := levenshtein.ComputeDistance(query, strings.ToLower(n.Name))
		if strings.Contains(lower, query) {
			// Substring hits win; shorter paths first among them. The
			// band offset keeps every hit below any edit distance.
			d = len(path) - substringBand
		}
		matches = append(matches, Match{Path: path, Node: n, Distance: d})
	})

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Path < matches[j].Path
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Glob returns the derived paths of all files whose path matches the
// doublestar pattern (e.g. "src/**/*.py").
func Glob(root *types.TreeNode, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	var paths []string
	Walk(root, func(path string, n *types.TreeNode) {
		if n.IsFolder() || path == "" {
			return
		}
		if ok, _ := doublestar.Match(pattern, path); ok {
			paths = append(paths, path)
		}
	})
	return paths, nil
}
