package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobidic/webide/pkg/types"
)

func sampleTree(t *testing.T) *types.TreeNode {
	t.Helper()
	payload := `[
		{"id":1,"name":"src","type":"FOLDER","parentId":null},
		{"id":2,"name":"components","type":"FOLDER","parentId":1},
		{"id":3,"name":"App.java","type":"FILE","parentId":2},
		{"id":4,"name":"main.py","type":"FILE","parentId":1},
		{"id":5,"name":"README.md","type":"FILE","parentId":null}
	]`
	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)
	return root
}

func TestFindByID(t *testing.T) {
	root := sampleTree(t)

	n := FindByID(root, "3")
	require.NotNil(t, n)
	assert.Equal(t, "App.java", n.Name)

	assert.Nil(t, FindByID(root, "999"))
	assert.Nil(t, FindByID(nil, "1"))
}

func TestFindByIDSkipsUnpersistedNodes(t *testing.T) {
	root := &types.TreeNode{Name: RootName, Kind: types.KindFolder, Children: []*types.TreeNode{
		{Name: "draft.py", Kind: types.KindFile},
	}}
	assert.Nil(t, FindByID(root, ""), "nodes without identity never match")
}

func TestPathOfIsIdempotent(t *testing.T) {
	root := sampleTree(t)

	first, ok := PathOf(root, "3")
	require.True(t, ok)
	second, ok := PathOf(root, "3")
	require.True(t, ok)

	assert.Equal(t, "src/components/App.java", first)
	assert.Equal(t, first, second)
}

func TestPathRoundTrip(t *testing.T) {
	root := sampleTree(t)

	for _, id := range []types.ID{"1", "2", "3", "4", "5"} {
		path, ok := PathOf(root, id)
		require.True(t, ok, "id %s", id)
		node := NodeAtPath(root, path)
		require.NotNil(t, node, "path %s", path)
		got, ok := node.Identity()
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestPathOfRoot(t *testing.T) {
	root := sampleTree(t)

	_, ok := PathOf(root, "nope")
	assert.False(t, ok)

	// Root with an identity yields the empty path.
	id := types.ID("r")
	root.ID = &id
	path, ok := PathOf(root, "r")
	require.True(t, ok)
	assert.Equal(t, "", path)
}

func TestNodeAtPath(t *testing.T) {
	root := sampleTree(t)

	assert.Equal(t, root, NodeAtPath(root, ""))
	assert.Equal(t, "main.py", NodeAtPath(root, "src/main.py").Name)
	assert.Nil(t, NodeAtPath(root, "src/missing.py"))
	assert.Equal(t, "App.java", NodeAtPath(root, "//src\\components/App.java/").Name)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/", ""},
		{"a/b", "a/b"},
		{"/a//b/", "a/b"},
		{"a\\b\\c", "a/b/c"},
		{"///a////b", "a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePath(tt.in), "input %q", tt.in)
	}
}

func TestFuzzyFind(t *testing.T) {
	root := sampleTree(t)

	matches := FuzzyFind(root, "app", 5)
	require.NotEmpty(t, matches)
	assert.Equal(t, "src/components/App.java", matches[0].Path)

	assert.Empty(t, FuzzyFind(root, "", 5))
	assert.Empty(t, FuzzyFind(root, "app", 0))

	one := FuzzyFind(root, "main", 1)
	require.Len(t, one, 1)
	assert.Equal(t, "src/main.py", one[0].Path)
}

func TestFuzzyFindShorterSubstringHitRanksFirst(t *testing.T) {
	payload := `[
		{"id":1,"name":"main.py","type":"FILE","parentId":null},
		{"id":2,"name":"deeply","type":"FOLDER","parentId":null},
		{"id":3,"name":"nested","type":"FOLDER","parentId":2},
		{"id":4,"name":"main.py","type":"FILE","parentId":3},
		{"id":5,"name":"zzz.py","type":"FILE","parentId":null}
	]`
	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)

	matches := FuzzyFind(root, "main", 5)
	require.Len(t, matches, 3)
	assert.Equal(t, "main.py", matches[0].Path)
	assert.Equal(t, "deeply/nested/main.py", matches[1].Path)
	// The non-substring candidate trails both hits.
	assert.Equal(t, "zzz.py", matches[2].Path)
}

func TestGlob(t *testing.T) {
	root := sampleTree(t)

	paths, err := Glob(root, "src/**/*.java")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/components/App.java"}, paths)

	paths, err = Glob(root, "*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, paths)

	_, err = Glob(root, "[")
	assert.Error(t, err)
}
