package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobidic/webide/pkg/types"
)

func TestReconcileEmptyPayloads(t *testing.T) {
	for _, payload := range []string{"", "null", "[]", "{}"} {
		root, err := Reconcile(json.RawMessage(payload))
		require.NoError(t, err, "payload %q", payload)
		assert.Equal(t, RootName, root.Name)
		assert.True(t, root.IsFolder())
		assert.Empty(t, root.Children, "payload %q", payload)
	}
}

func TestReconcileFlatScenario(t *testing.T) {
	payload := `[
		{"id":1,"name":"src","type":"FOLDER","parentId":null},
		{"id":2,"name":"a.py","type":"FILE","parentId":1}
	]`

	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)

	require.Len(t, root.Children, 1)
	src := root.Children[0]
	assert.Equal(t, "src", src.Name)
	assert.True(t, src.IsFolder())
	require.Len(t, src.Children, 1)
	assert.Equal(t, "a.py", src.Children[0].Name)

	path, ok := PathOf(root, "2")
	require.True(t, ok)
	assert.Equal(t, "src/a.py", path)
}

func TestReconcileShapeInvariance(t *testing.T) {
	flat := `[
		{"id":1,"name":"src","type":"FOLDER","parentId":null},
		{"id":2,"name":"b.py","type":"FILE","parentId":1},
		{"id":3,"name":"a.py","type":"FILE","parentId":1},
		{"id":4,"name":"README","type":"FILE","parentId":null}
	]`
	forest := `[
		{"id":1,"name":"src","type":"FOLDER","parentId":null,"children":[
			{"id":2,"name":"b.py","type":"FILE","parentId":1},
			{"id":3,"name":"a.py","type":"FILE","parentId":1}
		]},
		{"id":4,"name":"README","type":"FILE","parentId":null,"children":[]}
	]`
	singleRoot := `{"name":"root","type":"FOLDER","children":[
		{"id":4,"name":"README","type":"FILE","parentId":null},
		{"id":1,"name":"src","type":"FOLDER","parentId":null,"children":[
			{"id":3,"name":"a.py","type":"FILE","parentId":1},
			{"id":2,"name":"b.py","type":"FILE","parentId":1}
		]}
	]}`

	var trees []*types.TreeNode
	for _, payload := range []string{flat, forest, singleRoot} {
		root, err := Reconcile(json.RawMessage(payload))
		require.NoError(t, err)
		trees = append(trees, root)
	}

	want := skeleton(trees[0])
	for i, tr := range trees[1:] {
		assert.Equal(t, want, skeleton(tr), "shape %d differs", i+1)
	}
}

// skeleton flattens a tree into comparable (path, kind) pairs in child order.
func skeleton(root *types.TreeNode) []string {
	var out []string
	Walk(root, func(path string, n *types.TreeNode) {
		if path == "" {
			return
		}
		out = append(out, path+"|"+string(n.Kind))
	})
	return out
}

func TestReconcileOrphanSafety(t *testing.T) {
	payload := `[
		{"id":1,"name":"lost.py","type":"FILE","parentId":99},
		{"id":2,"name":"doc.txt","type":"FILE","parentId":3},
		{"id":3,"name":"notes.txt","type":"FILE","parentId":null}
	]`

	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)

	// id=1's parent is absent, id=2's parent is a FILE: both land on root.
	require.Len(t, root.Children, 3)
	names := []string{root.Children[0].Name, root.Children[1].Name, root.Children[2].Name}
	assert.Equal(t, []string{"doc.txt", "lost.py", "notes.txt"}, names)
}

func TestReconcileSortStability(t *testing.T) {
	payload := `[
		{"id":1,"name":"top","type":"FOLDER","parentId":null},
		{"id":2,"name":"b","type":"FILE","parentId":1},
		{"id":3,"name":"a","type":"FOLDER","parentId":1},
		{"id":4,"name":"a","type":"FILE","parentId":1}
	]`

	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)

	top := root.Children[0]
	require.Len(t, top.Children, 3)
	assert.Equal(t, "a", top.Children[0].Name)
	assert.True(t, top.Children[0].IsFolder(), "folder first")
	assert.Equal(t, "a", top.Children[1].Name)
	assert.Equal(t, types.KindFile, top.Children[1].Kind)
	assert.Equal(t, "b", top.Children[2].Name)
}

func TestReconcileAdoptsCanonicalRoot(t *testing.T) {
	payload := `{"id":10,"name":"root","type":"FOLDER","children":[
		{"id":11,"name":"main.py","type":"FILE","parentId":10}
	]}`

	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)

	// Adopted as root, not wrapped under a second synthetic root.
	require.NotNil(t, root.ID)
	assert.Equal(t, types.ID("10"), *root.ID)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "main.py", root.Children[0].Name)
}

func TestReconcileWrapsNonRootObject(t *testing.T) {
	payload := `{"id":10,"name":"src","type":"FOLDER","children":[]}`

	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)

	assert.Equal(t, RootName, root.Name)
	assert.Nil(t, root.ID)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "src", root.Children[0].Name)
}

func TestReconcileStripsFileChildren(t *testing.T) {
	payload := `[{"id":1,"name":"a.py","type":"FILE","parentId":null,"children":[]}]`

	root, err := Reconcile(json.RawMessage(payload))
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Nil(t, root.Children[0].Children)
}

func TestReconcileMalformedPayload(t *testing.T) {
	_, err := Reconcile(json.RawMessage(`"just a string"`))
	assert.Error(t, err)

	_, err = Reconcile(json.RawMessage(`[{]`))
	assert.Error(t, err)
}
