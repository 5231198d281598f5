package manager

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prerrors "github.com/prettyresults/prettyresults/internal/errors"
	"github.com/prettyresults/prettyresults/internal/results"
)

func TestOpen_CreatesRoot(t *testing.T) {
	// Given: a directory that does not exist yet
	dir := filepath.Join(t.TempDir(), "results")

	// When: opening it
	m, err := Open(dir)
	require.NoError(t, err)

	// Then: the directory exists and holds only the root container
	_, err = os.Stat(dir)
	require.NoError(t, err)
	root, ok := m.Get(RootID)
	require.True(t, ok)
	assert.Equal(t, RootName, root.Name)
	assert.Equal(t, results.TypeContainer, root.Type)
	assert.Equal(t, 1, m.Len())
}

func TestOpen_CorruptDataStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DataFileName), []byte("{not json"), 0o644))

	m, err := Open(dir)

	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestOpen_TempDirRemovedOnClose(t *testing.T) {
	m, err := Open("")
	require.NoError(t, err)
	dir := m.Dir()
	_, err = os.Stat(dir)
	require.NoError(t, err)

	require.NoError(t, m.Close())

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestContainer_QualifiedIDs(t *testing.T) {
	// Given: a fresh manager
	m, err := Open(t.TempDir())
	require.NoError(t, err)

	// When: nesting containers and leaves
	desc, err := m.Root().AddContainer("desc", "Descriptives")
	require.NoError(t, err)
	tbl, err := desc.AddTable("age", "Age", []string{"Stat", "Value"}, [][]string{{"mean", "41.2"}},
		WithPre("Before"), WithPost("After"), WithLabels(results.Label{Color: "info", Text: "n=120"}))
	require.NoError(t, err)

	// Then: ids are dotted paths from the root
	assert.Equal(t, results.ID("root.desc"), desc.ID())
	assert.Equal(t, results.ID("root.desc.age"), tbl.ID())

	node := tbl.Node()
	assert.Equal(t, "Before", node.Data.Pre)
	assert.Equal(t, "After", node.Data.Post)
	assert.Equal(t, []results.Label{{Color: "info", Text: "n=120"}}, node.Labels)

	root, _ := m.Get(RootID)
	assert.Equal(t, []results.ID{"root.desc"}, root.Children)

	child, ok := desc.Child("age")
	require.True(t, ok)
	assert.Equal(t, "Age", child.Name)
}

func TestContainer_RejectsDottedAndEmptyIDs(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = m.Root().AddContainer("a.b", "Bad")
	assert.Equal(t, prerrors.ErrCodeInvalidID, prerrors.GetCode(err))

	_, err = m.Root().AddTable("", "Bad", nil, nil)
	assert.Equal(t, prerrors.ErrCodeInvalidID, prerrors.GetCode(err))

	assert.Equal(t, 1, m.Len())
}

func TestContainer_ReAddMergesChildren(t *testing.T) {
	// Given: a container with a child
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	c, err := m.Root().AddContainer("c", "First")
	require.NoError(t, err)
	_, err = c.AddKeyValueTable("kv", "KV", [][]string{{"a", "1"}})
	require.NoError(t, err)

	// When: re-adding the container under the same id
	c2, err := m.Root().AddContainer("c", "Second")
	require.NoError(t, err)

	// Then: the new result keeps the old children and is linked once
	node := c2.Node()
	assert.Equal(t, "Second", node.Name)
	assert.Equal(t, []results.ID{"root.c.kv"}, node.Children)
	root, _ := m.Get(RootID)
	assert.Equal(t, []results.ID{"root.c"}, root.Children)
	assert.Equal(t, 3, m.Len())
}

func TestContainer_AddFigureWritesImage(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)

	fig, err := m.Root().AddFigure("hist", "Histogram", []byte("PNGDATA"), WithFormat(".png"))
	require.NoError(t, err)

	assert.Equal(t, "root.hist.png", fig.Node().Data.Filename)
	data, err := os.ReadFile(filepath.Join(dir, "root.hist.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
}

func TestContainer_AddFigureWithoutImage(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)

	fig, err := m.Root().AddFigure("old", "Old", nil)
	require.NoError(t, err)

	assert.Equal(t, "root.old.jpg", fig.Node().Data.Filename)
	_, err = os.Stat(filepath.Join(dir, "root.old.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestContainer_KeyValueTable(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)

	kv, err := m.Root().AddKeyValueTable("n", "Sample", [][]string{{"N", "120"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Nombre", "Valor"}, kv.Node().Data.Headings)
}

func TestTable_RowWidth(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = m.Root().AddTable("t", "T", []string{"a", "b"}, [][]string{{"1"}})
	assert.Equal(t, prerrors.ErrCodeInvalidInput, prerrors.GetCode(err))

	tbl, err := m.Root().AddTable("t", "T", []string{"a", "b"}, nil)
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow("1", "2"))
	assert.Error(t, tbl.AddRow("1"))
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Node().Data.Rows)
}

func TestResult_AddRowOnlyForTables(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	c, err := m.Root().AddContainer("c", "C")
	require.NoError(t, err)

	assert.Error(t, c.AddRow("x"))
}

func TestResult_SetLabels(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	c, err := m.Root().AddContainer("c", "C")
	require.NoError(t, err)

	c.SetLabels(results.Label{Color: "danger", Text: "!"})

	assert.Equal(t, []results.Label{{Color: "danger", Text: "!"}}, c.Node().Labels)
}

func TestManager_GetReturnsCopy(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	_, err = m.Root().AddContainer("c", "C")
	require.NoError(t, err)

	root, _ := m.Get(RootID)
	root.Children[0] = "mutated"

	again, _ := m.Get(RootID)
	assert.Equal(t, results.ID("root.c"), again.Children[0])
}

func TestManager_Container(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	_, err = m.Root().AddContainer("c", "C")
	require.NoError(t, err)
	_, err = m.Root().AddKeyValueTable("t", "T", nil)
	require.NoError(t, err)

	c, err := m.Container("root.c")
	require.NoError(t, err)
	assert.Equal(t, results.ID("root.c"), c.ID())

	_, err = m.Container("root.t")
	assert.Error(t, err)
	_, err = m.Container("root.missing")
	assert.Equal(t, prerrors.ErrCodeMissingNode, prerrors.GetCode(err))
}

func TestManager_CreateContainers(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)

	err = m.CreateContainers([]ContainerSpec{
		{ID: "desc", Name: "Descriptives", Children: []ContainerSpec{
			{ID: "num", Name: "Numeric"},
			{ID: "cat", Name: "Categorical"},
		}},
		{ID: "cross", Name: "Crosses"},
	})
	require.NoError(t, err)

	desc, ok := m.Get("root.desc")
	require.True(t, ok)
	assert.Equal(t, []results.ID{"root.desc.num", "root.desc.cat"}, desc.Children)
	_, ok = m.Get("root.cross")
	assert.True(t, ok)
	assert.Equal(t, 5, m.Len())
}

func TestManager_CreateContainersStopsOnBadID(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)

	err = m.CreateContainers([]ContainerSpec{{ID: "a.b", Name: "Bad"}})

	assert.Error(t, err)
}

func TestManager_DumpAndReopen(t *testing.T) {
	// Given: a populated manager
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)
	c, err := m.Root().AddContainer("c", "C")
	require.NoError(t, err)
	_, err = c.AddKeyValueTable("kv", "KV", [][]string{{"a", "1"}})
	require.NoError(t, err)

	// When: dumping and reopening the directory
	require.NoError(t, m.Dump())
	reopened, err := Open(dir)
	require.NoError(t, err)

	// Then: the same set comes back in the same order
	assert.Equal(t, m.ResultSet(), reopened.ResultSet())
	_, err = os.Stat(filepath.Join(dir, LockFileName))
	assert.NoError(t, err)

	// And: the dumped payload indexes cleanly
	set, err := results.ReadFile(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	tree, err := results.Index(set)
	require.NoError(t, err)
	assert.NoError(t, tree.Validate())
	assert.Equal(t, "root.c", string(tree.RootChildren[0].ID))
}

func TestManager_ReopenKeepsChildrenWhenReAdding(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)
	c, err := m.Root().AddContainer("c", "C")
	require.NoError(t, err)
	_, err = c.AddFigure("f", "F", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, m.Dump())

	// A second run only re-adds the container.
	m2, err := Open(dir)
	require.NoError(t, err)
	c2, err := m2.Root().AddContainer("c", "C renamed")
	require.NoError(t, err)

	assert.Equal(t, []results.ID{"root.c.f"}, c2.Node().Children)
}

func TestManager_ResultSetOrder(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)
	_, err = m.Root().AddContainer("b", "B")
	require.NoError(t, err)
	_, err = m.Root().AddContainer("a", "A")
	require.NoError(t, err)

	set := m.ResultSet()

	assert.Equal(t, RootID, set.RootResult)
	var ids []results.ID
	for _, n := range set.Results {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []results.ID{"root", "root.b", "root.a"}, ids)
}

func TestManager_ConcurrentAdds(t *testing.T) {
	m, err := Open(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = m.Root().AddKeyValueTable(string(rune('a'+i)), "T", nil)
		}(i)
	}
	wg.Wait()

	root, _ := m.Get(RootID)
	assert.Len(t, root.Children, 20)
	assert.Equal(t, 21, m.Len())
}

func TestManager_ConcurrentDumps(t *testing.T) {
	// Given: a manager shared by several writers
	dir := t.TempDir()
	m, err := Open(dir)
	require.NoError(t, err)

	// When: each writer adds a result and dumps
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := m.Root().AddContainer(string(rune('a'+i)), "C"); err != nil {
				errs <- err
				return
			}
			errs <- m.Dump()
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Then: the last dump on disk holds every writer's result
	set, err := results.ReadFile(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	assert.Len(t, set.Results, 9)
	assert.False(t, m.lock.IsLocked())

	// And: no temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".data-", e.Name())
	}
}
