package apiref

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeRecord(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func recordDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeRecord(t, dir, "Beutl.Graphics.yml", `items:
- uid: Beutl.Graphics
  name: Beutl.Graphics
  type: Namespace
`)
	writeRecord(t, dir, "Beutl.Graphics.Shapes.Rectangle.yml", `items:
- uid: Beutl.Graphics.Shapes.Rectangle
  name: Rectangle
  type: Class
  namespace: Beutl.Graphics.Shapes
  summary: A rectangle shape.
- uid: Beutl.Graphics.Shapes.Rectangle.Width
  id: Width
  name: Width
  type: Property
`)
	writeRecord(t, dir, "Beutl.Graphics.Shapes.Shape.yml", `items:
- uid: Beutl.Graphics.Shapes.Shape
  name: Shape
  type: Class
  namespace: Beutl.Graphics.Shapes
`)
	writeRecord(t, dir, "Beutl.Graphics.Shapes.ShapeGroup.yml", `items:
- uid: Beutl.Graphics.Shapes.ShapeGroup
  name: ShapeGroup
  type: Class
  namespace: Beutl.Graphics.Shapes
`)
	writeRecord(t, dir, "Beutl.Graphics.Point.yml", `items:
- uid: Beutl.Graphics.Point
  name: Point
  type: Struct
  namespace: Beutl.Graphics
`)
	writeRecord(t, dir, "toc.yml", `- uid: Beutl.Graphics
  name: Beutl.Graphics
  items:
  - uid: Beutl.Graphics.Point
    name: Point
`)
	writeRecord(t, dir, ".manifest", `{}`)
	writeRecord(t, dir, "notes.txt", "not a record")
	return dir
}

func TestLibrary_NamespacesFromRecordScan(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")

	namespaces, err := lib.Namespaces()
	require.NoError(t, err)
	require.Len(t, namespaces, 2)

	// Ordered by name.
	require.Equal(t, "Beutl.Graphics", namespaces[0].Name)
	require.Equal(t, "Beutl.Graphics.Shapes", namespaces[1].Name)

	require.Len(t, namespaces[0].Types, 1)
	require.Equal(t, "Point", namespaces[0].Types[0].Name)

	shapes := namespaces[1]
	require.Len(t, shapes.Types, 3)
	require.Equal(t, "Rectangle", shapes.Types[0].Name)
	require.Equal(t, "Shape", shapes.Types[1].Name)
	require.Equal(t, "ShapeGroup", shapes.Types[2].Name)
}

func TestLibrary_CorruptRecordSkipped(t *testing.T) {
	dir := recordDir(t)
	writeRecord(t, dir, "Beutl.Broken.yml", "items: [unclosed\n")

	namespaces, err := NewLibrary(dir, "Beutl").Namespaces()
	require.NoError(t, err)
	require.Len(t, namespaces, 2)
}

func TestLibrary_DocumentCachedByUID(t *testing.T) {
	dir := recordDir(t)
	lib := NewLibrary(dir, "Beutl")

	first, err := lib.Document("Beutl.Graphics.Shapes.Rectangle")
	require.NoError(t, err)

	// Removing the file does not evict the cached parse.
	require.NoError(t, os.Remove(filepath.Join(dir, "Beutl.Graphics.Shapes.Rectangle.yml")))
	second, err := lib.Document("Beutl.Graphics.Shapes.Rectangle")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestLibrary_UnknownUID(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")
	_, err := lib.Document("Beutl.DoesNotExist")
	var unknown ErrUnknownUID
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "Beutl.DoesNotExist", unknown.UID)
}

func TestLibrary_ItemAndMembers(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")

	item, err := lib.Item("Beutl.Graphics.Shapes.Rectangle")
	require.NoError(t, err)
	require.Equal(t, "Rectangle", item.Name)

	members, err := lib.Members("Beutl.Graphics.Shapes.Rectangle")
	require.NoError(t, err)
	require.Len(t, members.Properties, 1)
}

func TestLibrary_Toc(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")
	entries, err := lib.Toc()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Beutl.Graphics", entries[0].UID)
}

func TestLibrary_AllUIDsSkipsNonRecords(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")
	uids, err := lib.AllUIDs()
	require.NoError(t, err)
	require.Len(t, uids, 5)
	require.NotContains(t, uids, "toc")
	for _, uid := range uids {
		require.NotEmpty(t, uid)
	}
}

func TestLibrary_SearchExactMatchRanksFirst(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")

	results, err := lib.Search("Shape")
	require.NoError(t, err)
	require.Len(t, results, 4)
	require.Equal(t, "Shape", results[0].Name)

	// Partial matches follow, ordered by name. Rectangle matches through
	// its uid, the namespace through its own name.
	require.Equal(t, "Beutl.Graphics.Shapes", results[1].Name)
	require.Equal(t, "Rectangle", results[2].Name)
	require.Equal(t, "ShapeGroup", results[3].Name)
}

func TestLibrary_SearchCaseInsensitive(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")
	results, err := lib.Search("rectangle")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Rectangle", results[0].Name)
}

func TestLibrary_SearchNoMatches(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")
	results, err := lib.Search("zzz-nothing")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestLibrary_InvalidateRebuildsIndex(t *testing.T) {
	dir := recordDir(t)
	lib := NewLibrary(dir, "Beutl")

	before, err := lib.Namespaces()
	require.NoError(t, err)
	require.Len(t, before, 2)

	writeRecord(t, dir, "Beutl.Audio.Sound.yml", `items:
- uid: Beutl.Audio.Sound
  name: Sound
  type: Class
  namespace: Beutl.Audio
`)

	// Without invalidation the index stays cached.
	cached, err := lib.Namespaces()
	require.NoError(t, err)
	require.Len(t, cached, 2)

	lib.Invalidate()
	after, err := lib.Namespaces()
	require.NoError(t, err)
	require.Len(t, after, 3)
}

func TestLibrary_IsExternal(t *testing.T) {
	lib := NewLibrary(recordDir(t), "Beutl")
	require.True(t, lib.IsExternal("System.String"))
	require.False(t, lib.IsExternal("Beutl.Graphics.Point"))
}
