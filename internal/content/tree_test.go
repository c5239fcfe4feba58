package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b-editor/docsite/internal/store"
)

func docsStore() *store.MemStore {
	st := store.NewMemStore()
	st.Add("en/README.md", "---\ntitle: Documentation\n---\nWelcome.\n")
	st.Add("en/get-started/README.md", "---\ntitle: Get Started\n---\nIntro.\n")
	st.Add("en/get-started/1.install.md", "---\ntitle: Install\n---\nInstall steps.\n")
	st.Add("en/get-started/2.first-project.md", "---\ntitle: First Project\n---\nSteps.\n")
	st.Add("en/get-started/9.internal.md", "---\ntitle: Hidden\ntype: ignore\n---\nHidden.\n")
	st.Add("en/guide/README.md", "---\ntitle: Guide\n---\nGuide.\n")
	st.Add("en/guide/drawing.md", "---\ntitle: Drawing\n---\nDrawing.\n")
	st.Add("en/_templates/snippet.md", "---\ntitle: Snippet\n---\nTemplate.\n")
	return st
}

func TestBuildTree_Recursive(t *testing.T) {
	tree, err := BuildTree(context.Background(), docsStore(), "en", "en", true)
	require.NoError(t, err)

	require.Equal(t, "Documentation", tree.Title)
	require.Equal(t, "/", tree.Path)
	require.Len(t, tree.Children, 2)

	start := tree.Children[0]
	require.Equal(t, "Get Started", start.Title)
	require.Equal(t, "/get-started", start.Path)
	require.Len(t, start.Children, 2)
	require.Equal(t, "Install", start.Children[0].Title)
	require.Equal(t, "/get-started/install", start.Children[0].Path)
	require.Equal(t, "First Project", start.Children[1].Title)

	guide := tree.Children[1]
	require.Equal(t, "Guide", guide.Title)
	require.Len(t, guide.Children, 1)
}

func TestBuildTree_NonRecursiveDirectoriesStayUnexpanded(t *testing.T) {
	tree, err := BuildTree(context.Background(), docsStore(), "en", "en", false)
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)
	require.Equal(t, "Get Started", tree.Children[0].Title)
	require.Empty(t, tree.Children[0].Children)
}

func TestBuildTree_IgnoredFileExcluded(t *testing.T) {
	tree, err := BuildTree(context.Background(), docsStore(), "en", "en/get-started", true)
	require.NoError(t, err)

	for _, child := range tree.Children {
		require.NotEqual(t, "Hidden", child.Title)
	}
	require.Len(t, tree.Children, 2)
}

func TestBuildTree_UnderscoreEntriesSkipped(t *testing.T) {
	tree, err := BuildTree(context.Background(), docsStore(), "en", "en", true)
	require.NoError(t, err)

	for _, child := range tree.Children {
		require.NotEqual(t, "/_templates", child.Path)
	}
}

func TestBuildTree_ReadmeTitlePromoted(t *testing.T) {
	tree, err := BuildTree(context.Background(), docsStore(), "en", "en/guide", true)
	require.NoError(t, err)
	require.Equal(t, "Guide", tree.Title)
}

func TestBuildTree_MissingReadmeFallsBackToSegment(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/misc/notes.md", "---\ntitle: Notes\n---\nNotes.\n")

	tree, err := BuildTree(context.Background(), st, "en", "en/misc", true)
	require.NoError(t, err)
	require.Equal(t, "misc", tree.Title)
}

func TestBuildTree_PreservesListingOrder(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/g/zeta.md", "---\ntitle: Zeta\n---\nZ.\n")
	st.Add("en/g/alpha.md", "---\ntitle: Alpha\n---\nA.\n")

	tree, err := BuildTree(context.Background(), st, "en", "en/g", true)
	require.NoError(t, err)
	require.Len(t, tree.Children, 2)
	require.Equal(t, "Zeta", tree.Children[0].Title)
	require.Equal(t, "Alpha", tree.Children[1].Title)
}

func TestBuildTree_FrontmatterFetchErrorTreatsFileAsAbsent(t *testing.T) {
	st := docsStore()
	st.FailWith("en/guide/drawing.md", context.DeadlineExceeded)

	tree, err := BuildTree(context.Background(), st, "en", "en/guide", true)
	require.NoError(t, err)
	require.Empty(t, tree.Children)
}
