package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b-editor/docsite/internal/store"
)

func TestResolve_SiblingFileExactName(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/guide/drawing.md", "---\ntitle: Drawing\n---\nBody.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"guide", "drawing"})
	require.NoError(t, err)
	require.Equal(t, "en/guide/drawing.md", doc.Path)
	require.Contains(t, doc.Content, "Body.")
}

func TestResolve_SiblingFileWithOrderingPrefix(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/get-started/1.install.md", "---\ntitle: Install\n---\nSteps.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"get-started", "install"})
	require.NoError(t, err)
	require.Equal(t, "en/get-started/1.install.md", doc.Path)
}

func TestResolve_ExactNameWinsByListingOrder(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/g/install.md", "---\ntitle: Plain\n---\nPlain.\n")
	st.Add("en/g/1.install.md", "---\ntitle: Prefixed\n---\nPrefixed.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"g", "install"})
	require.NoError(t, err)
	require.Equal(t, "en/g/install.md", doc.Path)
}

func TestResolve_SingleSegmentLooksInLanguageRoot(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/faq.md", "---\ntitle: FAQ\n---\nAnswers.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"faq"})
	require.NoError(t, err)
	require.Equal(t, "en/faq.md", doc.Path)
}

func TestResolve_DirectoryFallsBackToReadme(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/guide/README.md", "---\ntitle: Guide\n---\nOverview.\n")
	st.Add("en/guide/drawing.md", "---\ntitle: Drawing\n---\nD.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"guide"})
	require.NoError(t, err)
	require.Equal(t, "en/guide/README.md", doc.Path)
}

func TestResolve_EmptySlugResolvesLanguageRootReadme(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/README.md", "---\ntitle: Docs\n---\nWelcome.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", nil)
	require.NoError(t, err)
	require.Equal(t, "en/README.md", doc.Path)
}

func TestResolve_MissingDocumentReturnsNotFound(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/README.md", "---\ntitle: Docs\n---\nWelcome.\n")

	_, err := NewResolver(st).Resolve(context.Background(), "en", []string{"nope"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_IgnoreTypedDocumentNotFound(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/internal.md", "---\ntitle: Internal\ntype: ignore\n---\nSecret.\n")

	_, err := NewResolver(st).Resolve(context.Background(), "en", []string{"internal"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_IgnoreShortCircuitsLaterStrategies(t *testing.T) {
	// A sibling-file hit marked ignore must not fall through to the
	// path-or-readme strategy even though that one would also match.
	st := store.NewMemStore()
	st.Add("en/guide.md", "---\ntype: ignore\n---\nIgnored.\n")
	st.Add("en/guide/README.md", "---\ntitle: Guide\n---\nVisible.\n")

	_, err := NewResolver(st).Resolve(context.Background(), "en", []string{"guide"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_MalformedFrontmatterNotFound(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/bad.md", "---\ntitle: [unclosed\n---\nBody.\n")

	_, err := NewResolver(st).Resolve(context.Background(), "en", []string{"bad"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_StrategyErrorIsSoft(t *testing.T) {
	// Listing the parent directory fails, but the full-path strategy still
	// finds the file.
	st := store.NewMemStore()
	st.Add("en/guide/drawing.md", "---\ntitle: Drawing\n---\nBody.\n")
	st.FailWith("en/guide", errors.New("listing outage"))

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"guide", "drawing.md"})
	require.NoError(t, err)
	require.Equal(t, "en/guide/drawing.md", doc.Path)
}

func TestResolve_AutoDocumentReducesToDescription(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/notes.md", "---\ntitle: Notes\ndescription: Short summary.\ntype: auto\n---\nOriginal body.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"notes"})
	require.NoError(t, err)
	require.Equal(t, "Short summary.", doc.Content)
	require.Equal(t, "en/notes.md", doc.Path)
}

func TestResolve_AutoReadmeSynthesizesChildIndex(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/guide/README.md", "---\ntitle: Guide\ndescription: All guides.\ntype: auto\n---\n")
	st.Add("en/guide/1.drawing.md", "---\ntitle: Drawing\n---\nD.\n")
	st.Add("en/guide/2.audio.md", "---\ntitle: Audio\n---\nA.\n")

	doc, err := NewResolver(st).Resolve(context.Background(), "en", []string{"guide"})
	require.NoError(t, err)
	require.Contains(t, doc.Content, "title: Guide")
	require.Contains(t, doc.Content, "All guides.")
	require.Contains(t, doc.Content, "- [Drawing](/en/guide/drawing)")
	require.Contains(t, doc.Content, "- [Audio](/en/guide/audio)")
	require.Equal(t, "en/guide/README.md", doc.Path)
}

func TestFrontmatter_UnresolvableSlugIsIgnoreTyped(t *testing.T) {
	st := store.NewMemStore()
	fm := NewResolver(st).Frontmatter(context.Background(), "en", []string{"missing"})
	require.Equal(t, DocTypeIgnore, fm.Type)
}

func TestAncestors_TitlesFromReadmes(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/guide/README.md", "---\ntitle: Guide\n---\nG.\n")
	st.Add("en/guide/effects/README.md", "---\ntitle: Effects\n---\nE.\n")
	st.Add("en/guide/effects/blur.md", "---\ntitle: Blur\n---\nB.\n")

	crumbs := Ancestors(context.Background(), st, "en", []string{"guide", "effects", "blur"})
	require.Equal(t, []Crumb{
		{Title: "Guide", Path: "/en/guide"},
		{Title: "Effects", Path: "/en/guide/effects"},
	}, crumbs)
}

func TestAncestors_PrefixWithoutTitleSkipped(t *testing.T) {
	st := store.NewMemStore()
	st.Add("en/guide/effects/README.md", "---\ntitle: Effects\n---\nE.\n")
	st.Add("en/guide/effects/blur.md", "---\ntitle: Blur\n---\nB.\n")

	crumbs := Ancestors(context.Background(), st, "en", []string{"guide", "effects", "blur"})
	require.Equal(t, []Crumb{{Title: "Effects", Path: "/en/guide/effects"}}, crumbs)
}

func TestAncestors_ShortSlugHasNoCrumbs(t *testing.T) {
	st := store.NewMemStore()
	require.Empty(t, Ancestors(context.Background(), st, "en", []string{"guide"}))
}
