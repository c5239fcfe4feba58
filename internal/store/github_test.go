package store

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b-editor/docsite/internal/config"
)

func githubTestStore(t *testing.T, handler http.HandlerFunc) *GitHubStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGitHubStore(config.StoreConfig{
		Owner: "b-editor",
		Repo:  "beutl-docs",
		Ref:   "main",
		Token: "test-token",
	}).WithBaseURL(srv.URL)
}

func TestGitHubStore_FileDecodedFromBase64(t *testing.T) {
	st := githubTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/b-editor/beutl-docs/contents/en/README.md", r.URL.Path)
		require.Equal(t, "main", r.URL.Query().Get("ref"))
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		encoded := base64.StdEncoding.EncodeToString([]byte("# Hello\n"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"README.md","path":"en/README.md","type":"file","encoding":"base64","content":"` + encoded + `"}`))
	})

	node, err := st.Get(context.Background(), "en/README.md")
	require.NoError(t, err)
	require.Equal(t, EntryTypeFile, node.Type)
	require.Equal(t, "# Hello\n", node.Content)
}

func TestGitHubStore_DirectoryListingKeepsOrder(t *testing.T) {
	st := githubTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"README.md","path":"en/README.md","type":"file"},
			{"name":"9.last.md","path":"en/9.last.md","type":"file"},
			{"name":"1.first.md","path":"en/1.first.md","type":"file"},
			{"name":"guide","path":"en/guide","type":"dir"}
		]`))
	})

	node, err := st.Get(context.Background(), "en")
	require.NoError(t, err)
	require.Equal(t, EntryTypeDir, node.Type)
	require.Len(t, node.Entries, 4)
	require.Equal(t, "README.md", node.Entries[0].Name)
	require.Equal(t, "9.last.md", node.Entries[1].Name)
	require.Equal(t, "1.first.md", node.Entries[2].Name)
	require.Equal(t, EntryTypeDir, node.Entries[3].Type)
}

func TestGitHubStore_LargeFileRefetchedRaw(t *testing.T) {
	calls := 0
	st := githubTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Accept") == "application/vnd.github.raw+json" {
			_, _ = w.Write([]byte("raw file body"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"big.md","path":"en/big.md","type":"file","encoding":"none","content":""}`))
	})

	node, err := st.Get(context.Background(), "en/big.md")
	require.NoError(t, err)
	require.Equal(t, "raw file body", node.Content)
	require.Equal(t, 2, calls)
}

func TestGitHubStore_NotFound(t *testing.T) {
	st := githubTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := st.Get(context.Background(), "en/missing.md")
	require.True(t, IsNotFound(err))
}

func TestGitHubStore_ServerErrorIsNotNotFound(t *testing.T) {
	st := githubTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := st.Get(context.Background(), "en/README.md")
	require.Error(t, err)
	require.False(t, IsNotFound(err))
}

func TestGitHubStore_PathSegmentsEscaped(t *testing.T) {
	var gotPath string
	st := githubTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	_, _ = st.Get(context.Background(), "en/sub dir/file name.md")
	require.Contains(t, gotPath, "file%20name.md")
	require.NotContains(t, gotPath, " ")
}
