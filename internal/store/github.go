package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/b-editor/docsite/internal/config"
)

// GitHubStore reads the content repository through the GitHub contents API.
//
// Directory listings arrive as JSON arrays in the store's native order. File
// content arrives base64-encoded, or with encoding "none" for large blobs, in
// which case a second request in raw media type fetches the text directly.
type GitHubStore struct {
	owner  string
	repo   string
	ref    string
	token  string
	apiURL string
	client *http.Client
}

// NewGitHubStore creates a store over the configured GitHub repository.
func NewGitHubStore(cfg config.StoreConfig) *GitHubStore {
	return &GitHubStore{
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		ref:    cfg.Ref,
		token:  cfg.Token,
		apiURL: "https://api.github.com",
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint (tests point it at a local server).
func (g *GitHubStore) WithBaseURL(base string) *GitHubStore {
	g.apiURL = strings.TrimSuffix(base, "/")
	return g
}

type githubContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Get retrieves the node at path.
func (g *GitHubStore) Get(ctx context.Context, path string) (*Node, error) {
	body, err := g.request(ctx, path, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	// A directory listing is a JSON array; a file is a single object.
	trimmed := strings.TrimLeft(string(body), " \t\r\n")
	if strings.HasPrefix(trimmed, "[") {
		var items []githubContent
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode directory listing for %s: %w", path, err)
		}
		entries := make([]DirEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, DirEntry{
				Name: item.Name,
				Type: entryType(item.Type),
				Path: item.Path,
			})
		}
		return &Node{Path: path, Type: EntryTypeDir, Entries: entries}, nil
	}

	var item githubContent
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decode content for %s: %w", path, err)
	}
	if item.Type != "file" {
		return nil, fmt.Errorf("unexpected content type %q at %s", item.Type, path)
	}

	switch item.Encoding {
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(item.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode base64 content for %s: %w", path, err)
		}
		return &Node{Path: path, Type: EntryTypeFile, Content: string(decoded)}, nil
	case "none":
		// Content too large for the JSON response; fetch it in raw mode.
		raw, err := g.request(ctx, path, "application/vnd.github.raw+json")
		if err != nil {
			return nil, err
		}
		return &Node{Path: path, Type: EntryTypeFile, Content: string(raw)}, nil
	default:
		return &Node{Path: path, Type: EntryTypeFile, Content: item.Content}, nil
	}
}

func (g *GitHubStore) request(ctx context.Context, path, accept string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		g.apiURL, g.owner, g.repo, escapePath(path), url.QueryEscape(g.ref))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound{Path: path}
	default:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response for %s: %w", path, err)
	}
	return body, nil
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func entryType(s string) EntryType {
	if s == "dir" {
		return EntryTypeDir
	}
	return EntryTypeFile
}
