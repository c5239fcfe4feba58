package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/b-editor/docsite/internal/config"
	"github.com/b-editor/docsite/internal/logfields"
)

// GitStore serves content from a local clone of the content repository.
//
// The clone is created on construction and advanced only by Refresh, so reads
// are stable within a request. Refresh is safe to run concurrently with reads.
type GitStore struct {
	url      string
	branch   string
	token    string
	repoPath string

	mu   sync.RWMutex
	repo *git.Repository
}

// NewGitStore clones (or reopens) the content repository in the workspace.
func NewGitStore(cfg config.StoreConfig) (*GitStore, error) {
	s := &GitStore{
		url:      cfg.URL,
		branch:   cfg.Branch,
		token:    cfg.Token,
		repoPath: filepath.Join(cfg.Workspace, cfg.Repo),
	}

	repo, err := git.PlainOpen(s.repoPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = s.clone()
	}
	if err != nil {
		return nil, err
	}
	s.repo = repo
	return s, nil
}

func (s *GitStore) clone() (*git.Repository, error) {
	if err := os.RemoveAll(s.repoPath); err != nil {
		return nil, fmt.Errorf("remove stale clone: %w", err)
	}

	opts := &git.CloneOptions{URL: s.url}
	if s.branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + s.branch)
		opts.SingleBranch = true
	}
	if s.token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "token", Password: s.token}
	}

	slog.Debug("Cloning content repository", slog.String("url", s.url), slog.String("branch", s.branch), logfields.Path(s.repoPath))
	repo, err := git.PlainClone(s.repoPath, false, opts)
	if err != nil {
		return nil, classifyGitError(s.url, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Content repository cloned", slog.String("url", s.url), slog.String("commit", ref.Hash().String()[:8]))
	}
	return repo, nil
}

// Refresh pulls the tracked branch. It reports whether HEAD moved.
func (s *GitStore) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wt, err := s.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("open worktree: %w", err)
	}

	before, err := s.repo.Head()
	if err != nil {
		return false, fmt.Errorf("read head: %w", err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if s.branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + s.branch)
		opts.SingleBranch = true
	}
	if s.token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "token", Password: s.token}
	}

	err = wt.PullContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return false, nil
	}
	if err != nil {
		return false, classifyGitError(s.url, err)
	}

	after, err := s.repo.Head()
	if err != nil {
		return false, fmt.Errorf("read head: %w", err)
	}
	changed := before.Hash() != after.Hash()
	if changed {
		slog.Info("Content repository updated", slog.String("commit", after.Hash().String()[:8]))
	}
	return changed, nil
}

// Head returns the current HEAD commit hash of the clone.
func (s *GitStore) Head() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Head()
	if err != nil {
		return "", fmt.Errorf("read head: %w", err)
	}
	return ref.Hash().String(), nil
}

// Get retrieves the node at path from the worktree.
func (s *GitStore) Get(_ context.Context, path string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	full := filepath.Join(s.repoPath, filepath.FromSlash(path))
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return nil, ErrNotFound{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		dirents, err := os.ReadDir(full)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", path, err)
		}
		entries := make([]DirEntry, 0, len(dirents))
		for _, d := range dirents {
			if d.Name() == ".git" {
				continue
			}
			t := EntryTypeFile
			if d.IsDir() {
				t = EntryTypeDir
			}
			entries = append(entries, DirEntry{
				Name: d.Name(),
				Type: t,
				Path: joinStorePath(path, d.Name()),
			})
		}
		return &Node{Path: path, Type: EntryTypeDir, Entries: entries}, nil
	}

	data, err := os.ReadFile(full) // #nosec G304 - path is rooted in the workspace clone
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Node{Path: path, Type: EntryTypeFile, Content: string(data)}, nil
}

func joinStorePath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// AuthError indicates the remote rejected our credentials.
type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string { return "git auth failed for " + e.URL + ": " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// RemoteNotFoundError indicates the remote repository does not exist.
type RemoteNotFoundError struct {
	URL string
	Err error
}

func (e *RemoteNotFoundError) Error() string {
	return "git repository not found: " + e.URL + ": " + e.Err.Error()
}
func (e *RemoteNotFoundError) Unwrap() error { return e.Err }

// classifyGitError wraps underlying go-git errors into typed failures so
// callers can distinguish permanent from transient conditions without string
// parsing at the call site.
func classifyGitError(url string, err error) error {
	l := strings.ToLower(err.Error())
	if strings.Contains(l, "authentication") || strings.Contains(l, "authorization") || strings.Contains(l, "invalid username or password") {
		return &AuthError{URL: url, Err: err}
	}
	if strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist") {
		return &RemoteNotFoundError{URL: url, Err: err}
	}
	return fmt.Errorf("git operation on %s: %w", url, err)
}
