package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirStore serves content from a plain local directory. It backs local
// preview and tests; the layout mirrors the content repository exactly.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at the given directory.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Get retrieves the node at path.
func (s *DirStore) Get(_ context.Context, path string) (*Node, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
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

	data, err := os.ReadFile(full) // #nosec G304 - path is rooted in the configured directory
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Node{Path: path, Type: EntryTypeFile, Content: string(data)}, nil
}
