// Package store provides read-only access to the documentation content tree.
//
// The content repository is treated as an opaque store addressable by path: a
// path resolves to either file content or a directory listing. Backends cover
// the GitHub contents API, a local git clone, and a plain directory.
package store

import (
	"context"
	"errors"
	"fmt"
)

// EntryType identifies the kind of node at a path.
type EntryType string

const (
	EntryTypeFile EntryType = "file"
	EntryTypeDir  EntryType = "dir"
)

// DirEntry is one entry of a directory listing. Entries keep the store's
// native order; no backend may sort them.
type DirEntry struct {
	Name string
	Type EntryType
	Path string
}

// Node is the result of resolving a path: file content or a directory listing.
type Node struct {
	Path    string
	Type    EntryType
	Content string     // set when Type == EntryTypeFile
	Entries []DirEntry // set when Type == EntryTypeDir
}

// Store is a read-only content store addressable by path.
//
// Implementations return ErrNotFound for missing paths and must not cache
// responses themselves; caching is layered above via WithCache.
type Store interface {
	Get(ctx context.Context, path string) (*Node, error)
}

// GetFile retrieves the file at path, failing if path names a directory.
func GetFile(ctx context.Context, s Store, path string) (string, error) {
	node, err := s.Get(ctx, path)
	if err != nil {
		return "", err
	}
	if node.Type != EntryTypeFile {
		return "", fmt.Errorf("store: %s is a directory, not a file", path)
	}
	return node.Content, nil
}

// List retrieves the directory listing at path, failing if path names a file.
func List(ctx context.Context, s Store, path string) ([]DirEntry, error) {
	node, err := s.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if node.Type != EntryTypeDir {
		return nil, fmt.Errorf("store: %s is a file, not a directory", path)
	}
	return node.Entries, nil
}

// ErrNotFound is returned when no node exists at the requested path.
type ErrNotFound struct {
	Path string
}

func (e ErrNotFound) Error() string {
	return "path not found: " + e.Path
}

// IsNotFound returns true if the error is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
