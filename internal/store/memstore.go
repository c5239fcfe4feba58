package store

import (
	"context"
	"strings"
	"sync"
)

// MemStore is an in-memory Store for tests. Files are registered with Add;
// parent directories materialize implicitly. Directory listings preserve
// insertion order, standing in for the remote store's native order.
type MemStore struct {
	mu       sync.RWMutex
	files    map[string]string
	children map[string][]DirEntry
	failures map[string]error
	calls    MemCalls
}

// MemCalls tracks method invocations for test verification.
type MemCalls struct {
	Get int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		files:    make(map[string]string),
		children: make(map[string][]DirEntry),
		failures: make(map[string]error),
	}
}

// Add registers a file and creates any missing parent directories.
func (m *MemStore) Add(path, content string) *MemStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[path] = content
	m.link(path, EntryTypeFile)
	return m
}

// FailWith makes Get return err for the given path, simulating a store outage
// scoped to one lookup.
func (m *MemStore) FailWith(path string, err error) *MemStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = err
	return m
}

// Calls returns a snapshot of recorded invocations.
func (m *MemStore) Calls() MemCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// link records path under its parent, materializing ancestor directories.
func (m *MemStore) link(path string, t EntryType) {
	parent := ""
	name := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		parent = path[:idx]
		name = path[idx+1:]
	}

	for _, existing := range m.children[parent] {
		if existing.Name == name {
			return
		}
	}
	m.children[parent] = append(m.children[parent], DirEntry{Name: name, Type: t, Path: path})

	if parent != "" {
		m.link(parent, EntryTypeDir)
	}
}

// Get retrieves the node at path.
func (m *MemStore) Get(_ context.Context, path string) (*Node, error) {
	m.mu.Lock()
	m.calls.Get++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[path]; ok {
		return nil, err
	}
	if content, ok := m.files[path]; ok {
		return &Node{Path: path, Type: EntryTypeFile, Content: content}, nil
	}
	if entries, ok := m.children[path]; ok {
		out := make([]DirEntry, len(entries))
		copy(out, entries)
		return &Node{Path: path, Type: EntryTypeDir, Entries: out}, nil
	}
	return nil, ErrNotFound{Path: path}
}
