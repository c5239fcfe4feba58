package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/b-editor/docsite/internal/logfields"
	"github.com/b-editor/docsite/internal/metrics"
)

// CachedStore is a read-through cache over another Store, backed by SQLite.
// Entries expire after the configured TTL; a zero TTL means entries never
// expire (suitable only for immutable refs like a pinned commit).
//
// Errors from the underlying store are never cached, so a transient failure
// does not poison subsequent requests.
type CachedStore struct {
	inner    Store
	db       *sql.DB
	ttl      time.Duration
	now      func() time.Time
	recorder metrics.Recorder
	mu       sync.Mutex
}

// WithCache wraps a store with a SQLite fetch cache.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func WithCache(inner Store, dbPath string, ttl time.Duration) (*CachedStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	c := &CachedStore{inner: inner, db: db, ttl: ttl, now: time.Now, recorder: metrics.NoopRecorder{}}
	if err := c.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return c, nil
}

// WithRecorder attaches a metrics recorder (fluent helper). Only upstream
// fetches are counted; cache hits never reach the recorder.
func (c *CachedStore) WithRecorder(rec metrics.Recorder) *CachedStore {
	if rec != nil {
		c.recorder = rec
	}
	return c
}

func (c *CachedStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fetch_cache (
		path TEXT PRIMARY KEY,
		node_type TEXT NOT NULL,
		payload BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get retrieves the node at path, serving from cache when fresh.
func (c *CachedStore) Get(ctx context.Context, path string) (*Node, error) {
	if node, ok := c.lookup(ctx, path); ok {
		return node, nil
	}

	node, err := c.inner.Get(ctx, path)
	switch {
	case IsNotFound(err):
		c.recorder.IncStoreFetch(metrics.ResultNotFound)
		return nil, err
	case err != nil:
		c.recorder.IncStoreFetch(metrics.ResultError)
		return nil, err
	}
	c.recorder.IncStoreFetch(metrics.ResultResolved)
	c.put(ctx, node)
	return node, nil
}

func (c *CachedStore) lookup(ctx context.Context, path string) (*Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		nodeType  string
		payload   []byte
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT node_type, payload, fetched_at FROM fetch_cache WHERE path = ?", path).
		Scan(&nodeType, &payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		slog.Debug("Cache lookup failed", logfields.Path(path), logfields.Error(err))
		return nil, false
	}

	if c.ttl > 0 && c.now().Sub(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false
	}

	node := &Node{Path: path, Type: EntryType(nodeType)}
	if node.Type == EntryTypeDir {
		if err := json.Unmarshal(payload, &node.Entries); err != nil {
			return nil, false
		}
	} else {
		node.Content = string(payload)
	}
	return node, true
}

func (c *CachedStore) put(ctx context.Context, node *Node) {
	var payload []byte
	if node.Type == EntryTypeDir {
		var err error
		payload, err = json.Marshal(node.Entries)
		if err != nil {
			return
		}
	} else {
		payload = []byte(node.Content)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO fetch_cache (path, node_type, payload, fetched_at) VALUES (?, ?, ?, ?)",
		node.Path, string(node.Type), payload, c.now().Unix())
	if err != nil {
		slog.Debug("Cache write failed", logfields.Path(node.Path), logfields.Error(err))
	}
}

// Close releases the cache database.
func (c *CachedStore) Close() error {
	return c.db.Close()
}
