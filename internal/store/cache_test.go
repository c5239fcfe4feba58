package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/b-editor/docsite/internal/metrics"
)

type fetchCountingRecorder struct {
	metrics.NoopRecorder
	fetches map[metrics.ResultLabel]int
}

func (r *fetchCountingRecorder) IncStoreFetch(result metrics.ResultLabel) {
	r.fetches[result]++
}

func TestCachedStore_SecondReadServedFromCache(t *testing.T) {
	inner := NewMemStore().Add("en/README.md", "# Docs\n")
	cached, err := WithCache(inner, ":memory:", time.Minute)
	require.NoError(t, err)
	defer func() { require.NoError(t, cached.Close()) }()

	first, err := cached.Get(context.Background(), "en/README.md")
	require.NoError(t, err)
	require.Equal(t, "# Docs\n", first.Content)
	require.Equal(t, 1, inner.Calls().Get)

	second, err := cached.Get(context.Background(), "en/README.md")
	require.NoError(t, err)
	require.Equal(t, first.Content, second.Content)
	require.Equal(t, 1, inner.Calls().Get)
}

func TestCachedStore_DirectoryListingRoundTrips(t *testing.T) {
	inner := NewMemStore().
		Add("en/guide/README.md", "# Guide\n").
		Add("en/guide/drawing.md", "# Drawing\n")
	cached, err := WithCache(inner, ":memory:", time.Minute)
	require.NoError(t, err)
	defer func() { _ = cached.Close() }()

	_, err = cached.Get(context.Background(), "en/guide")
	require.NoError(t, err)

	node, err := cached.Get(context.Background(), "en/guide")
	require.NoError(t, err)
	require.Equal(t, EntryTypeDir, node.Type)
	require.Len(t, node.Entries, 2)
	require.Equal(t, "README.md", node.Entries[0].Name)
	require.Equal(t, "drawing.md", node.Entries[1].Name)
}

func TestCachedStore_ExpiredEntryRefetched(t *testing.T) {
	inner := NewMemStore().Add("en/page.md", "v1")
	cached, err := WithCache(inner, ":memory:", time.Minute)
	require.NoError(t, err)
	defer func() { _ = cached.Close() }()

	_, err = cached.Get(context.Background(), "en/page.md")
	require.NoError(t, err)

	cached.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = cached.Get(context.Background(), "en/page.md")
	require.NoError(t, err)
	require.Equal(t, 2, inner.Calls().Get)
}

func TestCachedStore_ZeroTTLNeverExpires(t *testing.T) {
	inner := NewMemStore().Add("en/page.md", "pinned")
	cached, err := WithCache(inner, ":memory:", 0)
	require.NoError(t, err)
	defer func() { _ = cached.Close() }()

	_, err = cached.Get(context.Background(), "en/page.md")
	require.NoError(t, err)

	cached.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }
	_, err = cached.Get(context.Background(), "en/page.md")
	require.NoError(t, err)
	require.Equal(t, 1, inner.Calls().Get)
}

func TestCachedStore_ErrorsNotCached(t *testing.T) {
	inner := NewMemStore()
	inner.FailWith("en/flaky.md", errors.New("transient outage"))
	cached, err := WithCache(inner, ":memory:", time.Minute)
	require.NoError(t, err)
	defer func() { _ = cached.Close() }()

	_, err = cached.Get(context.Background(), "en/flaky.md")
	require.Error(t, err)

	// Once the backend recovers, the next read succeeds.
	inner.Add("en/flaky.md", "recovered")
	delete(inner.failures, "en/flaky.md")

	node, err := cached.Get(context.Background(), "en/flaky.md")
	require.NoError(t, err)
	require.Equal(t, "recovered", node.Content)
}

func TestCachedStore_RecordsUpstreamFetchOutcomes(t *testing.T) {
	inner := NewMemStore().Add("en/guide.md", "Body.")
	inner.FailWith("en/broken.md", errors.New("outage"))
	cached, err := WithCache(inner, ":memory:", time.Minute)
	require.NoError(t, err)
	defer func() { _ = cached.Close() }()

	rec := &fetchCountingRecorder{fetches: map[metrics.ResultLabel]int{}}
	cached.WithRecorder(rec)

	_, err = cached.Get(context.Background(), "en/guide.md")
	require.NoError(t, err)
	// Cache hit, no upstream fetch to count.
	_, err = cached.Get(context.Background(), "en/guide.md")
	require.NoError(t, err)
	_, err = cached.Get(context.Background(), "en/absent.md")
	require.True(t, IsNotFound(err))
	_, err = cached.Get(context.Background(), "en/broken.md")
	require.Error(t, err)

	require.Equal(t, 1, rec.fetches[metrics.ResultResolved])
	require.Equal(t, 1, rec.fetches[metrics.ResultNotFound])
	require.Equal(t, 1, rec.fetches[metrics.ResultError])
}

func TestCachedStore_NotFoundPassesThrough(t *testing.T) {
	cached, err := WithCache(NewMemStore(), ":memory:", time.Minute)
	require.NoError(t, err)
	defer func() { _ = cached.Close() }()

	_, err = cached.Get(context.Background(), "en/absent.md")
	require.True(t, IsNotFound(err))
}
