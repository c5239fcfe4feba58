package apiref

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/b-editor/docsite/internal/logfields"
	"github.com/b-editor/docsite/internal/metrics"
)

// tocFilename and manifestFilename are excluded from full-directory scans.
const (
	tocFilename      = "toc.yml"
	manifestFilename = ".manifest"
)

// searchResultLimit caps the number of search hits returned.
const searchResultLimit = 50

// Library answers queries over a directory of DocFX records.
//
// Records are immutable build-time artifacts, so parsed documents are cached
// by uid for the life of the Library. The namespace index is built once on
// first access; concurrent first accesses share a single build. Both caches
// live on the Library instance so tests can construct isolated ones.
type Library struct {
	dir           string
	rootNamespace string
	recorder      metrics.Recorder

	docMu sync.RWMutex
	docs  map[string]*Document

	nsMu       sync.Mutex
	namespaces []NamespaceInfo
	nsBuilt    bool
}

// NewLibrary creates a library over a record directory. rootNamespace anchors
// the external-type heuristic.
func NewLibrary(dir, rootNamespace string) *Library {
	return &Library{
		dir:           dir,
		rootNamespace: rootNamespace,
		recorder:      metrics.NoopRecorder{},
		docs:          make(map[string]*Document),
	}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (l *Library) WithRecorder(rec metrics.Recorder) *Library {
	if rec != nil {
		l.recorder = rec
	}
	return l
}

// Document loads and parses the record for a uid, serving repeat lookups from
// the cache.
func (l *Library) Document(uid string) (*Document, error) {
	l.docMu.RLock()
	doc, ok := l.docs[uid]
	l.docMu.RUnlock()
	if ok {
		return doc, nil
	}

	path := filepath.Join(l.dir, UIDToFilename(uid))
	raw, err := os.ReadFile(path) // #nosec G304 - filename derives from the uid mapping
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrUnknownUID{UID: uid}
		}
		return nil, fmt.Errorf("read record for %s: %w", uid, err)
	}

	doc, err = ParseDocument(raw)
	if err != nil {
		return nil, err
	}

	l.docMu.Lock()
	l.docs[uid] = doc
	l.docMu.Unlock()
	return doc, nil
}

// Item returns the main item of a uid's record.
func (l *Library) Item(uid string) (Item, error) {
	doc, err := l.Document(uid)
	if err != nil {
		return Item{}, err
	}
	item, ok := MainItem(doc)
	if !ok {
		return Item{}, ErrUnknownUID{UID: uid}
	}
	return item, nil
}

// Members returns the grouped members of a uid's record.
func (l *Library) Members(uid string) (GroupedMembers, error) {
	doc, err := l.Document(uid)
	if err != nil {
		return GroupedMembers{}, err
	}
	return GroupMembers(MemberItems(doc)), nil
}

// Toc loads and parses the table-of-contents record.
func (l *Library) Toc() ([]TocEntry, error) {
	raw, err := os.ReadFile(filepath.Join(l.dir, tocFilename)) // #nosec G304 - fixed filename under the record dir
	if err != nil {
		return nil, fmt.Errorf("read toc record: %w", err)
	}
	return ParseToc(raw)
}

// IsExternal reports whether a uid is outside the host project.
func (l *Library) IsExternal(uid string) bool {
	return IsExternalType(uid, l.rootNamespace)
}

// Namespaces returns the namespace index, building it on first access.
// Namespaces and their types are ordered by display name using plain
// case-sensitive string comparison, which keeps the order deterministic
// across environments.
func (l *Library) Namespaces() ([]NamespaceInfo, error) {
	l.nsMu.Lock()
	defer l.nsMu.Unlock()

	if !l.nsBuilt {
		namespaces, err := l.buildIndex()
		if err != nil {
			return nil, err
		}
		l.namespaces = namespaces
		l.nsBuilt = true
	}

	out := make([]NamespaceInfo, len(l.namespaces))
	copy(out, l.namespaces)
	return out, nil
}

// buildIndex scans every record file once. Corrupt files are logged and
// skipped; one bad record never aborts the whole build.
func (l *Library) buildIndex() ([]NamespaceInfo, error) {
	start := time.Now()
	defer func() { l.recorder.ObserveIndexBuildDuration(time.Since(start)) }()

	files, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("scan record directory: %w", err)
	}

	byUID := make(map[string]*NamespaceInfo)
	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".yml") || name == tocFilename || name == manifestFilename {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(l.dir, name)) // #nosec G304 - name comes from the directory scan
		if err != nil {
			slog.Warn("Skipping unreadable api record", logfields.Path(name), logfields.Error(err))
			continue
		}
		doc, err := ParseDocument(raw)
		if err != nil {
			slog.Warn("Skipping malformed api record", logfields.Path(name), logfields.Error(err))
			continue
		}
		main, ok := MainItem(doc)
		if !ok {
			continue
		}

		if main.Type == SymbolNamespace {
			if _, exists := byUID[main.UID]; !exists {
				byUID[main.UID] = &NamespaceInfo{UID: main.UID, Name: main.Name}
			}
			continue
		}

		if main.Namespace == "" {
			continue
		}
		ns, exists := byUID[main.Namespace]
		if !exists {
			ns = &NamespaceInfo{UID: main.Namespace, Name: main.Namespace}
			byUID[main.Namespace] = ns
		}
		ns.Types = append(ns.Types, TypeInfo{
			UID:       main.UID,
			Name:      main.Name,
			Type:      main.Type,
			Namespace: main.Namespace,
		})
	}

	namespaces := make([]NamespaceInfo, 0, len(byUID))
	for _, ns := range byUID {
		sort.Slice(ns.Types, func(i, j int) bool {
			return strings.Compare(ns.Types[i].Name, ns.Types[j].Name) < 0
		})
		namespaces = append(namespaces, *ns)
	}
	sort.Slice(namespaces, func(i, j int) bool {
		return strings.Compare(namespaces[i].Name, namespaces[j].Name) < 0
	})

	slog.Info("API reference index built",
		slog.Int("namespaces", len(namespaces)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return namespaces, nil
}

// Invalidate drops the namespace index (and parsed documents) so the next
// access rebuilds them. Used by the record directory watcher.
func (l *Library) Invalidate() {
	l.nsMu.Lock()
	l.nsBuilt = false
	l.namespaces = nil
	l.nsMu.Unlock()

	l.docMu.Lock()
	l.docs = make(map[string]*Document)
	l.docMu.Unlock()
}

// AllUIDs enumerates every record uid, for static generation and sitemaps.
func (l *Library) AllUIDs() ([]string, error) {
	files, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("scan record directory: %w", err)
	}

	uids := make([]string, 0, len(files))
	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".yml") || name == tocFilename || name == manifestFilename {
			continue
		}
		uids = append(uids, FilenameToUID(name))
	}
	return uids, nil
}

// Search performs a case-insensitive substring match over namespace names and
// type names/uids. Exact name matches rank before partial matches; ties break
// by name. Results are truncated to the top 50.
func (l *Library) Search(query string) ([]SearchResult, error) {
	l.recorder.IncAPISearch()

	namespaces, err := l.Namespaces()
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(query)
	results := make([]SearchResult, 0)

	for _, ns := range namespaces {
		if strings.Contains(strings.ToLower(ns.Name), lower) {
			results = append(results, SearchResult{
				UID:      ns.UID,
				Name:     ns.Name,
				FullName: ns.Name,
				Type:     SymbolNamespace,
			})
		}
		for _, t := range ns.Types {
			if strings.Contains(strings.ToLower(t.Name), lower) ||
				strings.Contains(strings.ToLower(t.UID), lower) {
				results = append(results, SearchResult{
					UID:       t.UID,
					Name:      t.Name,
					FullName:  t.UID,
					Type:      t.Type,
					Namespace: ns.Name,
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		iExact := strings.EqualFold(results[i].Name, query)
		jExact := strings.EqualFold(results[j].Name, query)
		if iExact != jExact {
			return iExact
		}
		return strings.Compare(results[i].Name, results[j].Name) < 0
	})

	if len(results) > searchResultLimit {
		results = results[:searchResultLimit]
	}
	return results, nil
}

// ErrUnknownUID is returned when no record file exists for a uid, or the
// record has no main item.
type ErrUnknownUID struct {
	UID string
}

func (e ErrUnknownUID) Error() string {
	return "unknown api uid: " + e.UID
}
