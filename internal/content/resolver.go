package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/b-editor/docsite/internal/logfields"
	"github.com/b-editor/docsite/internal/metrics"
	"github.com/b-editor/docsite/internal/store"
)

// ErrNotFound is returned when no document exists for a slug, including the
// case where located content is marked ignore.
var ErrNotFound = errors.New("document not found")

// ResolvedDocument is the outcome of slug resolution: the document text and
// the store path of the physical file that produced it. Path stays valid for
// view-source links even when Content was synthesized.
type ResolvedDocument struct {
	Content string
	Path    string
}

// strategy is one slug-resolution attempt. A nil document with a nil error
// means "no match here"; an error is a soft failure and the next strategy
// still runs.
type strategy struct {
	name    string
	resolve func(ctx context.Context, lang string, slug []string) (*ResolvedDocument, error)
}

// Resolver converts localized slugs into documents. Strategies are tried in
// order; the first definite result wins.
type Resolver struct {
	store      store.Store
	strategies []strategy
	recorder   metrics.Recorder
}

// NewResolver creates a resolver over the given store.
func NewResolver(st store.Store) *Resolver {
	r := &Resolver{store: st, recorder: metrics.NoopRecorder{}}
	r.strategies = []strategy{
		{name: "sibling_file", resolve: r.resolveSiblingFile},
		{name: "path_or_readme", resolve: r.resolvePathOrReadme},
	}
	return r
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (r *Resolver) WithRecorder(rec metrics.Recorder) *Resolver {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Resolve locates the document for a localized slug.
//
// After any strategy produces raw content, reinterpretation applies: an
// ignore-typed document short-circuits the whole chain as not found, and an
// auto-typed document gets a synthesized body. Store failures inside one
// strategy are soft; the next strategy still runs.
func (r *Resolver) Resolve(ctx context.Context, lang string, slug []string) (*ResolvedDocument, error) {
	start := time.Now()
	doc, err := r.resolve(ctx, lang, slug)
	r.recorder.ObserveResolveDuration(lang, time.Since(start))

	switch {
	case errors.Is(err, ErrNotFound):
		r.recorder.IncResolveResult(lang, metrics.ResultNotFound)
	case err != nil:
		r.recorder.IncResolveResult(lang, metrics.ResultError)
	default:
		r.recorder.IncResolveResult(lang, metrics.ResultResolved)
	}
	return doc, err
}

func (r *Resolver) resolve(ctx context.Context, lang string, slug []string) (*ResolvedDocument, error) {
	for _, s := range r.strategies {
		doc, err := s.resolve(ctx, lang, slug)
		if err != nil {
			slog.Debug("Resolver strategy failed",
				logfields.Strategy(s.name), logfields.Lang(lang),
				logfields.Slug(strings.Join(slug, "/")), logfields.Error(err))
			continue
		}
		if doc == nil {
			continue
		}

		r.recorder.IncResolveStrategyHit(s.name)
		return r.reinterpret(ctx, lang, doc)
	}
	return nil, ErrNotFound
}

// reinterpret applies the frontmatter-driven post-resolution rules.
func (r *Resolver) reinterpret(ctx context.Context, lang string, doc *ResolvedDocument) (*ResolvedDocument, error) {
	fm, _ := ExtractFrontmatter(doc.Content)

	switch fm.Type {
	case DocTypeIgnore:
		// Ignore is authoritative once content is located; do not fall
		// through to further strategies.
		return nil, ErrNotFound
	case DocTypeAuto:
		return r.synthesize(ctx, lang, doc, fm)
	default:
		return doc, nil
	}
}

// synthesize builds the body of an auto-typed document. An auto README turns
// into an index page listing the directory's direct children; any other auto
// document reduces to its description.
func (r *Resolver) synthesize(ctx context.Context, lang string, doc *ResolvedDocument, fm Frontmatter) (*ResolvedDocument, error) {
	const readmeSuffix = "/README.md"
	if !strings.HasSuffix(doc.Path, readmeSuffix) {
		return &ResolvedDocument{Content: fm.Description, Path: doc.Path}, nil
	}

	dirPath := strings.TrimSuffix(doc.Path, readmeSuffix)
	entry, err := BuildTree(ctx, r.store, lang, dirPath, false)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", dirPath, err)
	}

	raw, _, _ := SplitFrontmatter(doc.Content)

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(raw)
	b.WriteString("---\n")
	b.WriteString(fm.Description)
	b.WriteString("\n\n")
	// Child paths are language-relative; served links need the language
	// segment back so they stay routable.
	for _, child := range entry.Children {
		fmt.Fprintf(&b, "- [%s](/%s%s)\n", child.Title, lang, child.Path)
	}

	return &ResolvedDocument{Content: b.String(), Path: doc.Path}, nil
}

// resolveSiblingFile treats all but the last slug segment as a directory and
// looks for a file named "<last>.md", allowing an ordering prefix before a
// literal dot (a ".<last>.md" suffix match). The directory's native listing
// order decides ties.
func (r *Resolver) resolveSiblingFile(ctx context.Context, lang string, slug []string) (*ResolvedDocument, error) {
	if len(slug) < 1 {
		return nil, nil
	}

	dirPath := lang
	if len(slug) > 1 {
		dirPath = lang + "/" + strings.Join(slug[:len(slug)-1], "/")
	}

	exact := slug[len(slug)-1] + ".md"
	suffixed := "." + exact

	entries, err := store.List(ctx, r.store, dirPath)
	if err != nil {
		return nil, err
	}

	for _, item := range entries {
		if item.Type != store.EntryTypeFile {
			continue
		}
		if item.Name == exact || strings.HasSuffix(item.Name, suffixed) {
			content, err := store.GetFile(ctx, r.store, item.Path)
			if err != nil {
				return nil, err
			}
			return &ResolvedDocument{Content: content, Path: item.Path}, nil
		}
	}
	return nil, nil
}

// resolvePathOrReadme treats the full slug as a store path. A file is fetched
// directly; a directory resolves to the README.md inside it.
func (r *Resolver) resolvePathOrReadme(ctx context.Context, lang string, slug []string) (*ResolvedDocument, error) {
	path := lang
	if len(slug) > 0 {
		path = lang + "/" + strings.Join(slug, "/")
	}

	node, err := r.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	if node.Type == store.EntryTypeDir {
		for _, item := range node.Entries {
			if item.Name == "README.md" {
				content, err := store.GetFile(ctx, r.store, item.Path)
				if err != nil {
					return nil, err
				}
				return &ResolvedDocument{Content: content, Path: item.Path}, nil
			}
		}
		return nil, nil
	}

	return &ResolvedDocument{Content: node.Content, Path: path}, nil
}

// Frontmatter resolves a slug and extracts its frontmatter. Unresolvable
// slugs yield an ignore-typed record, matching the pipeline's treatment of
// absent documents.
func (r *Resolver) Frontmatter(ctx context.Context, lang string, slug []string) Frontmatter {
	doc, err := r.Resolve(ctx, lang, slug)
	if err != nil {
		return IgnoredFrontmatter()
	}
	fm, _ := ExtractFrontmatter(doc.Content)
	return fm
}
