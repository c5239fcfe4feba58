package content

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/b-editor/docsite/internal/store"
)

// Entry is one node of the navigation tree. Path is the site-relative,
// normalized form (no language prefix, no .md or README.md suffix).
type Entry struct {
	Title    string
	Path     string
	Children []*Entry
}

// BuildTree walks the directory at storePath (defaulting to the language
// root) and produces the navigation tree.
//
// Entries whose name starts with "_" are skipped. A README.md does not become
// a child; its frontmatter title becomes the directory's own title. Files
// marked ignore are dropped. In non-recursive mode directories appear as
// entries with zero children, for one-level listings.
//
// Sibling entries are processed concurrently but children keep the store's
// native listing order.
func BuildTree(ctx context.Context, st store.Store, lang, storePath string, recursive bool) (*Entry, error) {
	if storePath == "" {
		storePath = lang
	}

	entries, err := store.List(ctx, st, storePath)
	if err != nil {
		return nil, err
	}

	var title string
	results := make([]*Entry, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range entries {
		if strings.HasPrefix(item.Name, "_") {
			continue
		}

		switch {
		case item.Type == store.EntryTypeFile && item.Name == "README.md":
			g.Go(func() error {
				title = frontmatterFromPath(gctx, st, item.Path).Title
				return nil
			})
		case item.Type == store.EntryTypeFile:
			g.Go(func() error {
				fm := frontmatterFromPath(gctx, st, item.Path)
				if fm.Type == DocTypeIgnore {
					return nil
				}
				entryTitle := fm.Title
				if entryTitle == "" {
					entryTitle = DefaultTitle(item.Path)
				}
				results[i] = &Entry{Title: entryTitle, Path: NormalizePath(lang, item.Path)}
				return nil
			})
		case item.Type == store.EntryTypeDir && recursive:
			g.Go(func() error {
				child, err := BuildTree(gctx, st, lang, item.Path, true)
				if err != nil {
					return err
				}
				results[i] = child
				return nil
			})
		case item.Type == store.EntryTypeDir:
			g.Go(func() error {
				results[i] = &Entry{
					Title: dirTitle(gctx, st, item.Path),
					Path:  NormalizePath(lang, item.Path),
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	children := make([]*Entry, 0, len(results))
	for _, child := range results {
		if child != nil {
			children = append(children, child)
		}
	}

	if title == "" {
		title = DefaultTitle(storePath)
	}

	return &Entry{
		Title:    title,
		Path:     NormalizePath(lang, storePath),
		Children: children,
	}, nil
}

// dirTitle resolves an unexpanded directory's title from its README, falling
// back to the decoded last path segment.
func dirTitle(ctx context.Context, st store.Store, dirPath string) string {
	if fm := frontmatterFromPath(ctx, st, dirPath+"/README.md"); fm.Title != "" {
		return fm.Title
	}
	return DefaultTitle(dirPath)
}

// frontmatterFromPath fetches a file and extracts its frontmatter. Any store
// failure degrades to an ignore-typed record; callers treat it as absent.
func frontmatterFromPath(ctx context.Context, st store.Store, path string) Frontmatter {
	content, err := store.GetFile(ctx, st, path)
	if err != nil {
		return IgnoredFrontmatter()
	}
	fm, _ := ExtractFrontmatter(content)
	return fm
}
