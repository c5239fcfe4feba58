package content

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/b-editor/docsite/internal/store"
)

// Crumb is one breadcrumb entry pointing at an ancestor directory.
type Crumb struct {
	Title string
	Path  string
}

// Ancestors produces the breadcrumb trail for a slug: for every strict prefix
// it reads the title of the prefix directory's README, skipping prefixes that
// error or carry no title. Prefixes are fetched concurrently; the result keeps
// root-to-leaf order.
func Ancestors(ctx context.Context, st store.Store, lang string, slug []string) []Crumb {
	if len(slug) < 2 {
		return []Crumb{}
	}

	results := make([]*Crumb, len(slug)-1)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < len(slug)-1; i++ {
		joined := strings.Join(slug[:i+1], "/")
		g.Go(func() error {
			fm := frontmatterFromPath(gctx, st, lang+"/"+joined+"/README.md")
			if fm.Title != "" {
				results[i] = &Crumb{Title: fm.Title, Path: "/" + lang + "/" + joined}
			}
			return nil
		})
	}
	_ = g.Wait()

	crumbs := make([]Crumb, 0, len(results))
	for _, c := range results {
		if c != nil {
			crumbs = append(crumbs, *c)
		}
	}
	return crumbs
}
