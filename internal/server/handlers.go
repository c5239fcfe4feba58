package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/b-editor/docsite/internal/apiref"
	"github.com/b-editor/docsite/internal/content"
	"github.com/b-editor/docsite/internal/logfields"
	"github.com/b-editor/docsite/internal/render"
)

// docPageData feeds the "doc" template.
type docPageData struct {
	Lang        string
	Title       string
	Description string
	Crumbs      []content.Crumb
	Nav         *content.Entry
	Body        template.HTML
	Toc         []*render.TocEntry
	EditURL     string
}

// handleRoot negotiates a language and redirects to its documentation root.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	lang := s.locale.Negotiate(r)
	http.Redirect(w, r, "/"+lang, http.StatusFound)
}

// handleDocs serves a documentation page for /{lang}/{slug...}.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")
	if !s.locale.Supports(lang) {
		s.renderNotFound(w, s.cfg.Languages.Default)
		return
	}

	rawSlug := strings.Trim(r.PathValue("slug"), "/")

	// Links inside markdown sources may carry the .md suffix; canonicalize
	// with a permanent redirect so each page has one URL.
	if strings.HasSuffix(rawSlug, ".md") {
		http.Redirect(w, r, "/"+lang+"/"+strings.TrimSuffix(rawSlug, ".md"), http.StatusMovedPermanently)
		return
	}

	var slug []string
	if rawSlug != "" {
		slug = strings.Split(rawSlug, "/")
	}

	ctx := r.Context()
	var (
		doc    *content.ResolvedDocument
		crumbs []content.Crumb
		nav    *content.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doc, err = s.resolver.Resolve(gctx, lang, slug)
		return err
	})
	g.Go(func() error {
		crumbs = content.Ancestors(gctx, s.store, lang, slug)
		return nil
	})
	g.Go(func() error {
		var err error
		nav, err = content.BuildTree(gctx, s.store, lang, lang, true)
		if err != nil {
			// The page itself is still renderable without a sidebar.
			slog.Warn("Navigation tree unavailable", logfields.Lang(lang), logfields.Error(err))
			nav = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			s.renderNotFound(w, lang)
			return
		}
		slog.Error("Document resolution failed", logfields.Lang(lang), logfields.Slug(rawSlug), logfields.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	compiled, err := s.compiler.Compile(doc.Content, doc.Path)
	if err != nil {
		// A document that cannot be compiled is not servable; the page does
		// not exist as far as the reader is concerned.
		slog.Warn("Markdown compilation failed", logfields.Path(doc.Path), logfields.Error(err))
		s.renderNotFound(w, lang)
		return
	}

	fm, _ := content.ExtractFrontmatter(doc.Content)
	title := fm.Title
	if title == "" {
		title = content.DefaultTitle(doc.Path)
	}

	s.renderPage(w, "doc", docPageData{
		Lang:        lang,
		Title:       title,
		Description: fm.Description,
		Crumbs:      crumbs,
		Nav:         nav,
		Body:        template.HTML(compiled.HTML), // #nosec G203 - compiler output, not user input
		Toc:         compiled.Toc,
		EditURL:     s.cfg.Store.EditBaseURL() + doc.Path,
	})
}

// apiIndexData feeds the "apiIndex" template.
type apiIndexData struct {
	Lang        string
	Title       string
	Description string
	Namespaces  []apiref.NamespaceInfo
}

// handleAPIIndex serves the namespace index page.
func (s *Server) handleAPIIndex(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")
	if !s.locale.Supports(lang) {
		s.renderNotFound(w, s.cfg.Languages.Default)
		return
	}

	namespaces, err := s.library.Namespaces()
	if err != nil {
		slog.Error("Namespace index unavailable", logfields.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, "apiIndex", apiIndexData{
		Lang:       lang,
		Title:      "API Reference",
		Namespaces: namespaces,
	})
}

// apiTypeData feeds the "apiType" template.
type apiTypeData struct {
	Lang        string
	Title       string
	Description string
	Item        apiref.Item
	Members     apiref.GroupedMembers
	Crumbs      []apiref.Breadcrumb
	Children    []apiref.TypeInfo
}

// handleAPIPage serves a namespace or type page for /{lang}/api-reference/{uid}.
func (s *Server) handleAPIPage(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")
	if !s.locale.Supports(lang) {
		s.renderNotFound(w, s.cfg.Languages.Default)
		return
	}

	uid := r.PathValue("uid")
	item, err := s.library.Item(uid)
	if err != nil {
		var unknown apiref.ErrUnknownUID
		if errors.As(err, &unknown) {
			s.renderNotFound(w, lang)
			return
		}
		slog.Error("API record unavailable", logfields.UID(uid), logfields.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	members, err := s.library.Members(uid)
	if err != nil {
		slog.Error("API members unavailable", logfields.UID(uid), logfields.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	crumbs := apiref.Breadcrumbs(uid)
	if len(crumbs) > 0 {
		// The trail ends at the page itself; its heading already names it.
		crumbs = crumbs[:len(crumbs)-1]
	}

	var children []apiref.TypeInfo
	if item.Type == apiref.SymbolNamespace {
		if namespaces, nerr := s.library.Namespaces(); nerr == nil {
			for _, ns := range namespaces {
				if ns.UID == uid {
					children = ns.Types
					break
				}
			}
		}
	}

	s.renderPage(w, "apiType", apiTypeData{
		Lang:        lang,
		Title:       item.Name,
		Description: item.Summary,
		Item:        item,
		Members:     members,
		Crumbs:      crumbs,
		Children:    children,
	})
}

// searchResponse is the JSON shape of the search endpoint.
type searchResponse struct {
	Query   string                `json:"query"`
	Results []apiref.SearchResult `json:"results"`
}

// handleSearch serves /api/search?q= as JSON.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	results := []apiref.SearchResult{}
	if query != "" {
		var err error
		results, err = s.library.Search(query)
		if err != nil {
			slog.Error("API search failed", "query", query, logfields.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(searchResponse{Query: query, Results: results}); err != nil {
		slog.Warn("Search response write failed", logfields.Error(err))
	}
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// notFoundData feeds the "notfound" template.
type notFoundData struct {
	Lang        string
	Title       string
	Description string
}

func (s *Server) renderNotFound(w http.ResponseWriter, lang string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := pageTemplates.ExecuteTemplate(w, "notfound", notFoundData{Lang: lang, Title: "Page not found"}); err != nil {
		slog.Warn("Not-found page render failed", logfields.Error(err))
	}
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Page render failed", "template", name, logfields.Error(err))
	}
}
