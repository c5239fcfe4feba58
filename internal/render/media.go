package render

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// videoExtensions lists source suffixes rendered as video elements.
var videoExtensions = []string{".mp4", ".mov"}

// mediaTransformer rewrites relative image destinations against the raw
// content view of the repository and canonicalizes relative Markdown links.
type mediaTransformer struct {
	rawBaseURL string
}

func (t *mediaTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	sourcePath, _ := pc.Get(sourcePathKey).(string)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			node.Destination = []byte(t.resolveMedia(string(node.Destination), sourcePath))
		case *ast.Link:
			node.Destination = []byte(canonicalizeLink(string(node.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// resolveMedia resolves a media source against the document's raw URL.
// Absolute sources pass through untouched.
func (t *mediaTransformer) resolveMedia(src, sourcePath string) string {
	if isAbsoluteURL(src) || src == "" {
		return src
	}

	base, err := url.Parse(t.rawBaseURL + sourcePath)
	if err != nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// canonicalizeLink strips a trailing .md from relative document links so they
// land on canonical slugs instead of raw source paths. Anchors, queries and
// absolute URLs stay untouched.
func canonicalizeLink(dest string) string {
	if isAbsoluteURL(dest) || strings.ContainsAny(dest, "#?") {
		return dest
	}
	return strings.TrimSuffix(dest, ".md")
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isVideoSource(src string) bool {
	for _, ext := range videoExtensions {
		if strings.HasSuffix(src, ext) {
			return true
		}
	}
	return false
}

// mediaRenderer replaces the default image renderer: sources with a video
// extension render as a video element with controls, everything else as a
// plain image.
type mediaRenderer struct{}

func (r *mediaRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.render)
}

func (r *mediaRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	img := node.(*ast.Image)
	src := string(img.Destination)

	if isVideoSource(src) {
		_, _ = w.WriteString(`<video src="`)
		_, _ = w.Write(util.EscapeHTML([]byte(src)))
		_, _ = w.WriteString(`" controls></video>`)
		return ast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString(`<img src="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(img.Destination, true)))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(nodeTextBytes(img, source)))
	_, _ = w.WriteString(`"`)
	if img.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(img.Title))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">")
	return ast.WalkSkipChildren, nil
}

// nodeTextBytes collects the plain text of a node's descendants.
func nodeTextBytes(n ast.Node, source []byte) []byte {
	var out []byte
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
		}
		return ast.WalkContinue, nil
	})
	return out
}
