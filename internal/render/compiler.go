// Package render compiles resolved Markdown documents into HTML plus a
// table of contents.
//
// The pipeline is fixed: frontmatter strip, GitHub-flavored Markdown parse,
// admonition blockquote transformation, stable heading anchors, syntax
// highlighting, TOC extraction, and relative media/link rewriting.
package render

import (
	"bytes"
	"fmt"
	"time"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/b-editor/docsite/internal/content"
	"github.com/b-editor/docsite/internal/metrics"
)

// Document is a compiled page: rendered HTML and the heading hierarchy.
type Document struct {
	HTML []byte
	Toc  []*TocEntry
}

// Compiler turns resolved document text into renderable output. A Compiler is
// safe for concurrent use; construct one per process.
type Compiler struct {
	md       goldmark.Markdown
	recorder metrics.Recorder
}

// NewCompiler creates a compiler. rawBaseURL is the raw-content view of the
// content repository; relative image and video sources resolve against it.
func NewCompiler(rawBaseURL string) *Compiler {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github-dark"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				// Unknown language tags degrade to unhighlighted text.
				highlighting.WithGuessLanguage(false),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&admonitionTransformer{}, 100),
				util.Prioritized(&mediaTransformer{rawBaseURL: rawBaseURL}, 200),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&admonitionRenderer{}, 100),
				util.Prioritized(&mediaRenderer{}, 100),
			),
		),
	)
	return &Compiler{md: md, recorder: metrics.NoopRecorder{}}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (c *Compiler) WithRecorder(rec metrics.Recorder) *Compiler {
	if rec != nil {
		c.recorder = rec
	}
	return c
}

// Compile renders a resolved document. sourcePath is the document's store
// path; it anchors relative media resolution. A failure compiles to an error,
// never to partial output; callers surface it as not found.
func (c *Compiler) Compile(source, sourcePath string) (*Document, error) {
	start := time.Now()
	defer func() { c.recorder.ObserveRenderDuration(time.Since(start)) }()

	_, body := content.ExtractFrontmatter(source)
	src := []byte(body)

	ctx := parser.NewContext()
	ctx.Set(sourcePathKey, sourcePath)
	root := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	toc := extractToc(root, src)

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, root); err != nil {
		return nil, fmt.Errorf("render document %s: %w", sourcePath, err)
	}

	return &Document{HTML: buf.Bytes(), Toc: toc}, nil
}

// sourcePathKey carries the document's store path through the parse context
// so AST transformers can resolve relative media sources.
var sourcePathKey = parser.NewContextKey()
