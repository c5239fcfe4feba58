package render

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// admonitionIntents maps marker tokens to semantic intent classes.
var admonitionIntents = map[string]string{
	"[!NOTE]":      "note",
	"[!TIP]":       "tip",
	"[!IMPORTANT]": "important",
	"[!WARNING]":   "warning",
	"[!CAUTION]":   "caution",
}

// Admonition is a blockquote whose first line was an admonition marker. Both
// the rendered container and its title element carry the generic "admonition"
// class plus the intent class.
type Admonition struct {
	ast.BaseBlock
	Intent string
	Title  string
}

// KindAdmonition is the node kind of Admonition.
var KindAdmonition = ast.NewNodeKind("Admonition")

// Kind implements ast.Node.
func (n *Admonition) Kind() ast.NodeKind { return KindAdmonition }

// Dump implements ast.Node.
func (n *Admonition) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Intent": n.Intent}, nil)
}

// admonitionTransformer rewrites marked blockquotes into Admonition nodes.
type admonitionTransformer struct{}

func (t *admonitionTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var quotes []*ast.Blockquote
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if bq, ok := n.(*ast.Blockquote); ok && entering {
			quotes = append(quotes, bq)
		}
		return ast.WalkContinue, nil
	})

	for _, bq := range quotes {
		marker, markerNodes := admonitionMarker(bq, source)
		if marker == "" {
			continue
		}

		stripMarker(bq, markerNodes)

		adm := &Admonition{
			Intent: admonitionIntents[marker],
			Title:  marker[2 : len(marker)-1],
		}
		for child := bq.FirstChild(); child != nil; {
			next := child.NextSibling()
			adm.AppendChild(adm, child)
			child = next
		}

		parent := bq.Parent()
		parent.ReplaceChild(parent, bq, adm)
	}
}

// admonitionMarker inspects a blockquote's first paragraph. If the first line
// consists of exactly one recognized marker token, it returns the token and
// the text nodes spanning that line.
//
// The inline parser splits the unmatched "[" into its own text node, so the
// first line is reassembled from consecutive text siblings up to the first
// line break.
func admonitionMarker(bq *ast.Blockquote, source []byte) (string, []ast.Node) {
	para, ok := bq.FirstChild().(*ast.Paragraph)
	if !ok {
		return "", nil
	}

	var nodes []ast.Node
	var line []byte
	for child := para.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := child.(*ast.Text)
		if !ok {
			// A non-text inline on the marker line disqualifies it.
			return "", nil
		}
		nodes = append(nodes, t)
		line = append(line, t.Segment.Value(source)...)
		if t.SoftLineBreak() || t.HardLineBreak() {
			break
		}
	}

	marker := string(line)
	if _, recognized := admonitionIntents[marker]; !recognized {
		return "", nil
	}
	return marker, nodes
}

// stripMarker removes the marker line's text nodes from the paragraph,
// dropping the paragraph entirely when the marker was its only content.
func stripMarker(bq *ast.Blockquote, markerNodes []ast.Node) {
	para := markerNodes[0].Parent()
	for _, n := range markerNodes {
		para.RemoveChild(para, n)
	}
	if para.ChildCount() == 0 {
		bq.RemoveChild(bq, para)
	}
}

// admonitionRenderer renders Admonition nodes.
type admonitionRenderer struct{}

func (r *admonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAdmonition, r.render)
}

func (r *admonitionRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	adm := node.(*Admonition)
	if entering {
		_, _ = w.WriteString(`<div class="admonition ` + adm.Intent + `">` + "\n")
		_, _ = w.WriteString(`<p class="admonition-title ` + adm.Intent + `">` + adm.Title + "</p>\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}
