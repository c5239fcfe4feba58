package render

import (
	"github.com/yuin/goldmark/ast"
)

// TocEntry is one node of the extracted heading hierarchy. ID is the anchor
// assigned during compilation, unique within the document.
type TocEntry struct {
	ID       string
	Value    string
	Depth    int
	Children []*TocEntry
}

// extractToc collects the document's headings into a tree. A heading becomes
// a child of the nearest preceding heading with a strictly smaller depth;
// anything else starts a new top-level entry.
func extractToc(doc ast.Node, source []byte) []*TocEntry {
	roots := make([]*TocEntry, 0)
	stack := make([]*TocEntry, 0)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		entry := &TocEntry{
			ID:    headingID(heading),
			Value: string(nodeTextBytes(heading, source)),
			Depth: heading.Level,
		}

		for len(stack) > 0 && stack[len(stack)-1].Depth >= entry.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, entry)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, entry)
		}
		stack = append(stack, entry)

		return ast.WalkSkipChildren, nil
	})

	return roots
}

func headingID(heading *ast.Heading) string {
	id, ok := heading.AttributeString("id")
	if !ok {
		return ""
	}
	switch v := id.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}
