// Package content implements the documentation content pipeline: slug
// resolution against the remote store, frontmatter extraction, navigation
// tree building, path normalization, and breadcrumb lookup.
package content

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// DocType classifies a document by its frontmatter `type` key.
type DocType string

const (
	// DocTypeNormal is a regular document with its own body.
	DocTypeNormal DocType = ""

	// DocTypeIgnore marks a document that must never resolve or appear in
	// navigation trees.
	DocTypeIgnore DocType = "ignore"

	// DocTypeAuto marks a document whose body is synthesized from its
	// frontmatter (and, for README files, the directory's children).
	DocTypeAuto DocType = "auto"
)

// Frontmatter is the metadata record extracted from a document header.
// Fields carries the full key/value mapping for keys this pipeline does not
// interpret itself.
type Frontmatter struct {
	Title       string
	Description string
	Type        DocType
	Fields      map[string]any
}

// IgnoredFrontmatter is the degraded record used when frontmatter cannot be
// parsed: the document behaves as if explicitly marked ignore.
func IgnoredFrontmatter() Frontmatter {
	return Frontmatter{Type: DocTypeIgnore}
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// SplitFrontmatter separates the `---` delimited YAML header from the body.
// If the document has no header, raw is empty and body is the full input.
func SplitFrontmatter(content string) (raw string, body string, err error) {
	data := []byte(content)

	nl := "\n"
	if i := bytes.IndexByte(data, '\n'); i > 0 && data[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(data, open) {
		return "", content, nil
	}

	rest := data[len(open):]
	if bytes.HasPrefix(rest, open) {
		return "", string(rest[len(open):]), nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter at end-of-input without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(rest, tail) {
			return string(rest[:len(rest)-len(tail)+len(nl)]), "", nil
		}
		return "", "", ErrMissingClosingDelimiter
	}

	return string(rest[:idx+len(nl)]), string(rest[idx+len(closeSeq):]), nil
}

// ExtractFrontmatter parses the document header into a Frontmatter record and
// returns the remaining body. A malformed header or malformed YAML degrades to
// an ignore-typed record rather than an error: unparseable documents are
// treated as absent throughout the pipeline.
func ExtractFrontmatter(content string) (Frontmatter, string) {
	raw, body, err := SplitFrontmatter(content)
	if err != nil {
		return IgnoredFrontmatter(), ""
	}
	if raw == "" {
		return Frontmatter{Fields: map[string]any{}}, body
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return IgnoredFrontmatter(), ""
	}
	if fields == nil {
		fields = map[string]any{}
	}

	fm := Frontmatter{Fields: fields}
	if v, ok := fields["title"].(string); ok {
		fm.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		fm.Description = v
	}
	if v, ok := fields["type"].(string); ok {
		fm.Type = DocType(v)
	}
	return fm, body
}
