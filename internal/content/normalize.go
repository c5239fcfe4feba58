package content

import "strings"

// NormalizePath converts a store path into a site-relative URL path.
//
// Rules, in order: the bare language code collapses to "/"; a leading
// "<lang>/" is stripped by exact language-code length (keeping the slash);
// a trailing "/README.md" collapses to the parent directory; a trailing
// ".md" loses the extension; a digit-run-plus-dot ordering prefix is stripped
// from the final segment.
//
// Only the final segment is eligible for ordering-prefix removal. Parent
// segments keep their prefixes in path form even though entry titles strip
// them; this asymmetry matches the observed site behavior and is kept as-is.
func NormalizePath(lang, storePath string) string {
	if storePath == lang {
		return "/"
	}

	p := storePath
	if strings.HasPrefix(p, lang+"/") {
		p = p[len(lang):]
	}

	const readmeSuffix = "/README.md"
	if strings.HasSuffix(p, readmeSuffix) {
		return p[:len(p)-len(readmeSuffix)]
	}

	p = strings.TrimSuffix(p, ".md")

	idx := strings.LastIndex(p, "/")
	if idx > 0 && len(p) > idx+2 {
		p = p[:idx+1] + stripOrderPrefix(p[idx+1:])
	}

	return p
}

// stripOrderPrefix removes a leading digit run followed by a literal dot.
func stripOrderPrefix(segment string) string {
	i := 0
	for i < len(segment) && segment[i] >= '0' && segment[i] <= '9' {
		i++
	}
	if i > 0 && i < len(segment) && segment[i] == '.' {
		return segment[i+1:]
	}
	return segment
}

// DefaultTitle derives a display title from the last segment of a store path
// or slug when no frontmatter title is available: the ".md" extension and any
// ordering prefix are stripped.
func DefaultTitle(pathOrSlug string) string {
	segments := strings.Split(pathOrSlug, "/")
	if len(segments) == 0 {
		return pathOrSlug
	}

	last := segments[len(segments)-1]
	last = strings.TrimSuffix(last, ".md")
	if len(last) > 2 {
		last = stripOrderPrefix(last)
	}
	return last
}
