package apiref

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseDocument parses a DocFX record. Unknown fields are tolerated; only the
// fields the model declares are read.
func ParseDocument(raw []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse api record: %w", err)
	}
	return &doc, nil
}

// ParseToc parses the table-of-contents record, which is either a bare
// top-level sequence or a mapping with an items key.
func ParseToc(raw []byte) ([]TocEntry, error) {
	var entries []TocEntry
	if err := yaml.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var wrapped struct {
		Items []TocEntry `yaml:"items"`
	}
	if err := yaml.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse toc record: %w", err)
	}
	return wrapped.Items, nil
}

// MainItem returns the record's main item: the type or namespace the file
// documents. ok is false for records with no items; callers treat that as
// not found.
func MainItem(doc *Document) (Item, bool) {
	if doc == nil || len(doc.Items) == 0 {
		return Item{}, false
	}
	return doc.Items[0], true
}

// MemberItems returns all items after the main one.
func MemberItems(doc *Document) []Item {
	if doc == nil || len(doc.Items) <= 1 {
		return nil
	}
	return doc.Items[1:]
}

// GroupMembers classifies members into the six display categories. The
// classification is total: an unrecognized type lands in constructors when
// the identifier looks like a constructor marker, otherwise in methods.
func GroupMembers(members []Item) GroupedMembers {
	var groups GroupedMembers
	for _, member := range members {
		switch member.Type {
		case SymbolConstructor:
			groups.Constructors = append(groups.Constructors, member)
		case SymbolField:
			groups.Fields = append(groups.Fields, member)
		case SymbolProperty:
			groups.Properties = append(groups.Properties, member)
		case SymbolMethod:
			groups.Methods = append(groups.Methods, member)
		case SymbolEvent:
			groups.Events = append(groups.Events, member)
		case SymbolOperator:
			groups.Operators = append(groups.Operators, member)
		default:
			if strings.HasPrefix(member.ID, "#ctor") || strings.Contains(member.Name, "ctor") {
				groups.Constructors = append(groups.Constructors, member)
			} else {
				groups.Methods = append(groups.Methods, member)
			}
		}
	}
	return groups
}

// FindReference looks up a cross-reference by uid.
func FindReference(doc *Document, uid string) (Reference, bool) {
	if doc == nil {
		return Reference{}, false
	}
	for _, ref := range doc.References {
		if ref.UID == uid {
			return ref, true
		}
	}
	return Reference{}, false
}

// ExtractNamespaces derives the namespace hierarchy from a TOC record. Used
// when record files are unavailable; the record scan in Library is the
// authoritative source.
func ExtractNamespaces(toc []TocEntry) []NamespaceInfo {
	namespaces := make([]NamespaceInfo, 0)

	var process func(entry TocEntry)
	process = func(entry TocEntry) {
		if entry.UID != "" && !strings.Contains(entry.UID, ".") && len(entry.Items) > 0 {
			ns := NamespaceInfo{UID: entry.UID, Name: entry.Name}
			if ns.Name == "" {
				ns.Name = entry.UID
			}
			for _, child := range entry.Items {
				if child.UID == "" {
					continue
				}
				name := child.Name
				if name == "" {
					name = lastSegment(child.UID)
				}
				ns.Types = append(ns.Types, TypeInfo{
					UID:       child.UID,
					Name:      name,
					Type:      InferTypeFromUID(child.UID),
					Namespace: entry.UID,
				})
			}
			namespaces = append(namespaces, ns)
			return
		}
		for _, child := range entry.Items {
			process(child)
		}
	}

	for _, entry := range toc {
		process(entry)
	}
	return namespaces
}

// InferTypeFromUID guesses a symbol type from a uid when no declared type is
// available: a last segment shaped like an interface name (uppercase I
// followed by another uppercase letter) is treated as an interface, anything
// else as a class. Best effort by design; the record's declared type always
// wins when present.
func InferTypeFromUID(uid string) SymbolType {
	name := lastSegment(uid)
	if len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z' {
		return SymbolInterface
	}
	return SymbolClass
}

// IsExternalType reports whether a uid refers to a type outside the host
// project: a known foreign prefix, or anything not under rootNamespace. A
// prefix heuristic, not a registry lookup.
func IsExternalType(uid, rootNamespace string) bool {
	return strings.HasPrefix(uid, "System.") ||
		strings.HasPrefix(uid, "Microsoft.") ||
		strings.HasPrefix(uid, "System") ||
		!strings.HasPrefix(uid, rootNamespace)
}

// UIDToFilename maps a uid to its record filename: generic arity backticks
// become hyphens (Beutl.CoreProperty`1 -> Beutl.CoreProperty-1.yml).
func UIDToFilename(uid string) string {
	return strings.ReplaceAll(uid, "`", "-") + ".yml"
}

var arityFilenamePattern = regexp.MustCompile(`-(\d+)$`)

// FilenameToUID inverts UIDToFilename for record enumeration.
func FilenameToUID(filename string) string {
	uid := strings.TrimSuffix(filename, ".yml")
	return arityFilenamePattern.ReplaceAllString(uid, "`$1")
}

var (
	genericParamPattern = regexp.MustCompile("\\{``(\\d+)\\}")
	genericNamePattern  = regexp.MustCompile(`\{([^}]+)\}`)
)

// FormatTypeReference rewrites DocFX generic notation for display:
// {``0} becomes <T0>, {TypeName} becomes <TypeName>.
func FormatTypeReference(typeRef string) string {
	out := genericParamPattern.ReplaceAllString(typeRef, "<T$1>")
	return genericNamePattern.ReplaceAllString(out, "<$1>")
}

// DisplayName returns an item's short display name.
func DisplayName(item Item) string {
	if item.Name != "" {
		return item.Name
	}
	if name := lastSegment(item.UID); name != "" {
		return name
	}
	return item.UID
}

// FullName returns an item's fully qualified display name.
func FullName(item Item) string {
	if item.FullName != "" {
		return item.FullName
	}
	if item.NameWithType != "" {
		return item.NameWithType
	}
	return item.UID
}

// Breadcrumbs expands a uid into its dotted-prefix trail, one entry per
// prefix, ending with the uid itself.
func Breadcrumbs(uid string) []Breadcrumb {
	parts := strings.Split(uid, ".")
	crumbs := make([]Breadcrumb, 0, len(parts))

	current := ""
	for i, part := range parts {
		if i == 0 {
			current = part
		} else {
			current = current + "." + part
		}
		crumbs = append(crumbs, Breadcrumb{Name: part, UID: current})
	}
	return crumbs
}

func lastSegment(uid string) string {
	if idx := strings.LastIndex(uid, "."); idx >= 0 {
		return uid[idx+1:]
	}
	return uid
}
