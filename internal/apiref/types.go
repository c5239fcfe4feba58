// Package apiref parses DocFX ManagedReference records into a queryable
// namespace/type/member model and maintains the process-lifetime index over a
// record directory.
package apiref

// SymbolType is the closed set of record kinds emitted by DocFX.
type SymbolType string

const (
	SymbolNamespace   SymbolType = "Namespace"
	SymbolClass       SymbolType = "Class"
	SymbolStruct      SymbolType = "Struct"
	SymbolInterface   SymbolType = "Interface"
	SymbolEnum        SymbolType = "Enum"
	SymbolDelegate    SymbolType = "Delegate"
	SymbolMethod      SymbolType = "Method"
	SymbolProperty    SymbolType = "Property"
	SymbolField       SymbolType = "Field"
	SymbolEvent       SymbolType = "Event"
	SymbolConstructor SymbolType = "Constructor"
	SymbolOperator    SymbolType = "Operator"
)

// Parameter describes one parameter of a member signature.
type Parameter struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

// TypeParameter describes one generic type parameter.
type TypeParameter struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description,omitempty"`
}

// ReturnType describes a member's return value.
type ReturnType struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

// Syntax is the language-tagged source signature of an item.
type Syntax struct {
	Content        string          `yaml:"content"`
	ContentVB      string          `yaml:"content.vb,omitempty"`
	Parameters     []Parameter     `yaml:"parameters,omitempty"`
	TypeParameters []TypeParameter `yaml:"typeParameters,omitempty"`
	Return         *ReturnType     `yaml:"return,omitempty"`
}

// SourceReference points at the defining source location.
type SourceReference struct {
	Href string `yaml:"href"`
}

// Item is one documentation record: a namespace, type, or member.
//
// Only the fields this pipeline reads are modeled; records may carry more and
// unknown fields pass through the parser without error.
type Item struct {
	UID              string           `yaml:"uid"`
	CommentID        string           `yaml:"commentId,omitempty"`
	ID               string           `yaml:"id,omitempty"`
	Parent           string           `yaml:"parent,omitempty"`
	Children         []string         `yaml:"children,omitempty"`
	Langs            []string         `yaml:"langs,omitempty"`
	Name             string           `yaml:"name"`
	NameWithType     string           `yaml:"nameWithType,omitempty"`
	FullName         string           `yaml:"fullName,omitempty"`
	Type             SymbolType       `yaml:"type"`
	Source           *SourceReference `yaml:"source,omitempty"`
	Assemblies       []string         `yaml:"assemblies,omitempty"`
	Namespace        string           `yaml:"namespace,omitempty"`
	Summary          string           `yaml:"summary,omitempty"`
	Remarks          string           `yaml:"remarks,omitempty"`
	Example          string           `yaml:"example,omitempty"`
	Syntax           *Syntax          `yaml:"syntax,omitempty"`
	Overload         string           `yaml:"overload,omitempty"`
	Inheritance      []string         `yaml:"inheritance,omitempty"`
	DerivedClasses   []string         `yaml:"derivedClasses,omitempty"`
	Implements       []string         `yaml:"implements,omitempty"`
	InheritedMembers []string         `yaml:"inheritedMembers,omitempty"`
	ExtensionMethods []string         `yaml:"extensionMethods,omitempty"`
}

// Reference resolves a cross-referenced uid that is not defined in the same
// record file.
type Reference struct {
	UID          string     `yaml:"uid"`
	CommentID    string     `yaml:"commentId,omitempty"`
	Parent       string     `yaml:"parent,omitempty"`
	IsExternal   bool       `yaml:"isExternal,omitempty"`
	Href         string     `yaml:"href,omitempty"`
	Name         string     `yaml:"name"`
	NameWithType string     `yaml:"nameWithType,omitempty"`
	FullName     string     `yaml:"fullName,omitempty"`
	SpecCSharp   []SpecPart `yaml:"spec.csharp,omitempty"`
}

// SpecPart is one display fragment of a generic type reference.
type SpecPart struct {
	UID        string `yaml:"uid,omitempty"`
	Name       string `yaml:"name"`
	IsExternal bool   `yaml:"isExternal,omitempty"`
	Href       string `yaml:"href,omitempty"`
}

// Document is one parsed record file. Items[0] is the main item (the type or
// namespace itself); the rest are its members.
type Document struct {
	Items      []Item      `yaml:"items"`
	References []Reference `yaml:"references,omitempty"`
}

// TocEntry is one entry of the DocFX table-of-contents record.
type TocEntry struct {
	UID   string     `yaml:"uid,omitempty"`
	Name  string     `yaml:"name"`
	Href  string     `yaml:"href,omitempty"`
	Items []TocEntry `yaml:"items,omitempty"`
}

// TypeInfo is the navigation summary of a type.
type TypeInfo struct {
	UID       string
	Name      string
	Type      SymbolType
	Namespace string
}

// NamespaceInfo is a namespace with its types, ordered by name.
type NamespaceInfo struct {
	UID   string
	Name  string
	Types []TypeInfo
}

// SearchResult is one ranked hit of an index search.
type SearchResult struct {
	UID       string
	Name      string
	FullName  string
	Type      SymbolType
	Namespace string
}

// Breadcrumb is one entry of a uid breadcrumb trail.
type Breadcrumb struct {
	Name string
	UID  string
}

// GroupedMembers buckets a type's members by category for display.
type GroupedMembers struct {
	Constructors []Item
	Fields       []Item
	Properties   []Item
	Methods      []Item
	Events       []Item
	Operators    []Item
}
