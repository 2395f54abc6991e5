package dom

import (
	"strings"
	"unicode"
)

// Kind discriminates the node types of a document tree.
type Kind uint8

// Node kinds. The set is closed: only types of this package implement Node.
const (
	DocumentKind Kind = iota
	ElementKind
	TextKind
	CDataKind
	CommentKind
	EntityRefKind
	ProcInstKind
	DocTypeKind
	DeclKind
)

var kindNames = [...]string{"document", "element", "text", "cdata", "comment",
	"entity_ref", "pi", "dtd", "decl"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Node is a node of a document tree.
type Node interface {
	Kind() Kind
	Parent() Node
	Children() []Node
	PrevSibling() Node
	NextSibling() Node
	Line() int // source line, 0 if unknown
	links() *link
}

// link holds the tree structure every node kind shares.
type link struct {
	parent     Node
	prev, next Node
	children   []Node
	line       int
}

func (l *link) Parent() Node      { return l.parent }
func (l *link) Children() []Node  { return l.children }
func (l *link) PrevSibling() Node { return l.prev }
func (l *link) NextSibling() Node { return l.next }
func (l *link) Line() int         { return l.line }
func (l *link) links() *link      { return l }

// SetLine records the source line of a node.
func (l *link) SetLine(line int) { l.line = line }

// AppendChild links child as the last child of parent and returns child.
// A child already linked elsewhere is not detached from its former parent.
func AppendChild(parent, child Node) Node {
	if parent == nil || child == nil {
		return child
	}
	p, c := parent.links(), child.links()
	if n := len(p.children); n > 0 {
		last := p.children[n-1]
		last.links().next = child
		c.prev = last
	}
	c.parent = parent
	p.children = append(p.children, child)
	return child
}

// --- Node kinds ------------------------------------------------------------

// Document is the root of a tree. Its children are the document element plus
// top-level comments, processing instructions and an optional DocType.
type Document struct {
	link
	Version string // from the XML declaration
}

// NewDocument creates an empty document.
func NewDocument(version string) *Document {
	return &Document{Version: version}
}

// Kind is part of interface Node.
func (d *Document) Kind() Kind { return DocumentKind }

// Root returns the document element, or nil.
func (d *Document) Root() *Element {
	for _, c := range d.children {
		if e, ok := c.(*Element); ok {
			return e
		}
	}
	return nil
}

// DocType returns the document type declaration, or nil.
func (d *Document) DocType() *DocType {
	for _, c := range d.children {
		if dt, ok := c.(*DocType); ok {
			return dt
		}
	}
	return nil
}

// Element is an element node with its attributes and the namespace
// declarations it carries itself (inherited ones are not listed).
type Element struct {
	link
	Prefix     string
	Local      string
	Attrs      []*Attr
	Namespaces []*Namespace
}

// NewElement creates an element from a possibly prefixed name.
func NewElement(name string) *Element {
	prefix, local := splitName(name)
	return &Element{Prefix: prefix, Local: local}
}

// Kind is part of interface Node.
func (e *Element) Kind() Kind { return ElementKind }

// Name returns the qualified name.
func (e *Element) Name() string {
	return joinName(e.Prefix, e.Local)
}

// SetAttr adds an attribute with a possibly prefixed name. Names starting with
// xmlns are recorded as namespace declarations.
func (e *Element) SetAttr(name, value string) *Element {
	prefix, local := splitName(name)
	switch {
	case prefix == "" && local == "xmlns":
		e.Namespaces = append(e.Namespaces, &Namespace{URI: value})
	case prefix == "xmlns":
		e.Namespaces = append(e.Namespaces, &Namespace{Prefix: local, URI: value})
	default:
		e.Attrs = append(e.Attrs, &Attr{Prefix: prefix, Local: local, Value: value})
	}
	return e
}

// Attr is an attribute of an element. Attributes are not tree nodes.
type Attr struct {
	Prefix string
	Local  string
	Value  string
}

// Name returns the qualified name.
func (a *Attr) Name() string {
	return joinName(a.Prefix, a.Local)
}

// Namespace is a namespace declaration. An empty prefix declares the default
// namespace.
type Namespace struct {
	Prefix string
	URI    string
}

// Text is character data.
type Text struct {
	link
	Data string
}

// NewText creates a text node.
func NewText(s string) *Text { return &Text{Data: s} }

// Kind is part of interface Node.
func (t *Text) Kind() Kind { return TextKind }

// CData is a CDATA section.
type CData struct {
	link
	Data string
}

// NewCData creates a CDATA section.
func NewCData(s string) *CData { return &CData{Data: s} }

// Kind is part of interface Node.
func (c *CData) Kind() Kind { return CDataKind }

// Comment is a comment. Data excludes the delimiters.
type Comment struct {
	link
	Data string
}

// NewComment creates a comment.
func NewComment(s string) *Comment { return &Comment{Data: s} }

// Kind is part of interface Node.
func (c *Comment) Kind() Kind { return CommentKind }

// EntityRef is an unexpanded reference to a general entity.
type EntityRef struct {
	link
	Name string
}

// NewEntityRef creates an entity reference.
func NewEntityRef(name string) *EntityRef { return &EntityRef{Name: name} }

// Kind is part of interface Node.
func (r *EntityRef) Kind() Kind { return EntityRefKind }

// ProcInst is a processing instruction.
type ProcInst struct {
	link
	Target string
	Inst   string
}

// NewProcInst creates a processing instruction.
func NewProcInst(target, inst string) *ProcInst {
	return &ProcInst{Target: target, Inst: inst}
}

// Kind is part of interface Node.
func (p *ProcInst) Kind() Kind { return ProcInstKind }

// DocType is a document type declaration. Its children are the entries of the
// internal subset.
type DocType struct {
	link
	Name     string
	PublicID string
	SystemID string
}

// NewDocType creates a document type declaration.
func NewDocType(name, publicID, systemID string) *DocType {
	return &DocType{Name: name, PublicID: publicID, SystemID: systemID}
}

// Kind is part of interface Node.
func (d *DocType) Kind() Kind { return DocTypeKind }

// Decl is a markup declaration of the internal subset, like
// <!ENTITY js "EcmaScript">. Raw holds the complete declaration with
// whitespace outside of literals collapsed. Keyword is ENTITY, ELEMENT,
// ATTLIST or NOTATION; it is empty for parameter entity references.
type Decl struct {
	link
	Keyword string
	Raw     string
}

// NewDecl creates a markup declaration from its source text.
func NewDecl(raw string) *Decl {
	raw = collapseDecl(raw)
	kw := ""
	if strings.HasPrefix(raw, "<!") {
		kw = strings.TrimPrefix(raw, "<!")
		if i := strings.IndexAny(kw, " >"); i >= 0 {
			kw = kw[:i]
		}
	}
	return &Decl{Keyword: kw, Raw: raw}
}

// Kind is part of interface Node.
func (d *Decl) Kind() Kind { return DeclKind }

// --- Helpers ---------------------------------------------------------------

func splitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i > 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func joinName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// IsBlank reports whether s consists of white space only. A non-breaking
// space counts as content.
func IsBlank(s string) bool {
	for _, r := range s {
		if !IsSpace(r) {
			return false
		}
	}
	return true
}

// IsSpace reports white space the way document text is normalized:
// Unicode white space and the byte order mark, but no non-breaking space
// and no NEL.
func IsSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}
