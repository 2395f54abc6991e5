package dentin

import (
	"regexp"
	"sort"
	"strings"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/dentin/theme"
)

// attrWrapper prints an attribute as ` name='value'`.
type attrWrapper struct {
	base
	attr *dom.Attr
}

func (d *Dentin) wrapAttr(a *dom.Attr, parent Wrapper) *attrWrapper {
	w := &attrWrapper{base: base{d: d, parent: parent}, attr: a}
	name := a.Local
	if d.opts.HTML {
		name = strings.ToLower(name)
	}
	if a.Prefix != "" {
		name = a.Prefix + ":" + name
	}
	w.facts.Name = name
	return w
}

// WrapAttr creates a wrapper for a single attribute. It prints the attribute
// the way it would appear within its element's start tag.
func (d *Dentin) WrapAttr(a *dom.Attr) (Wrapper, error) {
	if a == nil {
		return nil, ErrNilNode
	}
	return d.wrapAttr(a, nil), nil
}

// unquotedValue matches attribute values which HTML allows without quotes.
var unquotedValue = regexp.MustCompile("^[^ \t\r\n\"'=<>`]+$")

func (w *attrWrapper) Print(indent int, st *State) *State {
	val := w.d.escapeAttr(w.attr.Value)
	name := w.facts.Name
	if w.d.opts.HTML {
		if isBooleanAttr(name) || val == "" {
			return st.out(" ").color(theme.Attribute, name)
		}
		if w.d.opts.FewerQuotes && unquotedValue.MatchString(val) {
			return st.out(" ").color(theme.Attribute, name).color(theme.Punctuation, "=").
				color(theme.AttributeValue, val)
		}
	}
	q := w.d.quote
	return st.out(" ").color(theme.Attribute, name).color(theme.Punctuation, "="+q).
		color(theme.AttributeValue, val).color(theme.Punctuation, q)
}

// nsWrapper prints a namespace declaration as ` xmlns:p='uri'`.
type nsWrapper struct {
	base
	ns *dom.Namespace
}

func (d *Dentin) wrapNamespace(ns *dom.Namespace, parent Wrapper) *nsWrapper {
	w := &nsWrapper{base: base{d: d, parent: parent}, ns: ns}
	w.facts.Name = "xmlns"
	if ns.Prefix != "" {
		w.facts.Name = "xmlns:" + ns.Prefix
	}
	return w
}

// WrapNamespace creates a wrapper for a single namespace declaration.
func (d *Dentin) WrapNamespace(ns *dom.Namespace) (Wrapper, error) {
	if ns == nil {
		return nil, ErrNilNode
	}
	return d.wrapNamespace(ns, nil), nil
}

func (w *nsWrapper) Print(indent int, st *State) *State {
	q := w.d.quote
	return st.out(" ").color(theme.Attribute, w.facts.Name).color(theme.Punctuation, "="+q).
		color(theme.AttributeValue, w.d.escapeAttr(w.ns.URI)).color(theme.Punctuation, q)
}

// --- Ordering --------------------------------------------------------------

// comparePrefixes orders unprefixed names before prefixed ones and prefixed
// names by prefix.
func (d *Dentin) comparePrefixes(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	return d.collator.CompareString(a, b)
}

// CompareAttrs orders attributes: unprefixed before prefixed, then by
// prefix, then by local name. Strings are compared by English collation
// rules.
func (d *Dentin) CompareAttrs(a, b *dom.Attr) int {
	if c := d.comparePrefixes(a.Prefix, b.Prefix); c != 0 {
		return c
	}
	return d.collator.CompareString(a.Local, b.Local)
}

func (d *Dentin) sortedAttrs(attrs []*dom.Attr) []*dom.Attr {
	sorted := append([]*dom.Attr(nil), attrs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return d.CompareAttrs(sorted[i], sorted[j]) < 0
	})
	return sorted
}

// sortedNamespaces puts the default namespace first, followed by the
// prefixed declarations in prefix order.
func sortedNamespaces(d *Dentin, nss []*dom.Namespace) []*dom.Namespace {
	sorted := append([]*dom.Namespace(nil), nss...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return d.comparePrefixes(sorted[i].Prefix, sorted[j].Prefix) < 0
	})
	return sorted
}

// --- Escaping --------------------------------------------------------------

// Non-breaking spaces are made visible. XML knows no &nbsp; entity, so XML
// output uses a character reference instead.
var (
	htmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	xmlTextEscaper  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&#160;")
	htmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;",
		`"`, "&quot;", "'", "&apos;", "\u00a0", "&nbsp;")
	xmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;",
		`"`, "&quot;", "'", "&apos;", "\u00a0", "&#160;")
)

func (d *Dentin) escapeText(s string) string {
	if d.opts.HTML {
		return htmlTextEscaper.Replace(s)
	}
	return xmlTextEscaper.Replace(s)
}

func (d *Dentin) escapeAttr(s string) string {
	if d.opts.HTML {
		return htmlAttrEscaper.Replace(s)
	}
	return xmlAttrEscaper.Replace(s)
}
