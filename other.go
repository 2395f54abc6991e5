package dentin

import (
	"regexp"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/dentin/theme"
)

// documentWrapper prints the XML prolog followed by the top-level nodes.
type documentWrapper struct {
	base
	doc *dom.Document
}

func (w *documentWrapper) Print(indent int, st *State) *State {
	if !w.d.opts.NoVersion && !w.d.opts.HTML {
		version := w.doc.Version
		if version == "" {
			version = "1.0"
		}
		q := w.d.quote
		st.color(theme.Punctuation, "<?").color(theme.Element, "xml").out(" ").
			color(theme.Attribute, "version").color(theme.Punctuation, "="+q).
			color(theme.AttributeValue, version).color(theme.Punctuation, q+"?>")
		st.newline()
	}
	for _, c := range w.children {
		c.Print(indent, st)
	}
	return st
}

// cdataWrapper prints a CDATA section unchanged.
type cdataWrapper struct {
	base
	data string
}

func (w *cdataWrapper) Print(indent int, st *State) *State {
	return st.color(theme.Punctuation, "<![").color(theme.Element, "CDATA").
		color(theme.Punctuation, "[").out(w.data).color(theme.Punctuation, "]]>")
}

// refWrapper prints an entity reference.
type refWrapper struct {
	base
	name string
}

func (w *refWrapper) Print(indent int, st *State) *State {
	return st.color(theme.Punctuation, "&").out(w.name).color(theme.Punctuation, ";")
}

// piWrapper prints a processing instruction on a line of its own.
type piWrapper struct {
	base
	pi *dom.ProcInst
}

func (w *piWrapper) Print(indent int, st *State) *State {
	if w.parentMixed() && w.followsContent() {
		st.newline()
	}
	st.indent(indent)
	st.color(theme.Punctuation, "<?").color(theme.Element, w.pi.Target)
	if w.pi.Inst != "" {
		st.out(" ")
		w.d.printQuoted(st, w.pi.Inst, theme.Attribute)
	}
	st.color(theme.Punctuation, "?>")
	return st.newline()
}

// followsContent is true if a sibling before the instruction has printed
// something other than white space.
func (w *piWrapper) followsContent() bool {
	for n := w.node.PrevSibling(); n != nil; n = n.PrevSibling() {
		if t, ok := n.(*dom.Text); ok {
			if dom.IsBlank(t.Data) {
				continue
			}
		}
		return true
	}
	return false
}

var quotedString = regexp.MustCompile(`"([^'"]+)"|'([^'"]+)'`)

// printQuoted writes s, replacing the quotes around quoted substrings by the
// configured quote character. Quoted content is printed in category cat.
func (d *Dentin) printQuoted(st *State, s string, cat theme.Category) {
	pos := 0
	for _, m := range quotedString.FindAllStringSubmatchIndex(s, -1) {
		st.out(s[pos:m[0]])
		var inner string
		if m[2] >= 0 {
			inner = s[m[2]:m[3]]
		} else {
			inner = s[m[4]:m[5]]
		}
		st.color(theme.Punctuation, d.quote).color(cat, inner).color(theme.Punctuation, d.quote)
		pos = m[1]
	}
	st.out(s[pos:])
}
