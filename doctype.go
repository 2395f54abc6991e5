package dentin

import (
	"strings"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/dentin/theme"
)

// dtdWrapper prints a document type declaration, including an internal
// subset.
type dtdWrapper struct {
	base
	dt *dom.DocType
}

func (w *dtdWrapper) Print(indent int, st *State) *State {
	opts := w.d.opts
	if opts.HTML && opts.NoVersion && len(w.children) == 0 {
		return st
	}
	st.indent(indent)
	st.color(theme.Punctuation, "<!").color(theme.Element, "DOCTYPE").out(" ").
		color(theme.Attribute, w.dt.Name)
	first := st.right
	ext := w.quoted(w.dt.PublicID)
	sys := w.quoted(w.dt.SystemID)
	var keyword *State
	if ext != nil {
		keyword = w.d.floatingState().out(" ").color(theme.Attribute, "PUBLIC")
		first += keyword.total + ext.total
		if sys != nil {
			first += 1 + sys.total
		}
	} else if sys != nil {
		keyword = w.d.floatingState().out(" ").color(theme.Attribute, "SYSTEM")
		first += keyword.total + sys.total
	}
	if len(w.children) == 0 {
		first++ // >
	}
	if keyword != nil {
		st.append(keyword)
		if opts.Margin <= 0 || first < opts.Margin {
			for _, id := range []*State{ext, sys} {
				if id != nil {
					st.out(" ").append(id)
				}
			}
		} else {
			T().Debugf("DOCTYPE %s exceeds margin, identifiers on separate lines", w.dt.Name)
			if ext != nil {
				st.newline()
				st.indent(indent + 1).append(ext)
			}
			if sys != nil {
				st.newline()
				st.indent(indent + 1).append(sys)
			}
		}
	}
	if len(w.children) > 0 {
		st.out(" ").color(theme.Punctuation, "[")
		st.newline()
		for _, c := range w.children {
			c.Print(indent+1, st)
		}
		st.indent(indent)
		st.color(theme.Punctuation, "]")
	}
	st.color(theme.Punctuation, ">")
	return st.newline()
}

// quoted renders an identifier as a floating fragment, or returns nil for an
// empty identifier.
func (w *dtdWrapper) quoted(id string) *State {
	if id == "" {
		return nil
	}
	q := w.d.quote
	return w.d.floatingState().color(theme.Punctuation, q).
		color(theme.AttributeValue, id).color(theme.Punctuation, q)
}

// declWrapper prints a markup declaration of the internal subset. Only
// quoting and colors change, the declaration is not re-formatted.
type declWrapper struct {
	base
	decl *dom.Decl
}

func (w *declWrapper) Print(indent int, st *State) *State {
	st.indent(indent)
	raw := w.decl.Raw
	if w.decl.Keyword == "" || !strings.HasPrefix(raw, "<!") {
		return st.out(raw).newline() // parameter entity reference
	}
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "<!"), ">")
	kw, rest := cutSpace(body)
	st.color(theme.Punctuation, "<!").color(theme.Element, kw)
	if strings.HasPrefix(rest, "% ") {
		st.out(" ").color(theme.Punctuation, "%")
		rest = rest[2:]
	}
	if rest != "" {
		var name string
		name, rest = cutSpace(rest)
		st.out(" ").color(theme.Attribute, name)
		if rest != "" {
			st.out(" ")
			w.d.printLiterals(st, rest)
		}
	}
	st.color(theme.Punctuation, ">")
	return st.newline()
}

func cutSpace(s string) (string, string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// printLiterals writes the tail of a markup declaration. Quoted literals
// get the configured quote character, unless they contain it.
func (d *Dentin) printLiterals(st *State, s string) {
	for s != "" {
		i := strings.IndexAny(s, `"'`)
		if i < 0 {
			st.out(s)
			return
		}
		st.out(s[:i])
		q := s[i : i+1]
		end := strings.Index(s[i+1:], q)
		if end < 0 {
			st.out(s[i:])
			return
		}
		lit := s[i+1 : i+1+end]
		if !strings.Contains(lit, d.quote) {
			q = d.quote
		}
		st.color(theme.Punctuation, q).color(theme.AttributeValue, lit).color(theme.Punctuation, q)
		s = s[i+2+end:]
	}
}
