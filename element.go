package dentin

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

import (
	"strings"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/dentin/theme"
)

type elementWrapper struct {
	base
	attrs      []Wrapper // attributes, then namespace declarations, sorted
	attributes int       // number of attributes in attrs
}

func (d *Dentin) wrapElement(b base, e *dom.Element) (Wrapper, error) {
	w := &elementWrapper{base: b}
	w.facts.Element = true
	w.facts.Name = e.Name()
	if d.opts.HTML {
		w.facts.Name = strings.ToLower(w.facts.Name)
		w.facts.Void = isVoidElement(w.facts.Name)
		if w.facts.Void && len(e.Children()) > 0 {
			return nil, &VoidElementHasChildrenError{Name: w.facts.Name, Line: e.Line()}
		}
	}
	for _, a := range d.sortedAttrs(e.Attrs) {
		w.attrs = append(w.attrs, d.wrapAttr(a, w))
	}
	w.attributes = len(w.attrs)
	for _, ns := range sortedNamespaces(d, e.Namespaces) {
		w.attrs = append(w.attrs, d.wrapNamespace(ns, w))
	}
	if err := d.wrapChildren(w, e); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *elementWrapper) Print(indent int, st *State) *State {
	parentMixed := w.parentMixed()
	strict := st.Strict()
	margin := w.d.opts.Margin
	if !parentMixed {
		st.indent(indent)
	}
	st.color(theme.Punctuation, "<").color(theme.Element, w.facts.Name)
	w.printAttributes(st, parentMixed || strict)

	if !w.facts.Nonempty && !w.facts.Elements {
		switch {
		case w.facts.Void:
			st.color(theme.Punctuation, ">")
		case w.d.opts.HTML: // HTML needs the end tag for non-void elements
			st.color(theme.Punctuation, "></").color(theme.Element, w.facts.Name).color(theme.Punctuation, ">")
		default:
			st.color(theme.Punctuation, "/>")
		}
	} else {
		st.color(theme.Punctuation, ">")
		if w.facts.Mixed {
			if !w.printInline(indent, st) {
				w.printMixed(indent, st, parentMixed, margin)
			}
		} else {
			if w.facts.Elements && !strict {
				st.newline()
			}
			for _, c := range w.children {
				c.Print(indent+1, st)
			}
			if w.facts.Elements && !w.facts.Nonempty && !strict {
				st.indent(indent)
			}
		}
		st.color(theme.Punctuation, "</").color(theme.Element, w.facts.Name).color(theme.Punctuation, ">")
	}
	if !parentMixed && !strict {
		st.newline()
	}
	return st
}

// printAttributes prints attributes and namespace declarations, either all
// on the line of the start tag or, if they do not fit, one per line aligned
// after the element name.
func (w *elementWrapper) printAttributes(st *State, inline bool) {
	if len(w.attrs) == 0 {
		return
	}
	frags := make([]*State, len(w.attrs))
	first := st.right
	for i, a := range w.attrs {
		frags[i] = a.Print(0, w.d.floatingState())
		first += frags[i].total
	}
	if len(w.children) > 0 {
		first++ // >
	} else {
		first += 2 // />
	}
	margin := w.d.opts.Margin
	if margin > 0 && first > margin && !inline {
		T().Debugf("attributes of <%s> exceed margin: %d > %d", w.facts.Name, first, margin)
		col := st.right
		for i, frag := range frags {
			if i > 0 && st.spaces > 0 {
				st.newline()
				st.spacesString(col)
			}
			st.append(frag)
		}
		return
	}
	for _, frag := range frags {
		st.append(frag)
	}
}

// printInline tries to put all children of a mixed element on the current
// line. Children are printed with newlines suppressed; if the result
// including the end tag stays within the margin, it is appended to st.
func (w *elementWrapper) printInline(indent int, st *State) bool {
	right := st.right
	trials := make([]*State, 0, len(w.children))
	for _, c := range w.children {
		s := w.d.stateAt(-1, right)
		c.Print(indent, s)
		right = s.right
		if s.lines > 0 {
			return false
		}
		trials = append(trials, s)
	}
	margin := w.d.opts.Margin
	if margin > 0 && right+width(w.facts.Name)+3 >= margin { // </name>
		T().Debugf("mixed content of <%s> does not fit on one line", w.facts.Name)
		return false
	}
	for _, s := range trials {
		st.append(s)
	}
	return true
}

// printMixed places the children of a mixed element one after the other,
// breaking the line before a child whose first line would cross the margin.
// A child is printed at most twice: once at the current column and, if it
// had to be moved to a fresh line, once more there. The first child is never
// moved, and children printing nothing never cause a break.
func (w *elementWrapper) printMixed(indent int, st *State, parentMixed bool, margin int) {
	strict := st.Strict()
	if !parentMixed && !strict {
		st.newline()
		st.indent(indent + 1)
	}
	tail := 0
	if parentMixed {
		tail = width(w.facts.Name) + 3 // </name>
	}
	first := true
	for i, c := range w.children {
		s := st.trial()
		c.Print(indent+1, s)
		if s.total == 0 {
			continue
		}
		if !first && !strict && margin > 0 && !st.fresh {
			fl, ok := s.FirstLine()
			if !ok {
				fl = s.right
				if i == len(w.children)-1 {
					fl += tail
				}
			}
			if fl > margin {
				T().Debugf("moving child of <%s> to a new line", w.facts.Name)
				st.newline()
				st.indent(indent + 1)
				s = st.trial()
				c.Print(indent+1, s)
			}
		}
		st.append(s)
		first = false
	}
	if !parentMixed && !strict {
		st.newline()
		st.indent(indent)
	}
}
