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
	"fmt"

	"github.com/npillmayer/dentin/dom"
)

// Facts are the layout-relevant properties of a node, computed once when
// the node is wrapped.
type Facts struct {
	Name     string // qualified name, lower-case in HTML mode
	Element  bool   // element-like: elements, comments and processing instructions
	Elements bool   // at least one child is element-like
	Text     bool   // character data: text, CDATA, entity references
	Nonempty bool   // text with content; for containers: some text child is nonempty
	Mixed    bool   // Elements && Nonempty
	Void     bool   // HTML void element
	Comment  bool
	DTD      bool
}

// Wrapper prints one node of a document tree. There is exactly one Wrapper
// for every node; attributes and namespace declarations get wrappers of
// their own, which have no tree node.
type Wrapper interface {
	Node() dom.Node     // wrapped node, nil for attributes and namespaces
	Parent() Wrapper    // nil for the top-most wrapper
	Children() []Wrapper
	Facts() Facts
	// Print appends the node to st, which it returns. indent is the
	// nesting level.
	Print(indent int, st *State) *State
}

// base is embedded in every wrapper type.
type base struct {
	d        *Dentin
	node     dom.Node
	parent   Wrapper
	children []Wrapper
	facts    Facts
}

func (b *base) Node() dom.Node      { return b.node }
func (b *base) Parent() Wrapper     { return b.parent }
func (b *base) Children() []Wrapper { return b.children }
func (b *base) Facts() Facts        { return b.facts }

// parentMixed is true if the parent wrapper controls the layout of the
// node's line.
func (b *base) parentMixed() bool {
	return b.parent != nil && b.parent.Facts().Mixed
}

// Wrap creates the wrapper for a node and, recursively, for its children.
// parent is the wrapper of the node's parent, or nil if the node is to be
// printed on its own.
//
// Wrap fails for HTML void elements with children and for nodes of unknown
// type. Nothing is printed by Wrap, so a failing tree never produces output.
func (d *Dentin) Wrap(node dom.Node, parent Wrapper) (Wrapper, error) {
	if node == nil {
		return nil, ErrNilNode
	}
	b := base{d: d, node: node, parent: parent}
	var w Wrapper
	switch n := node.(type) {
	case *dom.Document:
		w = &documentWrapper{base: b, doc: n}
	case *dom.Element:
		return d.wrapElement(b, n)
	case *dom.Text:
		b.facts.Text = true
		b.facts.Nonempty = !dom.IsBlank(n.Data)
		w = &textWrapper{base: b, data: n.Data}
	case *dom.Comment:
		b.facts.Element = true
		b.facts.Comment = true
		b.facts.Nonempty = !dom.IsBlank(n.Data)
		w = &commentWrapper{textWrapper{base: b, data: n.Data}}
	case *dom.CData:
		b.facts.Text = true
		b.facts.Nonempty = true
		w = &cdataWrapper{base: b, data: n.Data}
	case *dom.EntityRef:
		b.facts.Text = true
		b.facts.Nonempty = true
		w = &refWrapper{base: b, name: n.Name}
	case *dom.ProcInst:
		b.facts.Element = true
		b.facts.Name = n.Target
		w = &piWrapper{base: b, pi: n}
	case *dom.DocType:
		b.facts.DTD = true
		w = &dtdWrapper{base: b, dt: n}
	case *dom.Decl:
		b.facts.Name = n.Keyword
		w = &declWrapper{base: b, decl: n}
	default:
		return nil, &UnknownNodeKindError{Kind: fmt.Sprintf("%T", node)}
	}
	if err := d.wrapChildren(w, node); err != nil {
		return nil, err
	}
	return w, nil
}

// wrapChildren wraps the children of node with w as their parent and
// derives the container facts of w.
func (d *Dentin) wrapChildren(w Wrapper, node dom.Node) error {
	kids := node.Children()
	if len(kids) == 0 {
		return nil
	}
	b := baseOf(w)
	b.children = make([]Wrapper, 0, len(kids))
	for _, c := range kids {
		k, err := d.Wrap(c, w)
		if err != nil {
			return err
		}
		f := k.Facts()
		if f.Text && f.Nonempty {
			b.facts.Nonempty = true
		}
		if f.Element {
			b.facts.Elements = true
		}
		b.children = append(b.children, k)
	}
	if b.facts.Element && !b.facts.Comment {
		b.facts.Mixed = b.facts.Elements && b.facts.Nonempty
	}
	return nil
}

// baseOf gives access to the shared part of the wrappers of this package.
func baseOf(w Wrapper) *base {
	switch w := w.(type) {
	case *documentWrapper:
		return &w.base
	case *elementWrapper:
		return &w.base
	case *textWrapper:
		return &w.base
	case *commentWrapper:
		return &w.base
	case *cdataWrapper:
		return &w.base
	case *refWrapper:
		return &w.base
	case *piWrapper:
		return &w.base
	case *dtdWrapper:
		return &w.base
	case *declWrapper:
		return &w.base
	case *attrWrapper:
		return &w.base
	case *nsWrapper:
		return &w.base
	}
	panic(fmt.Sprintf("foreign wrapper type %T", w))
}
