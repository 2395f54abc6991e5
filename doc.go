/*
Package dentin re-indents XML and HTML documents.

Dentin prints a document tree in a canonical layout: elements are indented by a
configurable number of spaces, running text is word-wrapped at a right margin,
attributes are sorted, quoting is normalized and, optionally, the output is
colorized for terminals. Document content is never altered; only whitespace,
indentation, attribute order and quoting style change.

    out, err := dentin.Dent(`<foo b="2" a="1"/>`, nil)
    // <?xml version='1.0'?>
    // <foo a='1' b='2'/>

Printing

Every node of a document tree is wrapped exactly once by a Wrapper, which
classifies the node (does it contain elements, non-empty text, both?) and
knows how to print it. Printing is a recursive descent which threads a State
through the tree. A State accumulates output and measures it: the current
column, the number of lines, the width of the first line. Layout decisions are
taken by rendering into a fresh State, measuring the result and either keeping
or discarding it.

Mixed content, i.e. text interleaved with elements, is first tried on a single
line. Only if that fails, the children are placed one after the other, with
line breaks inserted where a child would cross the margin.

Colors

Colorization is a side channel. Each token is emitted with a category from
package theme, and a theme.Colorizer decorates it. Widths are always measured
on the undecorated token, so colors never influence layout.

_________________________________________________________________________

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
package dentin

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// DentinError is an error type for the dentin module.
type DentinError string

func (e DentinError) Error() string {
	return string(e)
}

// ErrNilNode is flagged if a nil node is handed to the printer.
const ErrNilNode = DentinError("cannot print nil node")

// VoidElementHasChildrenError is flagged when an HTML void element, which can
// never have content, is found to have children.
type VoidElementHasChildrenError struct {
	Name string
	Line int // 0 if unknown
}

func (e *VoidElementHasChildrenError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("void element '%s' with children at line %d", e.Name, e.Line)
	}
	return fmt.Sprintf("void element '%s' with children", e.Name)
}

// UnknownNodeKindError is flagged for a node the printer has no wrapper for.
type UnknownNodeKindError struct {
	Kind string
}

func (e *UnknownNodeKindError) Error() string {
	return fmt.Sprintf("unknown node kind %s", e.Kind)
}

// InputTypeError is flagged if the input to Dent is neither text, bytes, a
// reader nor a document node.
type InputTypeError struct {
	Value interface{}
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("invalid input of type %T, expected string, []byte, io.Reader or dom.Node", e.Value)
}
