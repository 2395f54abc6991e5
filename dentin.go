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
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/dentin/textfile"
	"github.com/npillmayer/dentin/theme"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Dentin is a document printer for a fixed set of options.
//
// A Dentin is not safe for concurrent use, as attribute ordering uses a
// stateful collator. Create one per goroutine.
type Dentin struct {
	opts     *Options
	quote    string
	ignore   map[string]bool
	colorize theme.Colorizer
	collator *collate.Collator
}

// New creates a printer. A nil opts means DefaultOptions. opts is copied.
func New(opts *Options) *Dentin {
	if opts == nil {
		opts = DefaultOptions()
	} else {
		opts = opts.clone()
	}
	d := &Dentin{
		opts:     opts,
		quote:    opts.Quote(),
		ignore:   make(map[string]bool, len(opts.Ignore)),
		colorize: theme.Plain,
		collator: collate.New(language.English),
	}
	for _, name := range opts.Ignore {
		d.ignore[name] = true
	}
	if opts.Colors {
		th := opts.Theme
		if th == nil {
			th = theme.Default()
		}
		d.colorize = th.Colorizer(true)
	}
	return d
}

// Options returns a copy of the printer's options.
func (d *Dentin) Options() *Options {
	return d.opts.clone()
}

// PrintNode prints a node and its sub-tree. Nodes other than documents are
// printed as if they had no parent.
//
// The complete tree is wrapped before printing starts, so on error no output
// is produced.
func (d *Dentin) PrintNode(node dom.Node) (string, error) {
	w, err := d.Wrap(node, nil)
	if err != nil {
		T().Errorf("cannot print %s node: %v", kindOf(node), err)
		return "", err
	}
	return w.Print(0, d.NewState()).String(), nil
}

// Parse reads a document, as HTML if the printer is configured for HTML,
// as XML otherwise.
func (d *Dentin) Parse(r io.Reader) (*dom.Document, error) {
	if d.opts.HTML {
		return dom.ParseHTML(r)
	}
	return dom.ParseXML(r)
}

// Dent re-indents a document. src is the document source as a string,
// a byte slice or an io.Reader, or an already parsed dom.Node.
// A nil opts means DefaultOptions.
func Dent(src interface{}, opts *Options) (string, error) {
	d := New(opts)
	var r io.Reader
	switch s := src.(type) {
	case string:
		r = strings.NewReader(s)
	case []byte:
		r = bytes.NewReader(s)
	case io.Reader:
		r = s
	case dom.Node:
		return d.PrintNode(s)
	default:
		return "", &InputTypeError{Value: src}
	}
	doc, err := d.Parse(r)
	if err != nil {
		return "", err
	}
	return d.PrintNode(doc)
}

// DentFile re-indents a file. A name of "-" reads standard input. Unless
// opts asks for HTML, files named *.html or *.htm are read as HTML.
func DentFile(name string, opts *Options) (string, error) {
	data, err := textfile.Load(name)
	if err != nil {
		return "", err
	}
	return Dent(data, OptionsForFile(name, opts))
}

// OptionsForFile switches on HTML mode for files with an HTML extension.
// It returns opts unchanged if nothing has to change.
func OptionsForFile(name string, opts *Options) *Options {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.HTML || !IsHTMLFile(name) {
		return opts
	}
	o := opts.clone()
	o.HTML = true
	return o
}

// IsHTMLFile tells from the extension if a file contains HTML.
func IsHTMLFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}

func kindOf(node dom.Node) string {
	if node == nil {
		return "nil"
	}
	return node.Kind().String()
}
