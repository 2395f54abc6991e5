package dentin

import (
	"strings"

	"golang.org/x/net/html/atom"
)

var voidElements = map[atom.Atom]bool{
	atom.Area:    true,
	atom.Base:    true,
	atom.Br:      true,
	atom.Col:     true,
	atom.Command: true,
	atom.Embed:   true,
	atom.Hr:      true,
	atom.Img:     true,
	atom.Input:   true,
	atom.Keygen:  true,
	atom.Link:    true,
	atom.Meta:    true,
	atom.Param:   true,
	atom.Source:  true,
	atom.Track:   true,
	atom.Wbr:     true,
}

// isVoidElement is true for HTML elements which never have content and
// no end tag.
func isVoidElement(name string) bool {
	return voidElements[atom.Lookup([]byte(name))]
}

// Elements whose content the HTML parser does not decode. Their text must
// neither be escaped nor re-flowed.
var rawTextElements = map[atom.Atom]bool{
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
}

// Elements in which white space is significant.
var preformattedElements = map[atom.Atom]bool{
	atom.Pre:      true,
	atom.Listing:  true,
	atom.Textarea: true,
}

var booleanAttributes = map[string]bool{
	"allowfullscreen":     true,
	"allowpaymentrequest": true,
	"async":               true,
	"autofocus":           true,
	"autoplay":            true,
	"checked":             true,
	"controls":            true,
	"default":             true,
	"defer":               true,
	"disabled":            true,
	"formnovalidate":      true,
	"hidden":              true,
	"ismap":               true,
	"itemscope":           true,
	"loop":                true,
	"multiple":            true,
	"muted":               true,
	"nomodule":            true,
	"novalidate":          true,
	"open":                true,
	"playsinline":         true,
	"readonly":            true,
	"required":            true,
	"reversed":            true,
	"selected":            true,
	"truespeed":           true,
	"typemustmatch":       true,
}

// isBooleanAttr is true for HTML attributes whose value is irrelevant.
func isBooleanAttr(name string) bool {
	return booleanAttributes[strings.ToLower(name)]
}

// verbatimKind tells how the text content of an element is printed.
type verbatimKind int8

const (
	flowText    verbatimKind = iota // collapse white space, wrap
	escapedText                     // keep white space, escape
	rawText                         // print as is
)

// verbatim decides how to print text within the element named parent.
func (d *Dentin) verbatim(parent string) verbatimKind {
	if d.opts.HTML {
		a := atom.Lookup([]byte(parent))
		if rawTextElements[a] {
			return rawText
		}
		if preformattedElements[a] {
			return escapedText
		}
	}
	if d.ignore[parent] {
		return escapedText
	}
	return flowText
}
