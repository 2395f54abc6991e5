package dom

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// ParseHTML reads an HTML document from r. The character encoding is sniffed
// from byte order marks and <meta> elements.
//
// The parser follows the HTML5 tree construction rules, which means that
// the result always has <html> and <body> elements. An empty <head> is kept
// only if the source has a head start tag.
func ParseHTML(r io.Reader) (*Document, error) {
	utf8, err := charset.NewReader(r, "text/html")
	if err != nil {
		return nil, fmt.Errorf("dom: sniffing HTML encoding: %w", err)
	}
	src, err := io.ReadAll(utf8)
	if err != nil {
		return nil, fmt.Errorf("dom: reading HTML: %w", err)
	}
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("dom: reading HTML: %w", err)
	}
	implied := !headTag.Match(src)
	doc := NewDocument("")
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		convertHTML(doc, c, implied)
	}
	return doc, nil
}

var headTag = regexp.MustCompile(`(?i)<head[\s/>]`)

// convertHTML walks an html.Node tree and mirrors it below parent.
func convertHTML(parent Node, n *html.Node, impliedHead bool) {
	var node Node
	switch n.Type {
	case html.DoctypeNode:
		dt := &DocType{Name: n.Data}
		for _, a := range n.Attr {
			switch a.Key {
			case "public":
				dt.PublicID = a.Val
			case "system":
				dt.SystemID = a.Val
			}
		}
		node = dt
	case html.ElementNode:
		if impliedHead && n.DataAtom == atom.Head && n.FirstChild == nil && len(n.Attr) == 0 {
			return
		}
		e := &Element{Local: n.Data}
		for _, a := range n.Attr {
			convertHTMLAttr(e, a)
		}
		node = e
	case html.TextNode, html.RawNode:
		node = NewText(n.Data)
	case html.CommentNode:
		node = NewComment(n.Data)
	default:
		T().Debugf("skipping HTML node of type %d", n.Type)
		return
	}
	AppendChild(parent, node)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		convertHTML(node, c, impliedHead)
	}
}

func convertHTMLAttr(e *Element, a html.Attribute) {
	switch {
	case a.Namespace == "xmlns" && a.Key == "xmlns", a.Namespace == "" && a.Key == "xmlns":
		e.Namespaces = append(e.Namespaces, &Namespace{URI: a.Val})
	case a.Namespace == "xmlns":
		e.Namespaces = append(e.Namespaces, &Namespace{Prefix: a.Key, URI: a.Val})
	case a.Namespace == "" && strings.HasPrefix(a.Key, "xmlns:"):
		e.Namespaces = append(e.Namespaces, &Namespace{Prefix: a.Key[len("xmlns:"):], URI: a.Val})
	default:
		e.Attrs = append(e.Attrs, &Attr{Prefix: a.Namespace, Local: a.Key, Value: a.Val})
	}
}
