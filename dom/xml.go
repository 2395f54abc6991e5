package dom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// Declared entities are resolved to a private-use marker by the decoder and
// turned into EntityRef nodes afterwards.
const (
	entityOpen  = "\uE000"
	entityClose = "\uE001"
)

var (
	utf8BOM       = []byte("\xEF\xBB\xBF")
	encodingDecl  = regexp.MustCompile(`^<\?xml[^>]*?\bencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)
	versionPseudo = regexp.MustCompile(`\bversion\s*=\s*["']([^"']+)["']`)
)

// ParseXML reads an XML document from r. Input in an encoding other than
// UTF-8 has to declare it in the XML declaration.
func ParseXML(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if data, err = toUTF8(data); err != nil {
		return nil, err
	}
	p := &xmlParser{
		data:     data,
		doc:      NewDocument("1.0"),
		entities: make(map[string]string),
	}
	p.dec = xml.NewDecoder(bytes.NewReader(data))
	p.dec.Strict = true
	p.dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return input, nil // already converted by toUTF8
	}
	return p.parse()
}

// toUTF8 converts data to UTF-8, driven by the encoding pseudo-attribute of the
// XML declaration.
func toUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	m := encodingDecl.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	switch label {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return data, nil
	}
	T().Debugf("converting XML input from %s", label)
	rd, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("unsupported encoding %q", label)}
	}
	return io.ReadAll(rd)
}

type xmlParser struct {
	data     []byte
	dec      *xml.Decoder
	doc      *Document
	open     []*Element
	entities map[string]string
}

func (p *xmlParser) parse() (*Document, error) {
	for {
		start := p.dec.InputOffset()
		line, _ := p.dec.InputPos()
		tok, err := p.dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, syntaxError(err)
		}
		raw := p.data[start:p.dec.InputOffset()]
		if err = p.add(tok, raw, line); err != nil {
			return nil, err
		}
	}
	if len(p.open) > 0 {
		e := p.open[len(p.open)-1]
		return nil, &ParseError{Line: e.line, Msg: fmt.Sprintf("element <%s> not closed", e.Name())}
	}
	if p.doc.Root() == nil {
		return nil, &ParseError{Msg: "document has no root element"}
	}
	return p.doc, nil
}

func (p *xmlParser) parent() Node {
	if len(p.open) == 0 {
		return p.doc
	}
	return p.open[len(p.open)-1]
}

func (p *xmlParser) atTop() bool {
	return len(p.open) == 0
}

func (p *xmlParser) add(tok xml.Token, raw []byte, line int) error {
	switch t := tok.(type) {
	case xml.StartElement:
		if p.atTop() && p.doc.Root() != nil {
			return &ParseError{Line: line, Msg: fmt.Sprintf("second root element <%s>", t.Name.Local)}
		}
		e := &Element{Prefix: t.Name.Space, Local: t.Name.Local}
		e.line = line
		for _, a := range t.Attr {
			switch {
			case a.Name.Space == "" && a.Name.Local == "xmlns":
				e.Namespaces = append(e.Namespaces, &Namespace{URI: a.Value})
			case a.Name.Space == "xmlns":
				e.Namespaces = append(e.Namespaces, &Namespace{Prefix: a.Name.Local, URI: a.Value})
			default:
				e.Attrs = append(e.Attrs, &Attr{
					Prefix: a.Name.Space,
					Local:  a.Name.Local,
					Value:  p.expand(a.Value),
				})
			}
		}
		AppendChild(p.parent(), e)
		p.open = append(p.open, e)
	case xml.EndElement:
		name := joinName(t.Name.Space, t.Name.Local)
		if p.atTop() {
			return &ParseError{Line: line, Msg: fmt.Sprintf("unexpected end tag </%s>", name)}
		}
		top := p.open[len(p.open)-1]
		if top.Name() != name {
			return &ParseError{Line: line, Msg: fmt.Sprintf("element <%s> closed by </%s>", top.Name(), name)}
		}
		p.open = p.open[:len(p.open)-1]
	case xml.CharData:
		if bytes.HasPrefix(raw, []byte("<![CDATA[")) {
			if p.atTop() {
				return &ParseError{Line: line, Msg: "CDATA section outside of root element"}
			}
			c := NewCData(string(t))
			c.line = line
			AppendChild(p.parent(), c)
			return nil
		}
		text := string(t)
		if p.atTop() {
			if IsBlank(text) {
				return nil
			}
			return &ParseError{Line: line, Msg: "text outside of root element"}
		}
		p.appendText(text, line)
	case xml.Comment:
		c := NewComment(string(t))
		c.line = line
		AppendChild(p.parent(), c)
	case xml.ProcInst:
		if t.Target == "xml" {
			if m := versionPseudo.FindSubmatch(t.Inst); m != nil {
				p.doc.Version = string(m[1])
			}
			return nil
		}
		pi := NewProcInst(t.Target, strings.TrimLeft(string(t.Inst), " \t\r\n"))
		pi.line = line
		AppendChild(p.parent(), pi)
	case xml.Directive:
		if !p.atTop() || !bytes.HasPrefix(raw, []byte("<!DOCTYPE")) {
			return &ParseError{Line: line, Msg: fmt.Sprintf("unexpected directive %.20q", raw)}
		}
		dt, entities, err := ParseDocType(string(raw))
		if err != nil {
			return &ParseError{Line: line, Msg: err.Error()}
		}
		dt.line = line
		p.declare(entities)
		AppendChild(p.doc, dt)
	}
	return nil
}

// declare makes the decoder accept references to the entities of the internal
// subset.
func (p *xmlParser) declare(entities map[string]string) {
	if len(entities) == 0 {
		return
	}
	if p.dec.Entity == nil {
		p.dec.Entity = make(map[string]string, len(entities))
	}
	for name, value := range entities {
		p.entities[name] = value
		p.dec.Entity[name] = entityOpen + name + entityClose
	}
}

// appendText splits character data at entity markers.
func (p *xmlParser) appendText(text string, line int) {
	parent := p.parent()
	for text != "" {
		i := strings.Index(text, entityOpen)
		j := strings.Index(text, entityClose)
		if i < 0 || j < i {
			break
		}
		if i > 0 {
			t := NewText(text[:i])
			t.line = line
			AppendChild(parent, t)
		}
		ref := NewEntityRef(text[i+len(entityOpen) : j])
		ref.line = line
		AppendChild(parent, ref)
		text = text[j+len(entityClose):]
	}
	if text != "" {
		t := NewText(text)
		t.line = line
		AppendChild(parent, t)
	}
}

// expand replaces entity markers in attribute values by the entities'
// replacement text.
func (p *xmlParser) expand(value string) string {
	if !strings.Contains(value, entityOpen) {
		return value
	}
	var b strings.Builder
	for {
		i := strings.Index(value, entityOpen)
		j := strings.Index(value, entityClose)
		if i < 0 || j < i {
			break
		}
		b.WriteString(value[:i])
		b.WriteString(p.entities[value[i+len(entityOpen):j]])
		value = value[j+len(entityClose):]
	}
	b.WriteString(value)
	return b.String()
}

func syntaxError(err error) error {
	var serr *xml.SyntaxError
	if errors.As(err, &serr) {
		return &ParseError{Line: serr.Line, Msg: serr.Msg}
	}
	return fmt.Errorf("dom: reading XML: %w", err)
}
