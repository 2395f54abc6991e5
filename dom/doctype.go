package dom

import (
	"fmt"
	"strings"
)

// ParseDocType reads the text of a document type declaration, including its
// delimiters, e.g.
//
//     <!DOCTYPE foo SYSTEM "foo.dtd" [ <!ENTITY js "EcmaScript"> ]>
//
// The internal subset becomes the children of the returned node. General
// entities declared in the subset are returned with their replacement text;
// external entities map to the empty string.
func ParseDocType(raw string) (*DocType, map[string]string, error) {
	if !strings.HasPrefix(raw, "<!DOCTYPE") || !strings.HasSuffix(raw, ">") {
		return nil, nil, fmt.Errorf("not a document type declaration: %.20q", raw)
	}
	sc := &dtdScanner{s: raw[len("<!DOCTYPE") : len(raw)-1]}
	sc.skipSpace()
	dt := &DocType{Name: sc.name()}
	if dt.Name == "" {
		return nil, nil, fmt.Errorf("document type declaration without a name")
	}
	sc.skipSpace()
	var err error
	switch {
	case sc.keyword("PUBLIC"):
		sc.skipSpace()
		if dt.PublicID, err = sc.literal(); err != nil {
			return nil, nil, err
		}
		sc.skipSpace()
		if sc.more() && sc.peek() != '[' {
			if dt.SystemID, err = sc.literal(); err != nil {
				return nil, nil, err
			}
		}
	case sc.keyword("SYSTEM"):
		sc.skipSpace()
		if dt.SystemID, err = sc.literal(); err != nil {
			return nil, nil, err
		}
	}
	sc.skipSpace()
	entities := make(map[string]string)
	if sc.more() && sc.peek() == '[' {
		sc.pos++
		if err = sc.subset(dt, entities); err != nil {
			return nil, nil, err
		}
	}
	sc.skipSpace()
	if sc.more() {
		return nil, nil, fmt.Errorf("unexpected %q in document type declaration", sc.s[sc.pos:])
	}
	T().Debugf("doctype %s: %d declarations, %d entities", dt.Name, len(dt.children), len(entities))
	return dt, entities, nil
}

type dtdScanner struct {
	s   string
	pos int
}

func (sc *dtdScanner) more() bool { return sc.pos < len(sc.s) }
func (sc *dtdScanner) peek() byte { return sc.s[sc.pos] }

func (sc *dtdScanner) skipSpace() {
	for sc.more() && isXMLSpace(sc.peek()) {
		sc.pos++
	}
}

func (sc *dtdScanner) name() string {
	start := sc.pos
	for sc.more() {
		c := sc.peek()
		if isXMLSpace(c) || c == '[' || c == '>' || c == '"' || c == '\'' {
			break
		}
		sc.pos++
	}
	return sc.s[start:sc.pos]
}

func (sc *dtdScanner) keyword(kw string) bool {
	if strings.HasPrefix(sc.s[sc.pos:], kw) {
		sc.pos += len(kw)
		return true
	}
	return false
}

func (sc *dtdScanner) literal() (string, error) {
	if !sc.more() || (sc.peek() != '"' && sc.peek() != '\'') {
		return "", fmt.Errorf("expected quoted literal in document type declaration")
	}
	q := sc.peek()
	end := strings.IndexByte(sc.s[sc.pos+1:], q)
	if end < 0 {
		return "", fmt.Errorf("unterminated literal in document type declaration")
	}
	lit := sc.s[sc.pos+1 : sc.pos+1+end]
	sc.pos += end + 2
	return lit, nil
}

// until consumes input up to and including delim and returns the text before it.
func (sc *dtdScanner) until(delim string) (string, error) {
	i := strings.Index(sc.s[sc.pos:], delim)
	if i < 0 {
		return "", fmt.Errorf("missing %q in internal subset", delim)
	}
	text := sc.s[sc.pos : sc.pos+i]
	sc.pos += i + len(delim)
	return text, nil
}

// markup consumes a markup declaration "<!...>", honouring quoted literals.
func (sc *dtdScanner) markup() (string, error) {
	start := sc.pos
	var quote byte
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		sc.pos++
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return sc.s[start:sc.pos], nil
		}
	}
	return "", fmt.Errorf("unterminated markup declaration in internal subset")
}

// subset reads the internal subset up to the closing bracket.
func (sc *dtdScanner) subset(dt *DocType, entities map[string]string) error {
	for {
		sc.skipSpace()
		if !sc.more() {
			return fmt.Errorf("unterminated internal subset")
		}
		rest := sc.s[sc.pos:]
		switch {
		case rest[0] == ']':
			sc.pos++
			return nil
		case strings.HasPrefix(rest, "<!--"):
			sc.pos += 4
			text, err := sc.until("-->")
			if err != nil {
				return err
			}
			AppendChild(dt, NewComment(text))
		case strings.HasPrefix(rest, "<?"):
			sc.pos += 2
			text, err := sc.until("?>")
			if err != nil {
				return err
			}
			target, inst := splitProcInst(text)
			AppendChild(dt, NewProcInst(target, inst))
		case strings.HasPrefix(rest, "<!"):
			text, err := sc.markup()
			if err != nil {
				return err
			}
			decl := NewDecl(text)
			if decl.Keyword == "ENTITY" {
				declareEntity(decl.Raw, entities)
			}
			AppendChild(dt, decl)
		case rest[0] == '%':
			text, err := sc.until(";")
			if err != nil {
				return err
			}
			AppendChild(dt, &Decl{Raw: text + ";"})
		default:
			return fmt.Errorf("unexpected %.10q in internal subset", rest)
		}
	}
}

// declareEntity records a general entity declaration. Parameter entities are
// not visible in content and are skipped.
func declareEntity(raw string, entities map[string]string) {
	sc := &dtdScanner{s: strings.TrimSuffix(strings.TrimPrefix(raw, "<!ENTITY"), ">")}
	sc.skipSpace()
	if sc.more() && sc.peek() == '%' {
		return
	}
	name := sc.name()
	if name == "" {
		return
	}
	sc.skipSpace()
	value, err := sc.literal()
	if err != nil { // external entity
		value = ""
	}
	entities[name] = value
}

// collapseDecl normalizes white space outside of quoted literals.
func collapseDecl(raw string) string {
	var b strings.Builder
	var quote byte
	space := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if quote == 0 && isXMLSpace(c) {
			space = true
			continue
		}
		if space {
			if c != '>' && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
		}
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		}
		b.WriteByte(c)
	}
	return b.String()
}

func splitProcInst(text string) (target, inst string) {
	text = strings.TrimLeft(text, " \t\r\n")
	i := strings.IndexAny(text, " \t\r\n")
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}

func isXMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
