package dentin

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func parse(t *testing.T, src string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseXML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("cannot parse test document: %v", err)
	}
	return doc
}

func wrap(t *testing.T, d *Dentin, n dom.Node) Wrapper {
	t.Helper()
	w, err := d.Wrap(n, nil)
	if err != nil {
		t.Fatalf("cannot wrap %s: %v", n.Kind(), err)
	}
	return w
}

func render(w Wrapper, d *Dentin) string {
	return w.Print(0, d.NewState()).String()
}

func doubleQuoted() *Dentin {
	opts := DefaultOptions()
	opts.DoubleQuote = true
	return New(opts)
}

func TestComment(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	doc := parse(t, "<f><!-- hi  \t  there --></f>")
	comment := doc.Root().Children()[0]
	d := New(nil)
	w := wrap(t, d, comment)
	if f := w.Facts(); !f.Comment || !f.Element || f.Text {
		t.Errorf("unexpected facts for comment: %+v", f)
	}
	expect(t, render(w, d), "<!-- hi there -->\n")
	expect(t, render(wrap(t, d, dom.NewComment("")), d), "<!---->\n")
}

func TestLongComment(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := DefaultOptions()
	opts.Margin = 20
	d := New(opts)
	w := wrap(t, d, dom.NewComment("one two three four five"))
	expect(t, render(w, d), "<!--\n  one two three four\n  five\n-->\n")
}

func TestDecl(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	doc := parse(t, `<?xml version="1.0"?>
<!DOCTYPE foo [
  <!ENTITY js "EcmaScript">
]>
<foo>&js;</foo>`)
	d := New(nil)
	dw := wrap(t, d, doc)
	dtd := dw.Children()[0]
	if !dtd.Facts().DTD {
		t.Fatalf("expected first child of document to be the DOCTYPE")
	}
	decl := dtd.Children()[0]
	if decl.Facts().Name != "ENTITY" {
		t.Errorf("expected ENTITY declaration, have %q", decl.Facts().Name)
	}
	expect(t, render(wrap(t, d, decl.Node()), d), "<!ENTITY js 'EcmaScript'>\n")
	//
	for raw, want := range map[string]string{
		`<!ENTITY % pe "x">`:                `<!ENTITY % pe 'x'>`,
		`<!ENTITY q "it's">`:                `<!ENTITY q "it's">`,
		`<!ATTLIST foo bar CDATA #IMPLIED>`: `<!ATTLIST foo bar CDATA #IMPLIED>`,
		`%pe;`:                              `%pe;`,
	} {
		expect(t, render(wrap(t, d, dom.NewDecl(raw)), d), want+"\n")
	}
}

func TestAttribute(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	d := New(nil)
	w, err := d.WrapAttr(&dom.Attr{Local: "a", Value: "b"})
	if err != nil {
		t.Fatal(err)
	}
	expect(t, render(w, d), " a='b'")
	w, _ = d.WrapAttr(&dom.Attr{Prefix: "x", Local: "a", Value: `<"'&>`})
	expect(t, render(w, d), " x:a='&lt;&quot;&apos;&amp;&gt;'")
	//
	opts := DefaultOptions()
	opts.HTML = true
	h := New(opts)
	w, _ = h.WrapAttr(&dom.Attr{Local: "CHECKED", Value: "checked"})
	expect(t, render(w, h), " checked")
	w, _ = h.WrapAttr(&dom.Attr{Local: "alt", Value: ""})
	expect(t, render(w, h), " alt")
	w, _ = h.WrapAttr(&dom.Attr{Local: "type", Value: "text"})
	expect(t, render(w, h), " type='text'")
	opts.FewerQuotes = true
	h = New(opts)
	w, _ = h.WrapAttr(&dom.Attr{Local: "type", Value: "text"})
	expect(t, render(w, h), " type=text")
	w, _ = h.WrapAttr(&dom.Attr{Local: "title", Value: "two words"})
	expect(t, render(w, h), " title='two words'")
}

func TestNamespace(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	doc := parse(t, `<f xmlns:b="urn:bar" xmlns="urn:foo"/>`)
	d := doubleQuoted()
	w := wrap(t, d, doc.Root()).(*elementWrapper)
	expected := []string{` xmlns="urn:foo"`, ` xmlns:b="urn:bar"`}
	nss := w.attrs[w.attributes:]
	if len(nss) != len(expected) {
		t.Fatalf("expected %d namespaces, have %d", len(expected), len(nss))
	}
	for i, ns := range nss {
		expect(t, render(ns, d), expected[i])
	}
}

func TestCompareAttrs(t *testing.T) {
	d := New(nil)
	attrs := []*dom.Attr{
		{Prefix: "c", Local: "d"}, {Local: "b"}, {Prefix: "b", Local: "b"},
		{Local: "a"}, {Prefix: "c", Local: "c"}, {Local: "B"},
	}
	sorted := d.sortedAttrs(attrs)
	var names []string
	for _, a := range sorted {
		names = append(names, a.Name())
	}
	if strings.Join(names, " ") != "a b B b:b c:c c:d" {
		t.Errorf("unexpected attribute order %v", names)
	}
	again := d.sortedAttrs(sorted)
	for i := range again {
		if again[i] != sorted[i] {
			t.Errorf("sorting is not stable at position %d", i)
		}
	}
}

func TestDTD(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	d := doubleQuoted()
	doc := parse(t, `<!DOCTYPE html PUBLIC
  '-//W3C//DTD HTML 4.0 Transitional//EN'
  'http://www.w3.org/TR/REC-html40/loose.dtd'>
<html></html>`)
	expect(t, render(wrap(t, d, doc.DocType()), d), `<!DOCTYPE html PUBLIC
  "-//W3C//DTD HTML 4.0 Transitional//EN"
  "http://www.w3.org/TR/REC-html40/loose.dtd">
`)
	doc = parse(t, `<!DOCTYPE foo [
    <!ENTITY js 'EcmaScript'>
    <?not "much" 'here'?>
    ]><f/>`)
	expect(t, render(wrap(t, d, doc.DocType()), d), `<!DOCTYPE foo [
  <!ENTITY js "EcmaScript">
  <?not "much" "here"?>
]>
`)
	doc = parse(t, `<!DOCTYPE foo
    SYSTEM 'http://www.w3.org/TR/REC-html40/loose.dtd'><f/>`)
	expect(t, render(wrap(t, d, doc.DocType()), d),
		"<!DOCTYPE foo SYSTEM \"http://www.w3.org/TR/REC-html40/loose.dtd\">\n")
}

func TestElement(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	doc := parse(t, `<foo><b/><c>
  <d b:foo='bahbaaaaaaaahhhhhloooooooohaaaaaaahaaaa'
     xmlns='urn:d' xmlns:b='urn:b'/>
</c></foo>`)
	d := doubleQuoted()
	expect(t, render(wrap(t, d, doc.Root()), d), `<foo>
  <b/>
  <c>
    <d b:foo="bahbaaaaaaaahhhhhloooooooohaaaaaaahaaaa"
       xmlns="urn:d"
       xmlns:b="urn:b"/>
  </c>
</foo>
`)
}

func TestClassification(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	d := New(nil)
	for src, want := range map[string]Facts{
		"<a/>":                     {Name: "a", Element: true},
		"<a> </a>":                 {Name: "a", Element: true},
		"<a>x</a>":                 {Name: "a", Element: true, Nonempty: true},
		"<a><b/> </a>":             {Name: "a", Element: true, Elements: true},
		"<a><!--x--></a>":          {Name: "a", Element: true, Elements: true},
		"<a>x<b/></a>":             {Name: "a", Element: true, Elements: true, Nonempty: true, Mixed: true},
		"<a><?p?><![CDATA[]]></a>": {Name: "a", Element: true, Elements: true, Nonempty: true, Mixed: true},
	} {
		f := wrap(t, d, parse(t, src).Root()).Facts()
		if f != want {
			t.Errorf("%s: expected %+v, have %+v", src, want, f)
		}
	}
}

func TestText(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	doc := parse(t, `<foo>
  <d>bahbaaaaaaaahhhhhloooooooohaaaaaaahaaaa</d>
</foo>`)
	d := doubleQuoted()
	text := doc.Root().Children()[1].Children()[0]
	expect(t, render(wrap(t, d, text), d), "bahbaaaaaaaahhhhhloooooooohaaaaaaahaaaa")
	ws := wrap(t, d, doc.Root().Children()[0])
	if ws.Facts().Nonempty {
		t.Errorf("white space should not count as content")
	}
	expect(t, render(ws, d), "")
}

func TestCDATA(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	doc := parse(t, `<foo>
  <![CDATA[ bahbaaaaaaaahhhhhloooooooohaaaaaaahaaaa ]]>
</foo>`)
	d := doubleQuoted()
	w := wrap(t, d, doc.Root().Children()[1])
	expect(t, render(w, d), "<![CDATA[ bahbaaaaaaaahhhhhloooooooohaaaaaaahaaaa ]]>")
}

func TestEntityRef(t *testing.T) {
	d := New(nil)
	expect(t, render(wrap(t, d, dom.NewEntityRef("js")), d), "&js;")
}

func TestProcessingInstruction(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	d := New(nil)
	root := wrap(t, d, parse(t, "<foo><baz/><?bar?> boo</foo>").Root())
	pi := root.Children()[1]
	if !pi.Parent().Facts().Mixed {
		t.Errorf("expected parent of PI to be mixed")
	}
	expect(t, render(pi, d), "\n<?bar?>\n")
	root = wrap(t, d, parse(t, "<foo>   <?bar?> boo</foo>").Root())
	pi = root.Children()[1]
	if !pi.Parent().Facts().Mixed {
		t.Errorf("expected parent of PI to be mixed")
	}
	expect(t, render(pi, d), "<?bar?>\n")
	//
	w := wrap(t, d, dom.NewProcInst("style", `href="a.css" type='text/css'`))
	expect(t, render(w, d), "<?style href='a.css' type='text/css'?>\n")
}

type foreignNode struct {
	*dom.Comment
}

func TestUnknownNodeKind(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	//
	d := New(nil)
	_, err := d.Wrap(foreignNode{dom.NewComment("x")}, nil)
	var kindErr *UnknownNodeKindError
	if !errors.As(err, &kindErr) {
		t.Errorf("expected unknown node kind error, have %v", err)
	}
	e := dom.NewElement("e")
	dom.AppendChild(e, foreignNode{dom.NewComment("x")})
	if _, err = d.PrintNode(e); !errors.As(err, &kindErr) {
		t.Errorf("expected unknown node kind error from nested node, have %v", err)
	}
}
