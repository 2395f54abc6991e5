package dentin

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func noColors() *Options {
	return DefaultOptions()
}

func dent(t *testing.T, src string, opts *Options) string {
	t.Helper()
	out, err := Dent(src, opts)
	if err != nil {
		t.Fatalf("dent failed: %v", err)
	}
	return out
}

func expect(t *testing.T, have, want string) {
	t.Helper()
	if have != want {
		t.Errorf("unexpected output\nhave:\n%s\nwant:\n%s", have, want)
	}
}

func TestDent(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	out := dent(t, `<foo xmlns:foo="urn:foo" y="n&apos;&amp;>"><foo:bar foo:x="y"/></foo>`, nil)
	expect(t, out, `<?xml version='1.0'?>
<foo y='n&apos;&amp;&gt;' xmlns:foo='urn:foo'>
  <foo:bar foo:x='y'/>
</foo>
`)
	out = dent(t, `<foo b="2" a="1"/>`, nil)
	expect(t, out, "<?xml version='1.0'?>\n<foo a='1' b='2'/>\n")
}

func TestDefaultOptions(t *testing.T) {
	d := New(nil)
	opts := d.Options()
	if opts.Margin != 78 || opts.Spaces != 2 || opts.PeriodSpaces != 2 {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.HTML || opts.DoubleQuote || opts.FewerQuotes || opts.NoVersion || opts.Colors {
		t.Errorf("expected all flags off by default, have %+v", opts)
	}
	if d.quote != "'" {
		t.Errorf("expected single quote by default")
	}
}

func TestSorting(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	out := dent(t, `<foo
    b='bb'
    xmlns:c='urn:c'
    xmlns:b='urn:b'
    xmlns:d='urn:d'
    c:d='cd'
    c:c='cc'
    c:e='ce'
    a='aa'
    c='cc'
    b:b='bbb'/>`, nil)
	expect(t, out, `<?xml version='1.0'?>
<foo a='aa'
     b='bb'
     c='cc'
     b:b='bbb'
     c:c='cc'
     c:d='cd'
     c:e='ce'
     xmlns:b='urn:b'
     xmlns:c='urn:c'
     xmlns:d='urn:d'/>
`)
	opts := noColors()
	opts.NoVersion = true
	opts.DoubleQuote = true
	out = dent(t, `<foo
    xmlns:c='urn:c'
    xmlns='urn:a'
    xmlns:b='urn:b'
    b='bb'
    a='aa'/>`, opts)
	expect(t, out, `<foo a="aa" b="bb" xmlns="urn:a" xmlns:b="urn:b" xmlns:c="urn:c"/>`+"\n")
}

func TestHTML(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.HTML = true
	opts.FewerQuotes = true
	opts.NoVersion = true
	out := dent(t, `<INPUT DISABLED=TRUE type="text"
  placeholder="foo=bar"></input>`, opts)
	expect(t, out, `<html>
  <body>
    <input disabled placeholder='foo=bar' type=text>
  </body>
</html>
`)
}

func TestHTMLRawText(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.HTML = true
	out := dent(t, `<!DOCTYPE html><script>if (a < b) { x(); }</script>`, opts)
	expect(t, out, `<!DOCTYPE html>
<html>
  <head>
    <script>if (a < b) { x(); }</script>
  </head>
  <body></body>
</html>
`)
	opts.NoVersion = true
	out = dent(t, `<!DOCTYPE html><p>x</p>`, opts)
	if strings.Contains(out, "DOCTYPE") {
		t.Errorf("expected doctype to be suppressed, have\n%s", out)
	}
}

func TestSmallSpaces(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.Spaces = 0
	opts.NoVersion = true
	expect(t, dent(t, "<foo><bar/></foo>", opts), "<foo>\n<bar/>\n</foo>\n")

	opts.Spaces = -1
	opts.Margin = 15
	out := dent(t, "<foo>\n    <bar>aaaaa \nbbbbb\n    ccccc    ddddd\n\teeeee fffff</bar>\n</foo>\n", opts)
	expect(t, out, "<foo><bar>aaaaa bbbbb ccccc ddddd eeeee fffff</bar></foo>")
}

func TestWrapAtMargin(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.NoVersion = true
	opts.Margin = 15
	out := dent(t, "<foo>aaaa bbbb cccc dddd eeee ffff</foo>", opts)
	expect(t, out, "<foo>\n  aaaa bbbb\n  cccc dddd\n  eeee ffff\n</foo>\n")
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 15 {
			t.Errorf("line exceeds margin: %q", line)
		}
	}
}

func TestPeriodSpaces(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.NoVersion = true
	opts.Margin = 20
	out := dent(t, "<p>One two. Three four five six seven eight.</p>", opts)
	expect(t, out, "<p>\n  One two.  Three\n  four five six\n  seven eight.\n</p>\n")
	opts.PeriodSpaces = 1
	out = dent(t, "<p>One two. Three four five six seven eight.</p>", opts)
	expect(t, out, "<p>\n  One two. Three\n  four five six\n  seven eight.\n</p>\n")
}

func TestMixedContent(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.NoVersion = true
	expect(t, dent(t, "<p>Some <b>bold</b> text.</p>", opts), "<p>Some <b>bold</b> text.</p>\n")
	opts.Margin = 20
	expect(t, dent(t, "<p>Some <b>bold</b> text here.</p>", opts),
		"<p>\n  Some <b>bold</b>\n  text here.\n</p>\n")
}

func TestIgnore(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.NoVersion = true
	opts.Ignore = []string{"pre"}
	out := dent(t, "<doc><pre>  a   b &lt; c  </pre></doc>", opts)
	expect(t, out, "<doc>\n  <pre>  a   b &lt; c  </pre>\n</doc>\n")
}

func TestEntities(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	out := dent(t, `<!DOCTYPE foo [<!ENTITY js "EcmaScript">]><foo>&js; rocks &amp; rolls</foo>`, nil)
	expect(t, out, `<?xml version='1.0'?>
<!DOCTYPE foo [
  <!ENTITY js 'EcmaScript'>
]>
<foo>&js; rocks &amp; rolls</foo>
`)
}

func TestNonBreakingSpace(t *testing.T) {
	opts := noColors()
	opts.NoVersion = true
	expect(t, dent(t, "<a>x\u00a0y</a>", opts), "<a>x&#160;y</a>\n")
	opts.HTML = true
	out := dent(t, "<p>x\u00a0y</p>", opts)
	if !strings.Contains(out, "<p>x&nbsp;y</p>") {
		t.Errorf("expected &nbsp; in HTML output, have\n%s", out)
	}
}

func TestProcessingInstructions(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.NoVersion = true
	out := dent(t, "<?boo?><foo><?huh hah?></foo><?yep?>", opts)
	expect(t, out, "<?boo?>\n<foo>\n  <?huh hah?>\n</foo>\n<?yep?>\n")
	out = dent(t, "<!-- cmt --><foo/>", opts)
	expect(t, out, "<!-- cmt -->\n<foo/>\n")
}

func TestDocType(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	out := dent(t, `<?xml version="1.0" standalone="yes"?>
<!DOCTYPE test PUBLIC
  'stuff'
  'things'>
<test/>`, nil)
	expect(t, out, `<?xml version='1.0'?>
<!DOCTYPE test PUBLIC 'stuff' 'things'>
<test/>
`)
}

func TestErrors(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	//
	doc := dom.NewDocument("")
	html := dom.AppendChild(doc, dom.NewElement("html"))
	body := dom.AppendChild(html, dom.NewElement("body"))
	br := dom.AppendChild(body, dom.NewElement("br"))
	dom.AppendChild(br, dom.NewElement("p"))
	opts := noColors()
	opts.HTML = true
	opts.NoVersion = true
	_, err := Dent(doc, opts)
	var voidErr *VoidElementHasChildrenError
	if !errors.As(err, &voidErr) || voidErr.Name != "br" {
		t.Errorf("expected void element error for <br>, have %v", err)
	}
	_, err = Dent(true, nil)
	var inputErr *InputTypeError
	if !errors.As(err, &inputErr) {
		t.Errorf("expected input type error, have %v", err)
	}
	if _, err = Dent("<foo>", nil); err == nil {
		t.Errorf("expected parse error for unclosed element")
	}
	if _, err = New(nil).PrintNode(nil); err != ErrNilNode {
		t.Errorf("expected ErrNilNode, have %v", err)
	}
	if _, err = DentFile("testdata/does-not-exist.xml", nil); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestIdempotence(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	//
	src := `<?xml version="1.0"?>
<!DOCTYPE book [
  <!ENTITY   author   "Someone">
]>
<book lang="en"     xmlns:x="urn:x">
  <!-- a  comment -->
  <title>A   story</title>
  <para x:id="p1">It was a dark and stormy night. The rain fell in torrents, except at
  occasional intervals, when it was checked by a violent gust of wind which swept
  up the streets (for it is in <em>London</em> that our scene lies), rattling along
  the house-tops, and fiercely agitating the scanty flame of the lamps that
  struggled against the darkness. &author;</para>
  <code><![CDATA[a < b]]></code>
  <?render fast?>
</book>`
	for _, spaces := range []int{0, 2, 4} {
		opts := noColors()
		opts.Spaces = spaces
		first := dent(t, src, opts)
		second := dent(t, first, opts)
		expect(t, second, first)
	}
}

func TestMixedBreaks(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.NoVersion = true
	opts.Margin = 30
	c := "<c attr='" + strings.Repeat("b", 41) + "'/>"
	for _, x := range []struct {
		src, out string
	}{
		{ // a line break drops the space before it
			`<p>aaaa <c attr="` + strings.Repeat("b", 41) + `"/></p>`,
			"<p>\n  aaaa\n  " + c + "\n</p>\n",
		},
		{ // text after a break starts at the indent
			`<p>aaaa<c attr="` + strings.Repeat("b", 41) + `"/>tail</p>`,
			"<p>\n  aaaa\n  " + c + "\n  tail\n</p>\n",
		},
	} {
		first := dent(t, x.src, opts)
		expect(t, first, x.out)
		expect(t, dent(t, first, opts), first)
	}
}

func TestMixedLayout(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	opts := noColors()
	opts.NoVersion = true
	opts.Margin = 30
	out := dent(t, mixedDocs[0], opts)
	expect(t, out, `<p>
  Some <b>bold</b> text and a
  <em>little</em> emphasis,
  followed by more words than
  fit on one line of the
  output.
</p>
`)
	out = dent(t, mixedDocs[1], opts)
	expect(t, out, `<doc>
  <p>
    Text with <i>italic and
      <b>bold</b> words</i>
    and a
    <a href='http://example.com/x'>
      link
    </a> at the end.
  </p>
</doc>
`)
	opts.Margin = 50
	out = dent(t, mixedDocs[1], opts)
	expect(t, out, `<doc>
  <p>
    Text with <i>italic and <b>bold</b> words</i>
    and a <a href='http://example.com/x'>link</a>
    at the end.
  </p>
</doc>
`)
}

var mixedDocs = []string{
	`<p>Some <b>bold</b> text and a <em>little</em> emphasis, followed by more words than fit on one line of the output.</p>`,
	`<doc><p>Text with <i>italic and <b>bold</b> words</i> and a <a href="http://example.com/x">link</a> at the end.</p></doc>`,
	`<p>aaaa <c attr="bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"/></p>`,
}

// Re-formatting output changes nothing, lines stay within the margin unless
// they hold a single token, and the text of the document is preserved.
func TestMixedLayoutProperties(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	//
	for _, margin := range []int{30, 50, 78} {
		opts := noColors()
		opts.NoVersion = true
		opts.Margin = margin
		for i, src := range mixedDocs {
			first := dent(t, src, opts)
			if second := dent(t, first, opts); second != first {
				t.Errorf("document %d at margin %d: output changes when formatted again\nfirst:\n%s\nsecond:\n%s",
					i, margin, first, second)
			}
			for _, line := range strings.Split(first, "\n") {
				if width(line) <= margin {
					continue
				}
				if strings.Contains(tags.ReplaceAllString(strings.TrimSpace(line), ""), " ") {
					t.Errorf("document %d at margin %d: line exceeds margin: %q", i, margin, line)
				}
			}
			if charData(t, first) != charData(t, src) {
				t.Errorf("document %d at margin %d: text changed\nhave: %q\nwant: %q",
					i, margin, charData(t, first), charData(t, src))
			}
		}
	}
}

var tags = regexp.MustCompile(`<[^>]*>`)

// charData returns the character data of an XML document with white space
// collapsed.
func charData(t *testing.T, doc string) string {
	t.Helper()
	var text strings.Builder
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("cannot read %q: %v", doc, err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			text.Write(cd)
		}
	}
	return strings.Join(strings.Fields(text.String()), " ")
}

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestColorsDoNotChangeLayout(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	//
	src := `<foo a="1" b="a very long attribute value to force wrapping"
	c="another long attribute value"><bar>Some text, long enough to be wrapped at the
	margin, which is not very wide here.</bar></foo>`
	opts := noColors()
	opts.Margin = 40
	plain := dent(t, src, opts)
	opts.Colors = true
	colored := dent(t, src, opts)
	if colored == plain {
		t.Fatalf("expected escape codes in colored output")
	}
	expect(t, ansi.ReplaceAllString(colored, ""), plain)
}

func TestDentFile(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	out, err := DentFile("testdata/page.html", nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(out, "<?xml") || !strings.Contains(out, "<br>") {
		t.Errorf("expected file to be formatted as HTML, have\n%s", out)
	}
	if !IsHTMLFile("x.HTM") || IsHTMLFile("x.xml") {
		t.Errorf("HTML file detection is broken")
	}
}
