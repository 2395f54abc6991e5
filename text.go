package dentin

import (
	"regexp"
	"strings"

	"github.com/npillmayer/dentin/dom"
	"github.com/npillmayer/dentin/theme"
)

// textWrapper prints character data, collapsing white space and wrapping
// lines at the margin.
type textWrapper struct {
	base
	data string
}

func (w *textWrapper) Print(indent int, st *State) *State {
	return w.printText(indent, st, false)
}

// commentWrapper prints a comment. The comment text is formatted like
// running text, between the comment delimiters.
type commentWrapper struct {
	textWrapper
}

func (w *commentWrapper) Print(indent int, st *State) *State {
	parentMixed := w.parentMixed()
	if !parentMixed {
		st.indent(indent)
	}
	st.color(theme.Punctuation, "<!--")
	w.printText(indent+1, st, true)
	st.color(theme.Punctuation, "-->")
	if !parentMixed {
		st.newline()
	}
	return st
}

// printText is shared by text and comment nodes.
func (w *textWrapper) printText(indent int, st *State, comment bool) *State {
	if !w.facts.Nonempty {
		return st
	}
	t := w.data
	if w.parent != nil {
		switch w.d.verbatim(w.parent.Facts().Name) {
		case rawText:
			return st.color(theme.Text, t)
		case escapedText:
			if !comment {
				t = w.d.escapeText(t)
			}
			return st.color(theme.Text, t)
		}
	}
	if !comment {
		t = w.d.escapeText(t)
	}
	parentMixed := w.parentMixed()
	t = collapseSpace(t)
	// Within a parent, white space next to a sibling separates the text
	// from it: <b>bold</b> text, &ref; text
	if w.parent != nil && !comment {
		if w.node.PrevSibling() == nil || (parentMixed && st.fresh) {
			t = strings.TrimLeftFunc(t, dom.IsSpace)
		}
		if w.node.NextSibling() == nil {
			t = strings.TrimRightFunc(t, dom.IsSpace)
		}
	} else {
		t = strings.TrimFunc(t, dom.IsSpace)
	}
	body := strings.TrimRight(t, " ")
	trail := t[len(body):] // written apart, so that a line break may drop it

	margin := w.d.opts.Margin
	left, right := st.right, 0
	if w.parent != nil {
		right = width(w.parent.Facts().Name) + 3 // </name>
	}
	if comment { // <!-- and -->, with spaces
		left += 5
		right += 4
	}
	if st.Strict() || margin <= 0 || left+width(t)+right <= margin {
		if comment {
			return st.out(" ").color(theme.Text, t).out(" ")
		}
		return st.color(theme.Text, body).out(trail)
	}
	if !parentMixed {
		st.newline()
		st.indent(indent)
	}
	tail := 0
	if !comment && parentMixed && w.node.NextSibling() == nil && baseOf(w.parent).parentMixed() {
		tail = right // the end tag of the parent follows on the same line
	}
	wrapped, end := w.d.wrapWords(body, st, indent, tail)
	st.color(theme.Text, wrapped)
	st.right = end
	st.out(trail)
	if !parentMixed {
		st.newline()
		st.indent(indent - 1)
	}
	return st
}

var (
	wordChunk   = regexp.MustCompile(`\S+\s+`)
	sentenceEnd = regexp.MustCompile(`^[^.]+\. $`)
)

// splitChunks splits text into words, each with its trailing white space.
// Leading white space forms a chunk of its own, as does a final word
// without trailing white space.
func splitChunks(t string) []string {
	chunks := make([]string, 0, 16)
	pos := 0
	for _, loc := range wordChunk.FindAllStringIndex(t, -1) {
		if loc[0] > pos {
			chunks = append(chunks, t[pos:loc[0]])
		}
		chunks = append(chunks, t[loc[0]:loc[1]])
		pos = loc[1]
	}
	if pos < len(t) {
		chunks = append(chunks, t[pos:])
	}
	return chunks
}

// wrapWords breaks text into lines of at most margin cells, first fit.
// The first line continues at the current column of st; subsequent lines are
// indented. The first word is never moved to a new line unless white space
// precedes it, as a line break would not make it any shorter. A
// sentence-ending full stop gets extra spaces. Line breaks are counted in st,
// but the text is not written to it.
//
// tail is the width of what has to follow the last word on its line.
//
// wrapWords returns the wrapped text and the column after its last word.
func (d *Dentin) wrapWords(t string, st *State, indent, tail int) (string, int) {
	margin := d.opts.Margin
	var out strings.Builder
	end := st.right
	gap, started := "", false
	chunks := splitChunks(t)
	for i, chunk := range chunks {
		if d.opts.PeriodSpaces > 1 && sentenceEnd.MatchString(chunk) {
			chunk += strings.Repeat(" ", d.opts.PeriodSpaces-1)
		}
		word := strings.TrimRightFunc(chunk, dom.IsSpace)
		if word == "" {
			gap, started = gap+chunk, true
			continue
		}
		w := width(word)
		if i == len(chunks)-1 {
			w += tail
		}
		if started && end+width(gap)+w > margin {
			if !st.hasFirst {
				st.firstLine, st.hasFirst = end, true
			}
			ind := st.indentString(indent)
			out.WriteByte('\n')
			out.WriteString(ind)
			st.lines++
			end, gap = len(ind), ""
		}
		out.WriteString(gap)
		out.WriteString(word)
		end += width(gap) + width(word)
		gap, started = chunk[len(word):], true
	}
	return out.String(), end
}

// collapseSpace replaces every run of white space by a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if dom.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
