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
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/dentin/theme"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

// State accumulates printer output and measures it.
//
// Layout decisions are taken by printing into a fresh State, measuring the
// result and then either appending it to the real State or dropping it.
// States are therefore cheap and disposable.
//
// A State is either anchored or floating. An anchored State knows the column
// its output starts at. A floating State holds a fragment (an attribute, a
// quoted identifier) whose position is not yet known; appending it to another
// State advances that State's column by the fragment's width.
type State struct {
	d         *Dentin
	buf       bytes.Buffer
	total     int  // cells emitted
	right     int  // cells since the last newline
	floating  bool // right is unknown
	lines     int  // newlines emitted
	firstLine int  // width of the first line, valid if hasFirst
	hasFirst  bool
	spaces    int  // indent width; negative suppresses newlines
	blank     int  // trailing spaces in buf, dropped at a newline
	fresh     bool // nothing but indentation since the last newline
}

// NewState creates an empty, anchored State at column 0, using the indent
// width of the printer's options.
func (d *Dentin) NewState() *State {
	return d.stateAt(d.opts.Spaces, 0)
}

func (d *Dentin) stateAt(spaces, right int) *State {
	return &State{d: d, spaces: spaces, right: right}
}

func (d *Dentin) floatingState() *State {
	return &State{d: d, spaces: d.opts.Spaces, floating: true}
}

// trial creates an empty State continuing at the position of st. Output
// printed into it may later be appended to st, or dropped.
func (st *State) trial() *State {
	return &State{d: st.d, spaces: st.spaces, right: st.right, fresh: st.fresh}
}

// Strict is true if st suppresses newlines and indentation.
func (st *State) Strict() bool {
	return st.spaces < 0
}

// String returns the output collected so far.
func (st *State) String() string {
	return st.buf.String()
}

// Right is the current column.
func (st *State) Right() int {
	return st.right
}

// Total is the number of cells emitted.
func (st *State) Total() int {
	return st.total
}

// Lines is the number of line breaks emitted.
func (st *State) Lines() int {
	return st.lines
}

// FirstLine returns the width of the first line emitted into st. The second
// return value is false as long as no newline has been emitted.
func (st *State) FirstLine() (int, bool) {
	return st.firstLine, st.hasFirst
}

// out writes a plain string.
func (st *State) out(s string) *State {
	return st.outw(s, width(s))
}

// outw writes s, accounting for w cells.
func (st *State) outw(s string, w int) *State {
	if s == "" {
		return st
	}
	st.buf.WriteString(s)
	st.total += w
	if !st.floating {
		st.right += w
	}
	if n := len(s) - len(strings.TrimRight(s, " ")); n == len(s) {
		st.blank += n
	} else {
		st.blank = n
		st.fresh = false
	}
	return st
}

// color writes a token, decorated according to its category. The width is
// taken from the undecorated token.
func (st *State) color(cat theme.Category, s string) *State {
	return st.outw(st.d.colorize(cat, s), width(s))
}

// append writes the content of another State.
func (st *State) append(other *State) *State {
	st.buf.Write(other.buf.Bytes())
	st.total += other.total
	st.lines += other.lines
	if other.floating {
		if !st.floating {
			st.right += other.total
		}
	} else {
		st.right = other.right
		st.floating = false
	}
	if other.blank == other.buf.Len() {
		st.blank += other.blank
	} else {
		st.blank = other.blank
		st.fresh = other.fresh
	}
	if other.hasFirst && !st.hasFirst {
		st.firstLine, st.hasFirst = other.firstLine, true
	}
	return st
}

// newline emits a line break, unless newlines are suppressed. Spaces at the
// end of the current line are dropped.
func (st *State) newline() *State {
	if st.spaces < 0 {
		return st
	}
	if st.blank > 0 {
		st.buf.Truncate(st.buf.Len() - st.blank)
		st.total -= st.blank
		if !st.floating {
			st.right -= st.blank
		}
		st.blank = 0
	}
	if !st.hasFirst {
		st.firstLine = st.right
		st.hasFirst = true
	}
	st.outw("\n", 1)
	st.right = 0
	st.floating = false
	st.fresh = true
	st.lines++
	return st
}

func (st *State) spacesString(n int) *State {
	if n <= 0 {
		return st
	}
	return st.outw(strings.Repeat(" ", n), n)
}

// indent emits the white space for a number of indent levels.
func (st *State) indent(levels int) *State {
	if st.spaces <= 0 {
		return st
	}
	return st.spacesString(st.spaces * levels)
}

func (st *State) indentString(levels int) string {
	if st.spaces <= 0 || levels <= 0 {
		return ""
	}
	return strings.Repeat(" ", st.spaces*levels)
}

// --- Measuring -------------------------------------------------------------

var graphemeSetup sync.Once

// width returns the number of terminal cells s occupies. East Asian wide
// characters count 2, combining sequences count as one grapheme.
func width(s string) int {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return len(s)
	}
	graphemeSetup.Do(grapheme.SetupGraphemeClasses)
	gstr := grapheme.StringFromString(s)
	return uax11.StringWidth(gstr, uax11.LatinContext)
}
