package theme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Category is a semantic class of output tokens.
type Category int8

// Categories of output tokens.
const (
	Punctuation    Category = iota // < > = quotes and the like
	Element                        // element names, keywords
	Attribute                      // attribute names
	AttributeValue                 // attribute values and literals
	Text                           // running text
)

var categoryNames = [...]string{"PUNCTUATION", "ELEMENT", "ATTRIBUTE", "ATTRIBUTE_VALUE", "TEXT"}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("CATEGORY(%d)", int(c))
}

// Categories lists all categories.
func Categories() []Category {
	return []Category{Punctuation, Element, Attribute, AttributeValue, Text}
}

// CategoryFromString returns the category for a configuration key, e.g.
// "ATTRIBUTE_VALUE". Keys are case-insensitive.
func CategoryFromString(s string) (Category, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), true
		}
	}
	return 0, false
}

// Theme maps categories to colors. Categories without a color are printed
// as they are.
type Theme map[Category]*color.Color

// Default returns the built-in palette. Every call returns a fresh map.
func Default() Theme {
	return Theme{
		Punctuation:    color.New(color.FgHiBlack),
		Element:        color.New(color.FgBlue, color.Bold),
		Attribute:      color.New(color.FgMagenta),
		AttributeValue: color.New(color.FgGreen),
	}
}

// Colorizer decorates a token of a given category.
type Colorizer func(Category, string) string

// Plain is the Colorizer which leaves tokens undecorated.
func Plain(_ Category, s string) string {
	return s
}

// Colorizer returns a decorating function for theme t. With force set, escape
// codes are produced even if stdout is not a terminal; otherwise fatih/color's
// own detection decides.
func (t Theme) Colorizer(force bool) Colorizer {
	if len(t) == 0 {
		return Plain
	}
	palette := make(map[Category]*color.Color, len(t))
	for cat, c := range t {
		if c == nil {
			continue
		}
		if force {
			forced := *c // t stays as it is
			forced.EnableColor()
			c = &forced
		}
		palette[cat] = c
	}
	return func(cat Category, s string) string {
		if s == "" {
			return s
		}
		if c, ok := palette[cat]; ok {
			return c.Sprint(s)
		}
		return s
	}
}

// --- Parsing themes from configuration -------------------------------------

var attributes = map[string]color.Attribute{
	"reset":      color.Reset,
	"bold":       color.Bold,
	"faint":      color.Faint,
	"italic":     color.Italic,
	"underline":  color.Underline,
	"blink":      color.BlinkSlow,
	"reverse":    color.ReverseVideo,
	"concealed":  color.Concealed,
	"crossedout": color.CrossedOut,
}

func init() {
	names := []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}
	for i, name := range names {
		attributes[name] = color.FgBlack + color.Attribute(i)
		attributes["hi"+name] = color.FgHiBlack + color.Attribute(i)
		attributes["bg"+name] = color.BgBlack + color.Attribute(i)
		attributes["bghi"+name] = color.BgHiBlack + color.Attribute(i)
	}
	attributes["gray"] = color.FgHiBlack
	attributes["grey"] = color.FgHiBlack
}

// Parse creates a theme from a configuration map. Keys are category names,
// values are lists of color attributes, e.g.
//
//     ELEMENT: "hiblue bold"
//     TEXT:    ""
//
// An empty value leaves the category uncolored. Categories missing from the
// map keep their default color.
func Parse(conf map[string]string) (Theme, error) {
	t := Default()
	keys := make([]string, 0, len(conf))
	for k := range conf {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cat, ok := CategoryFromString(key)
		if !ok {
			return nil, fmt.Errorf("theme: unknown category %q", key)
		}
		attrs, err := parseAttributes(conf[key])
		if err != nil {
			return nil, fmt.Errorf("theme: category %s: %w", cat, err)
		}
		if len(attrs) == 0 {
			delete(t, cat)
			continue
		}
		t[cat] = color.New(attrs...)
	}
	return t, nil
}

func parseAttributes(s string) ([]color.Attribute, error) {
	var attrs []color.Attribute
	for _, name := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '+'
	}) {
		a, ok := attributes[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown color attribute %q", name)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}
