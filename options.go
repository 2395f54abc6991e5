package dentin

import (
	"github.com/npillmayer/dentin/theme"
)

// Options configures a Dentin printer. Options are read-only after a
// printer has been created from them.
type Options struct {
	HTML         bool        `yaml:"html" mapstructure:"html"`                 // HTML rules instead of XML rules
	DoubleQuote  bool        `yaml:"doubleQuote" mapstructure:"doubleQuote"`   // quote attributes with " instead of '
	FewerQuotes  bool        `yaml:"fewerQuotes" mapstructure:"fewerQuotes"`   // HTML only: omit quotes where allowed
	Ignore       []string    `yaml:"ignore" mapstructure:"ignore"`             // elements with verbatim text content
	Margin       int         `yaml:"margin" mapstructure:"margin"`             // right margin; <= 0 disables wrapping
	Spaces       int         `yaml:"spaces" mapstructure:"spaces"`             // indent per level; < 0 is strict mode
	NoVersion    bool        `yaml:"noVersion" mapstructure:"noVersion"`       // suppress the XML prolog
	PeriodSpaces int         `yaml:"periodSpaces" mapstructure:"periodSpaces"` // spaces after a full stop when wrapping
	Colors       bool        `yaml:"colors" mapstructure:"colors"`             // emit color escape codes
	Theme        theme.Theme `yaml:"-" mapstructure:"-"`                       // nil means theme.Default()
}

// DefaultOptions returns the options used when a nil *Options is passed.
func DefaultOptions() *Options {
	return &Options{
		Margin:       78,
		Spaces:       2,
		PeriodSpaces: 2,
	}
}

// Quote returns the quote character for attribute values.
func (o *Options) Quote() string {
	if o.DoubleQuote {
		return `"`
	}
	return `'`
}

func (o *Options) clone() *Options {
	c := *o
	c.Ignore = append([]string(nil), o.Ignore...)
	return &c
}
