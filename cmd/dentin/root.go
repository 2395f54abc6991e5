package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/npillmayer/dentin"
	"github.com/npillmayer/dentin/textfile"
	"github.com/npillmayer/dentin/theme"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

const defaultConfig = "./.dentin.json"

// optionKeys are the flags which may also be set in the configuration file.
var optionKeys = []string{"colors", "doubleQuote", "fewerQuotes", "html", "margin",
	"noVersion", "periodSpaces", "spaces"}

// cli holds the state of one invocation.
type cli struct {
	v           *viper.Viper
	ignore      []string
	output      string
	backup      string
	config      string
	verbose     bool
	printConfig bool
	themeConf   map[string]string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "dentin [flags] [file...]",
		Short: "Re-indent XML and HTML documents",
		Long: `Dentin re-indents XML and HTML documents, wraps running text at a right
margin, sorts attributes and normalizes quoting. Document content is left
untouched. Output to a terminal is colored.`,
		SilenceUsage: true,
		RunE:         c.run,
	}
	flags := cmd.Flags()
	flags.StringArrayVarP(&c.ignore, "ignore", "i", nil, "do not re-format the content of elements with this name (repeatable)")
	flags.StringVarP(&c.output, "output", "o", "", "output file name (default stdout)")
	flags.StringVarP(&c.backup, "backup", "b", "", "format files in place, keeping a backup with this extension")
	flags.StringVarP(&c.config, "config", "c", defaultConfig, "configuration file to read")
	flags.BoolP("colors", "C", false, "colorize output (default: if stdout is a terminal)")
	flags.BoolP("doubleQuote", "d", false, "quote attribute values with \" instead of '")
	flags.BoolP("fewerQuotes", "Q", false, "HTML: omit quotes around attribute values where possible")
	flags.Bool("html", false, "parse and print HTML instead of XML (default: by file extension)")
	flags.IntP("margin", "m", 78, "right margin, 0 for no wrapping")
	flags.BoolP("noVersion", "n", false, "do not print the XML declaration")
	flags.Int("periodSpaces", 2, "spaces after a full stop ending a sentence")
	flags.IntP("spaces", "s", 2, "indent per level, -1 strips insignificant white space")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "trace file processing")
	flags.BoolVar(&c.printConfig, "print-config", false, "print the effective options as YAML and exit")
	cmd.MarkFlagsMutuallyExclusive("output", "backup")
	if err := bindOptions(c.v, flags); err != nil {
		panic(err) // flag names are fixed
	}
	return cmd
}

// bindOptions lets flags override the configuration file for all option keys.
func bindOptions(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range optionKeys {
		f := flags.Lookup(key)
		if f == nil {
			return fmt.Errorf("no flag for option %q", key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	if c.verbose {
		T().SetTraceLevel(tracing.LevelInfo)
	}
	if err := c.readConfig(cmd.Flags().Changed("config")); err != nil {
		return err
	}
	opts, err := c.options(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if c.printConfig {
		return c.dumpConfig(cmd.OutOrStdout(), opts)
	}
	if len(args) == 0 {
		args = []string{textfile.Stdin}
	}
	out := cmd.OutOrStdout()
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	files, err := textfile.LoadAll(cmd.Context(), args, func(f *textfile.File) {
		if f.Err == nil {
			T().Infof("loaded %s", f.Name)
		}
	})
	if err != nil {
		return err
	}
	failed := 0
	for _, f := range files {
		if err := c.format(f, opts, out); err != nil {
			T().Errorf("%s: %v", f.Name, err)
			cmd.PrintErrf("dentin: %s: %v\n", f.Name, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be formatted", failed, len(files))
	}
	return nil
}

// format re-indents a single file and writes it either to out or, in backup
// mode, back to the file.
func (c *cli) format(f *textfile.File, opts *dentin.Options, out io.Writer) error {
	if f.Err != nil {
		return f.Err
	}
	text, err := dentin.Dent(f.Data, dentin.OptionsForFile(f.Name, opts))
	if err != nil {
		return err
	}
	if c.backup == "" {
		_, err = io.WriteString(out, text)
		return err
	}
	fi, err := os.Stat(f.Name)
	if err != nil {
		return err
	}
	if _, err = textfile.Backup(f.Name, c.backup); err != nil {
		return err
	}
	T().Infof("writing %s", f.Name)
	return os.WriteFile(f.Name, []byte(text), fi.Mode().Perm())
}

// readConfig reads the configuration file. A missing default configuration
// file is not an error.
func (c *cli) readConfig(explicit bool) error {
	if c.config == "" {
		return nil
	}
	c.v.SetConfigFile(c.config)
	if err := c.v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			T().Debugf("no configuration file %s", c.config)
			return nil
		}
		return fmt.Errorf("cannot read configuration: %w", err)
	}
	T().Infof("configuration read from %s", c.v.ConfigFileUsed())
	return nil
}

// options merges configuration file and flags. Explicitly set flags win,
// except for ignore, where flag values are put in front of the configured
// ones.
func (c *cli) options(stdout io.Writer) (*dentin.Options, error) {
	v := c.v
	opts := dentin.DefaultOptions()
	opts.HTML = v.GetBool("html")
	opts.DoubleQuote = v.GetBool("doubleQuote")
	opts.FewerQuotes = v.GetBool("fewerQuotes")
	opts.Margin = v.GetInt("margin")
	opts.Spaces = v.GetInt("spaces")
	opts.NoVersion = v.GetBool("noVersion")
	opts.PeriodSpaces = v.GetInt("periodSpaces")
	opts.Ignore = append(append([]string(nil), c.ignore...), v.GetStringSlice("ignore")...)
	if f, ok := stdout.(*os.File); ok && c.output == "" && c.backup == "" {
		if !v.IsSet("colors") {
			opts.Colors = theme.ColorsFromTerminal(f)
		}
		if !v.IsSet("margin") {
			opts.Margin = theme.MarginFromTerminal(f, opts.Margin)
		}
	}
	if v.IsSet("colors") {
		opts.Colors = v.GetBool("colors")
	}
	if c.themeConf = v.GetStringMapString("theme"); len(c.themeConf) > 0 {
		th, err := theme.Parse(c.themeConf)
		if err != nil {
			return nil, err
		}
		opts.Theme = th
	}
	return opts, nil
}

type printedConfig struct {
	dentin.Options `yaml:",inline"`
	Theme          map[string]string `yaml:"theme,omitempty"`
}

func (c *cli) dumpConfig(w io.Writer, opts *dentin.Options) error {
	out, err := yaml.Marshal(printedConfig{Options: *opts, Theme: c.themeConf})
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
