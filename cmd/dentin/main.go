/*
Command dentin re-indents XML and HTML files.

	dentin [flags] [file...]

Without file arguments, dentin reads standard input. Formatted documents are
written to standard output, to a single output file (-o) or back to the input
files, keeping a backup of each (-b).

Options are read from a JSON or YAML configuration file (default
./.dentin.json) and may be overridden by flags. Element names to ignore are
collected from both. A theme for colored output can only be set in the
configuration file:

	{
	  "doubleQuote": true,
	  "ignore": ["pre", "artwork"],
	  "theme": {
	    "ELEMENT": "hiblue bold",
	    "TEXT": ""
	  }
	}
*/
package main

import (
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func main() {
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
