/*
Package textfile loads input documents for the dentin printer.

Files are read completely into memory; documents are small compared to the
trees built from them. LoadAll reads a batch of files concurrently and
broadcasts every loaded file to a set of subscribers, while still handing
the results back in argument order. Backup supports in-place formatting.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'dentin'
func tracer() tracing.Trace {
	return tracing.Select("dentin")
}
