package textfile

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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/guiguan/caster"
)

// Stdin is the file name which stands for standard input.
const Stdin = "-"

// File is an input document, as loaded by LoadAll.
type File struct {
	Index int    // position in the batch
	Name  string // file name as given
	Data  []byte // content, nil on error
	Err   error  // I/O error, if any
}

// Load reads a file, which must be a regular file. The name "-" reads
// standard input.
func Load(name string) ([]byte, error) {
	if name == Stdin {
		return io.ReadAll(os.Stdin)
	}
	f, err := openFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", name, err)
	}
	tracer().Debugf("loaded %s (%d bytes)", name, len(data))
	return data, nil
}

// openFile opens an OS file for reading, checking for error conditions.
func openFile(name string) (*os.File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", name)
	}
	return os.Open(name) // just open for read access
}

// LoadAll reads a batch of files concurrently. Every file, once loaded, is
// handed to each of the subscribers, which run in goroutines of their own;
// the order of delivery is the order of completion. The returned slice
// holds all files in the order of names. Errors for single files are
// reported in File.Err; LoadAll itself fails only if ctx is done before all
// files are loaded.
//
// Standard input may appear at most once in names.
func LoadAll(ctx context.Context, names []string, subscribers ...func(*File)) ([]*File, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cast := caster.New(ctx)
	defer cast.Close()
	results, ok := cast.Sub(ctx, uint(len(names)))
	if !ok {
		return nil, fmt.Errorf("cannot subscribe to file loader")
	}
	var subs sync.WaitGroup
	for _, fn := range subscribers {
		ch, ok := cast.Sub(ctx, uint(len(names)))
		if !ok {
			continue
		}
		subs.Add(1)
		go func(ch <-chan interface{}, fn func(*File)) {
			defer subs.Done()
			for i := 0; i < len(names); i++ {
				msg, ok := <-ch
				if !ok {
					return
				}
				fn(msg.(*File))
			}
		}(ch, fn)
	}
	for i, name := range names {
		go func(i int, name string) {
			data, err := Load(name)
			if err != nil {
				tracer().Errorf("cannot load %s: %v", name, err)
			}
			cast.Pub(&File{Index: i, Name: name, Data: data, Err: err})
		}(i, name)
	}
	files := make([]*File, len(names))
	for n := 0; n < len(names); n++ {
		select {
		case msg, ok := <-results:
			if !ok {
				return files, ctx.Err()
			}
			f := msg.(*File)
			files[f.Index] = f
		case <-ctx.Done():
			return files, ctx.Err()
		}
	}
	subs.Wait()
	return files, nil
}

// Backup moves a file out of the way before it is overwritten, appending
// ext to its name. A missing leading dot is added to ext. Backup returns the
// name of the backup file.
func Backup(name, ext string) (string, error) {
	if name == Stdin {
		return "", fmt.Errorf("cannot back up standard input")
	}
	if ext == "" {
		return "", fmt.Errorf("empty backup extension")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	backup := name + ext
	if err := os.Rename(name, backup); err != nil {
		return "", fmt.Errorf("cannot back up %s: %w", name, err)
	}
	tracer().Infof("backed up %s to %s", name, backup)
	return backup, nil
}
