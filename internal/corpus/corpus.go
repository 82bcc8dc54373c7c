// Package corpus loads the contents of collected source files into memory.
package corpus

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ben-ranford/fluttersweep/internal/safeio"
	"github.com/ben-ranford/fluttersweep/internal/source"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxFileBytes int64 = 8 << 20

// FileReadError records a file whose content could not be loaded. Such a
// file is still a detection subject but contributes no matches.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

type Document struct {
	File     source.File
	Content  []byte
	Readable bool
}

type Corpus struct {
	Root       string
	Documents  []Document
	ReadErrors []*FileReadError
	Bytes      int64
}

type Options struct {
	Workers      int
	MaxFileBytes int64
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// A zero MaxFileBytes selects DefaultMaxFileBytes; a negative value disables the limit.
func (o Options) maxFileBytes() int64 {
	if o.MaxFileBytes == 0 {
		return DefaultMaxFileBytes
	}
	return o.MaxFileBytes
}

// Load reads every file once with a bounded pool. Documents keep the order
// of files regardless of scheduling.
func Load(ctx context.Context, root string, files []source.File, opts Options) (Corpus, error) {
	docs := make([]Document, len(files))
	readErrs := make([]error, len(files))
	limit := opts.maxFileBytes()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.workers())
	for i, file := range files {
		docs[i].File = file
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			content, err := safeio.ReadFileLimit(file.Path, limit)
			if err != nil {
				readErrs[i] = err
				return nil
			}
			docs[i].Content = content
			docs[i].Readable = true
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Corpus{}, err
	}

	result := Corpus{Root: root, Documents: docs}
	for i, err := range readErrs {
		if err != nil {
			result.ReadErrors = append(result.ReadErrors, &FileReadError{Path: files[i].Path, Err: err})
			continue
		}
		result.Bytes += int64(len(docs[i].Content))
	}
	return result, nil
}

func (c Corpus) Warnings() []string {
	warnings := make([]string, 0, len(c.ReadErrors))
	for _, err := range c.ReadErrors {
		warnings = append(warnings, err.Error())
	}
	return warnings
}
