package script

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/ByLCY/montage/raster"
)

// Emitter receives the finished document when a script reaches `output`.
type Emitter interface {
	Emit(ctx context.Context, name string, format raster.Format, doc *raster.Document) error
}

// FileEmitter writes the output under Dir; absolute names are used as-is.
type FileEmitter struct {
	Dir     string
	Quality int
}

func (e FileEmitter) Emit(_ context.Context, name string, _ raster.Format, doc *raster.Document) error {
	path := name
	if !filepath.IsAbs(path) && e.Dir != "" {
		path = filepath.Join(e.Dir, path)
	}
	return raster.WriteFile(path, doc, e.Quality)
}

// BufferEmitter keeps the encoded output in memory, e.g. to answer an HTTP request.
type BufferEmitter struct {
	Quality int

	Name   string
	Format raster.Format
	Buf    bytes.Buffer
}

func (e *BufferEmitter) Emit(_ context.Context, name string, format raster.Format, doc *raster.Document) error {
	e.Buf.Reset()
	if err := raster.Encode(&e.Buf, doc, format, e.Quality); err != nil {
		return err
	}
	e.Name, e.Format = name, format
	return nil
}
