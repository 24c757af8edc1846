package pipeline

import (
	"io"

	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/record"
)

// Source yields a collection of records to load.
type Source interface {
	Name() string
	Load() (*record.Collection, error)
}

type fileSource struct {
	path   string
	format export.Format
}

// FileSource reads path in the format implied by its extension. An empty
// path or "-" reads BibTeX from stdin.
func FileSource(path string) Source {
	return fileSource{path: path, format: export.FormatFromPath(path)}
}

// FileSources returns one source per path, or a single stdin source when
// paths is empty.
func FileSources(paths []string) []Source {
	if len(paths) == 0 {
		return []Source{FileSource("-")}
	}
	sources := make([]Source, len(paths))
	for i, p := range paths {
		sources[i] = FileSource(p)
	}
	return sources
}

func (s fileSource) Name() string {
	if export.IsStdio(s.path) {
		return "<stdin>"
	}
	return s.path
}

func (s fileSource) Load() (*record.Collection, error) {
	return export.ReadFile(s.path, s.format)
}

type readerSource struct {
	name   string
	r      io.Reader
	format export.Format
}

// ReaderSource decodes r in the given format. It can be loaded once.
func ReaderSource(name string, r io.Reader, format export.Format) Source {
	return readerSource{name: name, r: r, format: format}
}

func (s readerSource) Name() string { return s.name }

func (s readerSource) Load() (*record.Collection, error) {
	return export.Decode(s.r, s.format)
}

type collectionSource struct {
	name string
	c    *record.Collection
}

// CollectionSource yields an in-memory collection. The pipeline works on
// copies, so c is left unchanged.
func CollectionSource(name string, c *record.Collection) Source {
	return collectionSource{name: name, c: c}
}

func (s collectionSource) Name() string { return s.name }

func (s collectionSource) Load() (*record.Collection, error) {
	return s.c, nil
}
