package pipeline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettviren/recibi/internal/export"
	"github.com/brettviren/recibi/internal/merge"
	"github.com/brettviren/recibi/internal/pipeline"
	"github.com/brettviren/recibi/internal/record"
)

func bibSource(t *testing.T, name, text string) pipeline.Source {
	t.Helper()
	return pipeline.ReaderSource(name, strings.NewReader(text), export.BibTeX)
}

func TestLoadAndResolve_NoResolverLastWins(t *testing.T) {
	p := pipeline.New(zerolog.Nop())

	out, err := p.LoadAndResolve(
		bibSource(t, "a", `@misc{A:1, note = {first}} @misc{B:1, note = {b}}`),
		bibSource(t, "b", `@misc{A:1, title = {second}}`),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"A:1", "B:1"}, out.Keys())
	a, _ := out.Get("A:1")
	assert.Equal(t, "second", a.Get("title"))
	_, hasNote := a.Field("note")
	assert.False(t, hasNote)
}

func TestLoadAndResolve_MergePatch(t *testing.T) {
	p := pipeline.New(zerolog.Nop(), pipeline.WithResolver(merge.MergePatch))

	out, err := p.LoadAndResolve(
		bibSource(t, "one", `@article{Doe:2020, title = {Old}, keywords = {x,y}}`),
		bibSource(t, "two", `@article{Doe:2020, title = {New}, keywords = {y,z}, year = {2020}}`),
	)
	require.NoError(t, err)

	doe, ok := out.Get("Doe:2020")
	require.True(t, ok)
	assert.Equal(t, "New", doe.Get("title"))
	assert.Equal(t, "x,y,z", doe.Get("keywords"))
	assert.Equal(t, "2020", doe.Get("year"))
}

func TestLoadAndResolve_LeftFold(t *testing.T) {
	var calls []string
	resolver := func(key string, existing, incoming *record.Record) []pipeline.Entry {
		calls = append(calls, existing.Get("n")+"+"+incoming.Get("n"))
		merged := existing.Clone()
		merged.Set("n", existing.Get("n")+incoming.Get("n"))
		return []pipeline.Entry{{Key: key, Record: merged}}
	}
	p := pipeline.New(zerolog.Nop(), pipeline.WithResolver(resolver))

	out, err := p.LoadAndResolve(
		bibSource(t, "1", `@misc{k, n = {a}}`),
		bibSource(t, "2", `@misc{k, n = {b}}`),
		bibSource(t, "3", `@misc{k, n = {c}}`),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"a+b", "ab+c"}, calls)
	k, _ := out.Get("k")
	assert.Equal(t, "abc", k.Get("n"))
}

func TestLoadAndResolve_ResolverMayDrop(t *testing.T) {
	drop := func(string, *record.Record, *record.Record) []pipeline.Entry { return nil }
	p := pipeline.New(zerolog.Nop(), pipeline.WithResolver(drop))

	out, err := p.LoadAndResolve(
		bibSource(t, "1", `@misc{k, n = {a}} @misc{other, n = {o}}`),
		bibSource(t, "2", `@misc{k, n = {b}}`),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, out.Keys())
}

func TestLoadAndResolve_Transforms(t *testing.T) {
	tests := []struct {
		name      string
		transform pipeline.Transform
		wantKeys  []string
	}{
		{
			name:      "identity",
			transform: pipeline.Identity,
			wantKeys:  []string{"a", "b"},
		},
		{
			name: "drop",
			transform: func(key string, rec *record.Record) []pipeline.Entry {
				if key == "a" {
					return nil
				}
				return pipeline.Identity(key, rec)
			},
			wantKeys: []string{"b"},
		},
		{
			name: "fan out",
			transform: func(key string, rec *record.Record) []pipeline.Entry {
				return []pipeline.Entry{
					{Key: key, Record: rec},
					{Key: key + "-copy", Record: rec.Clone()},
				}
			},
			wantKeys: []string{"a", "a-copy", "b", "b-copy"},
		},
		{
			name: "rekey",
			transform: func(key string, rec *record.Record) []pipeline.Entry {
				return []pipeline.Entry{{Key: strings.ToUpper(key), Record: rec}}
			},
			wantKeys: []string{"A", "B"},
		},
		{
			name: "nil record skipped",
			transform: func(key string, rec *record.Record) []pipeline.Entry {
				return []pipeline.Entry{{Key: key}}
			},
			wantKeys: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pipeline.New(zerolog.Nop(), pipeline.WithTransform(tt.transform))
			out, err := p.LoadAndResolve(bibSource(t, "in", `@misc{a, n = {1}} @misc{b, n = {2}}`))
			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, out.Keys())
		})
	}
}

func TestLoadAndResolve_Cleans(t *testing.T) {
	raw := record.New("misc")
	raw.Set("title", "e\u0301t\u00e9\u200b")
	c := record.NewCollection()
	c.Put("k", raw)

	out, err := pipeline.New(zerolog.Nop()).LoadAndResolve(pipeline.CollectionSource("mem", c))
	require.NoError(t, err)
	k, _ := out.Get("k")
	assert.Equal(t, "\u00e9t\u00e9", k.Get("title"))

	raw2 := record.New("misc")
	raw2.Set("title", "a\u200bb")
	c2 := record.NewCollection()
	c2.Put("k", raw2)
	out, err = pipeline.New(zerolog.Nop(), pipeline.WithClean(nil)).
		LoadAndResolve(pipeline.CollectionSource("mem", c2))
	require.NoError(t, err)
	k, _ = out.Get("k")
	assert.Equal(t, "a\u200bb", k.Get("title"))
}

func TestLoadAndResolve_LeavesSourceUnchanged(t *testing.T) {
	raw := record.New("misc")
	raw.Set("title", "a\u200bb")
	raw.Set("keywords", "x")
	c := record.NewCollection()
	c.Put("k", raw)

	tag := func(key string, rec *record.Record) []pipeline.Entry {
		rec.Set("keywords", merge.Union(",", rec.Get("keywords"), "y"))
		return pipeline.Identity(key, rec)
	}
	out, err := pipeline.New(zerolog.Nop(), pipeline.WithTransform(tag)).
		LoadAndResolve(pipeline.CollectionSource("mem", c))
	require.NoError(t, err)

	k, _ := out.Get("k")
	assert.Equal(t, "ab", k.Get("title"))
	assert.Equal(t, "x,y", k.Get("keywords"))

	orig, _ := c.Get("k")
	assert.Equal(t, "a\u200bb", orig.Get("title"))
	assert.Equal(t, "x", orig.Get("keywords"))
}

func TestLoadAndResolve_LoadError(t *testing.T) {
	p := pipeline.New(zerolog.Nop())
	missing := filepath.Join(t.TempDir(), "missing.bib")

	_, err := p.LoadAndResolve(pipeline.FileSource(missing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading "+missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAndResolve_ParseErrorAborts(t *testing.T) {
	p := pipeline.New(zerolog.Nop())
	_, err := p.LoadAndResolve(
		bibSource(t, "good", `@misc{k,}`),
		bibSource(t, "bad", `@misc{`),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading bad")
}

func TestFileSources(t *testing.T) {
	dir := t.TempDir()
	bib := filepath.Join(dir, "a.bib")
	require.NoError(t, os.WriteFile(bib, []byte(`@misc{A:1, note = {a}}`), 0644))

	js := filepath.Join(dir, "b.json")
	c := record.NewCollection()
	r := record.New("misc")
	r.Set("note", "b")
	c.Put("B:1", r)
	require.NoError(t, export.WriteFile(js, c, export.JSON))

	sources := pipeline.FileSources([]string{bib, js})
	require.Len(t, sources, 2)
	assert.Equal(t, bib, sources[0].Name())

	out, err := pipeline.New(zerolog.Nop()).LoadAndResolve(sources...)
	require.NoError(t, err)
	assert.Equal(t, []string{"A:1", "B:1"}, out.Keys())

	stdin := pipeline.FileSources(nil)
	require.Len(t, stdin, 1)
	assert.Equal(t, "<stdin>", stdin[0].Name())
}
