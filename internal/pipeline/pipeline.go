// Package pipeline loads records from sources into a single collection.
//
// Every record passes through an optional Transform, which may drop it,
// rekey it or fan it out into several entries. When an entry's key is
// already in the output, an optional Resolver decides what replaces it.
// Without a resolver the newest entry overwrites the old one.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brettviren/recibi/internal/normalize"
	"github.com/brettviren/recibi/internal/record"
)

// Entry is a keyed record produced by a transform or resolver.
type Entry struct {
	Key    string
	Record *record.Record
}

// Transform maps one input record to zero or more entries.
type Transform func(key string, rec *record.Record) []Entry

// Resolver is called when incoming collides with existing under key. Its
// entries replace existing; returning none drops both.
type Resolver func(key string, existing, incoming *record.Record) []Entry

// Identity passes the record through unchanged.
func Identity(key string, rec *record.Record) []Entry {
	return []Entry{{Key: key, Record: rec}}
}

// Pipeline holds the per-record hooks applied while loading.
type Pipeline struct {
	transform Transform
	resolver  Resolver
	clean     func(*record.Record) *record.Record
	log       zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTransform sets the per-record transform.
func WithTransform(t Transform) Option {
	return func(p *Pipeline) {
		p.transform = t
	}
}

// WithResolver sets the collision resolver.
func WithResolver(r Resolver) Option {
	return func(p *Pipeline) {
		p.resolver = r
	}
}

// WithClean sets the function applied to each record before the
// transform. Passing nil disables cleaning.
func WithClean(fn func(*record.Record) *record.Record) Option {
	return func(p *Pipeline) {
		p.clean = fn
	}
}

// New creates a pipeline that cleans records with normalize.Record and
// passes them through unchanged.
func New(log zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		transform: Identity,
		clean:     normalize.Record,
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.transform == nil {
		p.transform = Identity
	}
	return p
}

// LoadAndResolve reads the sources in order and accumulates their records
// into one collection. Collisions resolve as a left fold: the result of
// merging the first two sources is what the third is merged against.
func (p *Pipeline) LoadAndResolve(sources ...Source) (*record.Collection, error) {
	out := record.NewCollection()

	for _, src := range sources {
		in, err := src.Load()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", src.Name(), err)
		}
		p.log.Debug().Str("source", src.Name()).Int("records", in.Len()).Msg("loaded source")

		var produced, collisions int
		err = in.Each(func(key string, rec *record.Record) error {
			rec = rec.Clone()
			if p.clean != nil {
				rec = p.clean(rec)
			}
			entries := p.transform(key, rec)
			produced += len(entries)
			collisions += Resolve(out, entries, p.resolver)
			return nil
		})
		if err != nil {
			return nil, err
		}

		p.log.Debug().
			Str("source", src.Name()).
			Int("produced", produced).
			Int("collisions", collisions).
			Msg("resolved source")
		if collisions > 0 && p.resolver == nil {
			p.log.Info().
				Str("source", src.Name()).
				Int("overwritten", collisions).
				Msg("duplicate keys replaced by later records")
		}
	}

	return out, nil
}

// Resolve inserts entries into out and returns the number of key
// collisions. Without a resolver a colliding entry replaces the existing
// record in place. With one, the existing record is removed and whatever
// the resolver returns is inserted.
func Resolve(out *record.Collection, entries []Entry, resolver Resolver) int {
	collisions := 0
	for _, e := range entries {
		if e.Record == nil {
			continue
		}
		existing, ok := out.Get(e.Key)
		if !ok {
			out.Put(e.Key, e.Record)
			continue
		}
		collisions++
		if resolver == nil {
			out.Put(e.Key, e.Record)
			continue
		}
		out.Delete(e.Key)
		for _, r := range resolver(e.Key, existing, e.Record) {
			if r.Record != nil {
				out.Put(r.Key, r.Record)
			}
		}
	}
	return collisions
}
