package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/falcon-mcp/internal/cache"
	"github.com/usestring/falcon-mcp/pkg/client"
)

// Lookup outcomes as reported to the Recorder.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// ErrEmptyHash is returned for a blank hash.
	ErrEmptyHash = errors.New("hash is empty")
	// ErrNoHashes is returned by LookupMany when no hashes are given.
	ErrNoHashes = errors.New("no hashes given")
	// ErrTooManyHashes is returned by LookupMany when the batch exceeds the limit.
	ErrTooManyHashes = errors.New("too many hashes")
)

// Searcher searches the sandbox for reports matching a hash.
// *client.Client satisfies it.
type Searcher interface {
	SearchHash(ctx context.Context, hash string) ([]client.SearchResult, error)
}

// Recorder receives lookup observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	CacheLookup(hit bool)
	HashLookup(outcome string)
}

// Options configures an Engine.
type Options struct {
	Cache     *cache.ResultCache // nil disables caching
	Recorder  Recorder           // nil disables recording
	Workers   int                // concurrent searches in LookupMany, default 4
	MaxHashes int                // batch limit for LookupMany, <= 0 means unlimited

	// OnResults is called after every successful sandbox search (not on
	// cache hits) with the normalized hash. It must be safe for concurrent use.
	OnResults func(hash string, results []client.SearchResult)
}

// Engine resolves hashes, consulting the result cache before the searcher.
type Engine struct {
	searcher  Searcher
	cache     *cache.ResultCache
	recorder  Recorder
	workers   int
	maxHashes int
	onResults func(string, []client.SearchResult)
}

// Outcome is the result of looking up one hash.
type Outcome struct {
	Hash    string // normalized
	Kind    HashKind
	Results []client.SearchResult
	Cached  bool
	Err     error
}

// Found reports whether the lookup succeeded with at least one report.
func (o Outcome) Found() bool {
	return o.Err == nil && len(o.Results) > 0
}

// New creates an Engine.
func New(s Searcher, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		searcher:  s,
		cache:     opts.Cache,
		recorder:  opts.Recorder,
		workers:   workers,
		maxHashes: opts.MaxHashes,
		onResults: opts.OnResults,
	}
}

// Lookup resolves one hash. Errors are carried in the Outcome and are never
// cached; an empty result set is.
func (e *Engine) Lookup(ctx context.Context, hash string) Outcome {
	key := Normalize(hash)
	out := Outcome{Hash: key, Kind: Classify(key)}
	if key == "" {
		out.Err = ErrEmptyHash
		e.record(OutcomeError)
		return out
	}

	if results, ok := e.cache.Get(key); ok {
		e.cacheLookup(true)
		out.Results = results
		out.Cached = true
		e.record(outcomeOf(out))
		return out
	}
	if e.cache != nil {
		e.cacheLookup(false)
	}

	results, err := e.searcher.SearchHash(ctx, strings.TrimSpace(hash))
	if err != nil {
		slog.Debug("hash lookup failed",
			slog.String("hash", key),
			slog.String("error", err.Error()),
		)
		out.Err = err
		e.record(OutcomeError)
		return out
	}

	e.cache.Put(key, results)
	if e.onResults != nil && len(results) > 0 {
		e.onResults(key, results)
	}
	out.Results = results
	e.record(outcomeOf(out))
	return out
}

// LookupMany resolves a batch of hashes concurrently. Duplicates (after
// normalization) are looked up once; outcomes follow first-seen order.
// Per-hash failures are reported in each Outcome, not as the returned error.
func (e *Engine) LookupMany(ctx context.Context, hashes []string) ([]Outcome, error) {
	unique := dedupe(hashes)
	if len(unique) == 0 {
		return nil, ErrNoHashes
	}
	if e.maxHashes > 0 && len(unique) > e.maxHashes {
		return nil, fmt.Errorf("%w: %d unique hashes, limit is %d", ErrTooManyHashes, len(unique), e.maxHashes)
	}

	outcomes := make([]Outcome, len(unique))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, hash := range unique {
		g.Go(func() error {
			outcomes[i] = e.Lookup(ctx, hash)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// dedupe drops blank and repeated hashes, keeping first-seen order.
func dedupe(hashes []string) []string {
	seen := make(map[string]struct{}, len(hashes))
	out := make([]string, 0, len(hashes))
	for _, h := range hashes {
		key := Normalize(h)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(h))
	}
	return out
}

func outcomeOf(o Outcome) string {
	switch {
	case o.Err != nil:
		return OutcomeError
	case len(o.Results) == 0:
		return OutcomeNotFound
	default:
		return OutcomeFound
	}
}

func (e *Engine) record(outcome string) {
	if e.recorder != nil {
		e.recorder.HashLookup(outcome)
	}
}

func (e *Engine) cacheLookup(hit bool) {
	if e.recorder != nil {
		e.recorder.CacheLookup(hit)
	}
}
