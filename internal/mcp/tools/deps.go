package tools

import (
	"github.com/usestring/falcon-mcp/internal/cache"
	"github.com/usestring/falcon-mcp/internal/config"
	"github.com/usestring/falcon-mcp/internal/indexer"
	"github.com/usestring/falcon-mcp/internal/lookup"
	"github.com/usestring/falcon-mcp/internal/metrics"
	"github.com/usestring/falcon-mcp/internal/query"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client  lookup.Searcher
	Cache   *cache.ResultCache
	Index   *indexer.Indexer // nil when the indicator index is disabled
	Lookup  *lookup.Engine
	Query   *query.Engine
	Config  *config.Config
	Metrics *metrics.Metrics
}

// NewDeps builds the lookup and query engines around a searcher. A nil m
// disables metrics; RESULT_CACHE_MAX_ITEMS <= 0 disables the cache and
// INDEX_MAX_REPORTS <= 0 disables the indicator index.
func NewDeps(c lookup.Searcher, cfg *config.Config, m *metrics.Metrics) *Deps {
	var rc *cache.ResultCache
	if cfg.ResultCacheMaxItems > 0 {
		rc = cache.NewResultCache(cfg.ResultCacheMaxItems, cfg.ResultCacheTTL)
	}

	opts := lookup.Options{
		Cache:     rc,
		Workers:   cfg.LookupWorkers,
		MaxHashes: cfg.MaxLookupHashes,
	}
	if m != nil {
		opts.Recorder = m
	}

	var idx *indexer.Indexer
	if cfg.IndexMaxReports > 0 {
		idx = indexer.New(cfg.IndexMaxReports)
		opts.OnResults = idx.Index
	}

	return &Deps{
		Client:  c,
		Cache:   rc,
		Index:   idx,
		Lookup:  lookup.New(c, opts),
		Query:   query.NewEngine(),
		Config:  cfg,
		Metrics: m,
	}
}
