package mcpsrv

import (
	"github.com/usestring/falcon-mcp/internal/cache"
	"github.com/usestring/falcon-mcp/internal/config"
	"github.com/usestring/falcon-mcp/internal/indexer"
	"github.com/usestring/falcon-mcp/internal/lookup"
	"github.com/usestring/falcon-mcp/internal/metrics"
	"github.com/usestring/falcon-mcp/internal/query"
	"github.com/usestring/falcon-mcp/pkg/client"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Client  *client.Client
	Cache   *cache.ResultCache // nil when caching is disabled
	Index   *indexer.Indexer   // nil when the indicator index is disabled
	Lookup  *lookup.Engine
	Query   *query.Engine
	Config  *config.Config
	Metrics *metrics.Metrics // nil when metrics are disabled
}
