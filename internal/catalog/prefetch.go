package catalog

import (
	"context"
	"log/slog"

	"github.com/mbecker/catchup/internal/cache"
	"github.com/mbecker/catchup/internal/domain"
)

// DefaultPrefetchMax caps how many episodes one prefetch batch may fetch
const DefaultPrefetchMax = 5

// Prefetcher opportunistically warms the episode cache for guids likely to
// be requested next. Candidate order is the order the remote returned them,
// treated as a relevance signal. Runs only after the consumer has its
// result, same discipline as DeferredWriter: synchronous, ordering-only.
// Prefetch optimizes a future request, never the current one, so every
// failure here is logged and swallowed.
type Prefetcher struct {
	api      domain.ContentAPI
	episodes *cache.EpisodeDetail
	max      int
	logger   *slog.Logger
}

// NewPrefetcher creates a prefetch coordinator
func NewPrefetcher(api domain.ContentAPI, episodes *cache.EpisodeDetail, max int, logger *slog.Logger) *Prefetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if max <= 0 {
		max = DefaultPrefetchMax
	}
	return &Prefetcher{
		api:      api,
		episodes: episodes,
		max:      max,
		logger:   logger,
	}
}

// Run prefetches up to the configured cap of uncached candidates, in input
// order, with one batch fetch. Cache membership is re-checked here rather
// than trusted from an earlier snapshot: another path may have warmed some
// of these keys moments ago.
func (p *Prefetcher) Run(ctx context.Context, candidates []string) {
	if len(candidates) == 0 {
		return
	}

	picks := make([]string, 0, p.max)
	for _, guid := range candidates {
		if len(picks) == p.max {
			break
		}
		if p.episodes.Contains(guid) {
			continue
		}
		picks = append(picks, guid)
	}

	if len(picks) == 0 {
		p.logger.Debug("prefetch skipped, all candidates cached", "candidates", len(candidates))
		return
	}

	episodes, err := p.api.GetEpisodes(ctx, picks)
	if err != nil {
		p.logger.Warn("prefetch fetch failed, abandoning", "count", len(picks), "error", err)
		return
	}

	written := 0
	for _, ep := range episodes {
		if err := p.episodes.Put(ep.GUID, ep); err != nil {
			p.logger.Warn("prefetch write failed", "guid", ep.GUID, "error", err)
			continue
		}
		written++
	}

	p.logger.Debug("prefetch complete", "requested", len(picks), "written", written)
}
