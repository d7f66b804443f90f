package catalog

import (
	"context"
	"log/slog"

	"github.com/mbecker/catchup/internal/cache"
	"github.com/mbecker/catchup/internal/domain"
)

// Service is the read/refresh surface of the cache layer. Each operation
// picks its freshness mode at the call site: browsing and playback are
// cache-first (stale beats an empty screen), RefreshBundle is authoritative
// (live progress, no fallback, blind overwrites).
//
// Consumers call FlushDeferred and RunPrefetch only after they have emitted
// their own result; neither adds latency to the read path.
type Service struct {
	api      domain.ContentAPI
	projects *cache.ProjectIndex
	episodes *cache.EpisodeDetail
	deferred *DeferredWriter
	prefetch *Prefetcher
	logger   *slog.Logger
}

// NewService creates the catalog service
func NewService(api domain.ContentAPI, projects *cache.ProjectIndex, episodes *cache.EpisodeDetail, prefetchMax int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:      api,
		projects: projects,
		episodes: episodes,
		deferred: NewDeferredWriter(logger),
		prefetch: NewPrefetcher(api, episodes, prefetchMax, logger),
		logger:   logger,
	}
}

// GetProject returns the navigation index for a project, cache-first.
// On remote failure an expired cache entry is better than nothing.
func (s *Service) GetProject(ctx context.Context, slug string) (*domain.Project, error) {
	if project, ok := s.projects.Get(slug); ok {
		s.logger.Debug("project cache hit", "slug", slug)
		return &project, nil
	}

	project, err := s.api.GetProject(ctx, slug)
	if err != nil {
		if stale, found, _ := s.projects.GetStale(slug); found {
			s.logger.Warn("remote unavailable, serving stale project", "slug", slug, "error", err)
			return &stale, nil
		}
		s.logger.Error("failed to get project", "slug", slug, "error", err)
		return nil, err
	}

	p := *project
	s.deferred.Enqueue(cache.ProjectKey(slug), func() error {
		return s.projects.Put(slug, p)
	})
	s.logger.Info("loaded project", "slug", slug, "seasons", len(project.Seasons))

	return project, nil
}

// BrowseSeason returns full episode records for one season of a project,
// in stub order. Cached episodes are served as-is; the uncached remainder
// is fetched in exactly one batch, never one call per miss.
func (s *Service) BrowseSeason(ctx context.Context, slug string, seasonNumber int) ([]domain.Episode, error) {
	project, err := s.GetProject(ctx, slug)
	if err != nil {
		return nil, err
	}

	season, ok := project.Season(seasonNumber)
	if !ok {
		return nil, domain.ErrNotFound
	}

	byGUID := make(map[string]domain.Episode, len(season.Episodes))
	var misses []string
	for _, stub := range season.Episodes {
		if ep, ok := s.episodes.Get(stub.GUID); ok {
			byGUID[stub.GUID] = ep
			continue
		}
		misses = append(misses, stub.GUID)
	}

	if len(misses) > 0 {
		fetched, err := s.api.GetEpisodes(ctx, misses)
		if err != nil {
			// Salvage what the stale cache still has before giving up
			salvaged := 0
			for _, guid := range misses {
				if ep, found, _ := s.episodes.GetStale(guid); found {
					byGUID[guid] = ep
					salvaged++
				}
			}
			if salvaged < len(misses) {
				s.logger.Error("failed to fetch season episodes", "slug", slug, "season", seasonNumber, "error", err)
				return nil, err
			}
			s.logger.Warn("remote unavailable, serving stale episodes", "slug", slug, "season", seasonNumber, "count", salvaged)
		}
		for _, ep := range fetched {
			byGUID[ep.GUID] = ep
			e := ep
			s.deferred.Enqueue(cache.EpisodeKey(e.GUID), func() error {
				return s.episodes.Put(e.GUID, e)
			})
		}
		s.logger.Debug("season browse", "slug", slug, "season", seasonNumber,
			"cached", len(season.Episodes)-len(misses), "fetched", len(fetched))
	}

	episodes := make([]domain.Episode, 0, len(season.Episodes))
	for _, stub := range season.Episodes {
		if ep, ok := byGUID[stub.GUID]; ok {
			episodes = append(episodes, ep)
		}
	}
	return episodes, nil
}

// GetEpisode returns one full episode record, cache-first with stale
// fallback when the remote is down.
func (s *Service) GetEpisode(ctx context.Context, guid string) (*domain.Episode, error) {
	if ep, ok := s.episodes.Get(guid); ok {
		s.logger.Debug("episode cache hit", "guid", guid)
		return &ep, nil
	}

	fetched, err := s.api.GetEpisodes(ctx, []string{guid})
	if err != nil {
		if stale, found, _ := s.episodes.GetStale(guid); found {
			s.logger.Warn("remote unavailable, serving stale episode", "guid", guid, "error", err)
			return &stale, nil
		}
		s.logger.Error("failed to get episode", "guid", guid, "error", err)
		return nil, err
	}
	if len(fetched) == 0 {
		return nil, domain.ErrNotFound
	}

	ep := fetched[0]
	s.deferred.Enqueue(cache.EpisodeKey(guid), func() error {
		return s.episodes.Put(ep.GUID, ep)
	})
	return &ep, nil
}

// RefreshBundle fetches the authoritative bundle for a project and queues
// blind overwrites for everything in it. A fetch failure surfaces
// immediately: this path exists to show live progress, so a stale fallback
// would defeat it. Writes never read or merge prior entries - merging a
// partially-overlapping nested structure risks resurrecting stale fields.
func (s *Service) RefreshBundle(ctx context.Context, slug string) (*domain.Bundle, error) {
	bundle, err := s.api.GetFreshBundle(ctx, slug)
	if err != nil {
		s.logger.Error("bundle fetch failed", "slug", slug, "error", err)
		return nil, err
	}

	project := bundle.Project
	s.deferred.Enqueue(cache.ProjectKey(project.Slug), func() error {
		return s.projects.Put(project.Slug, project)
	})
	for _, ep := range bundle.Episodes {
		e := ep
		s.deferred.Enqueue(cache.EpisodeKey(e.GUID), func() error {
			return s.episodes.Put(e.GUID, e)
		})
	}

	s.logger.Info("refreshed bundle", "slug", slug, "episodes", len(bundle.Episodes))
	return bundle, nil
}

// FlushDeferred runs the queued cache writes. Consumers call this once
// they have finished emitting their own result, never before.
func (s *Service) FlushDeferred() {
	s.deferred.Flush()
}

// RunPrefetch warms the episode cache for the given candidate guids,
// in the order the remote returned them. Same post-result discipline as
// FlushDeferred.
func (s *Service) RunPrefetch(ctx context.Context, candidates []string) {
	s.prefetch.Run(ctx, candidates)
}

// InvalidateProject drops a project's index entry and every episode entry
// belonging to it, forcing the next read to refetch.
func (s *Service) InvalidateProject(slug string) {
	project, found, _ := s.projects.GetStale(slug)
	s.projects.Delete(slug)
	if !found {
		return
	}
	for _, season := range project.Seasons {
		for _, stub := range season.Episodes {
			s.episodes.Delete(stub.GUID)
		}
	}
	s.logger.Info("invalidated project", "slug", slug)
}

// InvalidateAll drops both cache namespaces
func (s *Service) InvalidateAll() {
	if err := s.projects.Clear(); err != nil {
		s.logger.Warn("project cache clear failed", "error", err)
	}
	if err := s.episodes.Clear(); err != nil {
		s.logger.Warn("episode cache clear failed", "error", err)
	}
	s.logger.Info("cleared all cache")
}
