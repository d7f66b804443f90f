package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mbecker/catchup/internal/adapter"
	"github.com/mbecker/catchup/internal/cache"
	"github.com/mbecker/catchup/internal/catalog"
	"github.com/mbecker/catchup/internal/domain"
	"github.com/mbecker/catchup/internal/remote"
	"github.com/mbecker/catchup/internal/search"
	"github.com/mbecker/catchup/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		projectSlug string
		seasonNum   int
		refreshSlug string
		query       string
		clearCache  bool
	)
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&projectSlug, "project", "", "browse a project by slug")
	flag.IntVar(&seasonNum, "season", -1, "season number to browse (with -project)")
	flag.StringVar(&refreshSlug, "refresh", "", "refresh a project from the authoritative bundle")
	flag.StringVar(&query, "search", "", "fuzzy-search locally indexed titles")
	flag.BoolVar(&clearCache, "clear-cache", false, "drop all cached data")
	flag.Parse()

	if showVersion {
		fmt.Printf("catchup %s\n", Version)
		return
	}

	if err := run(projectSlug, seasonNum, refreshSlug, query, clearCache); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(projectSlug string, seasonNum int, refreshSlug, query string, clearCache bool) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting catchup", "version", Version)

	if clearCache {
		if err := adapter.ClearCache(cfg); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	}

	if !cfg.IsConfigured() {
		return fmt.Errorf("remote.url and remote.token must be configured")
	}

	backend, err := store.Open(cfg.Cache.Dir, cfg.Remote.URL)
	if err != nil {
		return fmt.Errorf("failed to open cache store: %w", err)
	}
	defer backend.Close()

	projects := cache.NewProjectIndex(backend, cfg.Cache.ProjectTTL(), logger)
	episodes := cache.NewEpisodeDetail(backend, cfg.Cache.EpisodeTTL(), logger)
	projects.SetEnabled(cfg.Cache.Enabled)
	episodes.SetEnabled(cfg.Cache.Enabled)

	client := remote.NewClient(cfg.Remote.URL, cfg.Remote.Token, cfg.Remote.Timeout(), logger)
	svc := catalog.NewService(client, projects, episodes, cfg.Prefetch.MaxBatch, logger)
	finder := search.NewService(logger)

	ctx := context.Background()

	switch {
	case refreshSlug != "":
		return runRefresh(ctx, svc, refreshSlug)
	case projectSlug != "" && seasonNum >= 0:
		return runBrowseSeason(ctx, svc, finder, projectSlug, seasonNum)
	case projectSlug != "":
		return runBrowseProject(ctx, svc, finder, projectSlug)
	case query != "":
		return runSearch(finder, projects, episodes, query)
	default:
		flag.Usage()
		return nil
	}
}

// runBrowseProject prints a project's season/episode index.
// Result first, cache side-effects after: that ordering is the contract.
func runBrowseProject(ctx context.Context, svc *catalog.Service, finder *search.Service, slug string) error {
	project, err := svc.GetProject(ctx, slug)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s), %d seasons, %d episodes\n", project.Name, project.Type, len(project.Seasons), project.EpisodeCount())
	for _, season := range project.Seasons {
		fmt.Printf("  %s: %d episodes\n", season.DisplayTitle(), len(season.Episodes))
	}
	finder.IndexProject(*project)

	// Consumer has its result; now the deferred work may run
	svc.FlushDeferred()
	if len(project.Seasons) > 0 {
		svc.RunPrefetch(ctx, project.Seasons[0].GUIDs())
	}
	return nil
}

// runBrowseSeason prints full episode records for one season
func runBrowseSeason(ctx context.Context, svc *catalog.Service, finder *search.Service, slug string, seasonNum int) error {
	eps, err := svc.BrowseSeason(ctx, slug, seasonNum)
	if err != nil {
		return err
	}

	for _, ep := range eps {
		line := fmt.Sprintf("%s  %s", ep.EpisodeCode(), ep.Name)
		if ep.Subtitle != "" {
			line += " - " + ep.Subtitle
		}
		if !ep.Playable() {
			line += " (unavailable)"
		} else if ep.ShouldResume() {
			line += fmt.Sprintf(" [resume %s]", ep.WatchPosition)
		}
		fmt.Println(line)
	}
	finder.IndexEpisodes(eps)

	svc.FlushDeferred()

	// Warm the following season while the user reads this one
	if project, err := svc.GetProject(ctx, slug); err == nil {
		if next, ok := project.Season(seasonNum + 1); ok {
			svc.RunPrefetch(ctx, next.GUIDs())
		}
	}
	return nil
}

// runSearch fuzzy-matches the query against every fresh cache entry
func runSearch(finder *search.Service, projects *cache.ProjectIndex, episodes *cache.EpisodeDetail, query string) error {
	projects.ForEach(func(_ string, p domain.Project) {
		finder.IndexProject(p)
	})
	episodes.ForEach(func(_ string, ep domain.Episode) {
		finder.IndexEpisodes([]domain.Episode{ep})
	})

	results := finder.Find(query)
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		if r.Kind == "project" {
			fmt.Printf("project  %s (%s)\n", r.Title, r.ProjectSlug)
		} else {
			fmt.Printf("episode  %s (%s)\n", r.Title, r.GUID)
		}
	}
	return nil
}

// runRefresh pulls the authoritative bundle and prints live progress
func runRefresh(ctx context.Context, svc *catalog.Service, slug string) error {
	bundle, err := svc.RefreshBundle(ctx, slug)
	if err != nil {
		return err
	}

	fmt.Printf("%s refreshed: %d episodes\n", bundle.Project.Name, len(bundle.Episodes))
	for _, ep := range bundle.Episodes {
		if ep.WatchStatus() == domain.WatchStatusInProgress {
			fmt.Printf("  %s %s: %s\n", ep.EpisodeCode(), ep.Name, ep.WatchStatus())
		}
	}

	svc.FlushDeferred()
	return nil
}
