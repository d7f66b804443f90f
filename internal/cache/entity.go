package cache

import (
	"log/slog"
	"time"

	"github.com/mbecker/catchup/internal/domain"
)

// Default TTLs. Project entries expire sooner because metadata and episode
// lists change more often than finished media.
const (
	DefaultProjectTTL = 8 * time.Hour
	DefaultEpisodeTTL = 72 * time.Hour
)

// ProjectIndex caches sparse project indexes under project:{slug}
type ProjectIndex = Store[domain.Project]

// EpisodeDetail caches full episode records under episode:{guid}
type EpisodeDetail = Store[domain.Episode]

// NewProjectIndex creates the project index cache
func NewProjectIndex(backend domain.Backend, ttl time.Duration, logger *slog.Logger) *ProjectIndex {
	if ttl <= 0 {
		ttl = DefaultProjectTTL
	}
	return New[domain.Project](backend, PrefixProject, ttl, logger)
}

// NewEpisodeDetail creates the episode detail cache
func NewEpisodeDetail(backend domain.Backend, ttl time.Duration, logger *slog.Logger) *EpisodeDetail {
	if ttl <= 0 {
		ttl = DefaultEpisodeTTL
	}
	return New[domain.Episode](backend, PrefixEpisode, ttl, logger)
}
