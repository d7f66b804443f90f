package remote

import (
	"time"

	"github.com/mbecker/catchup/internal/domain"
	"github.com/mbecker/catchup/internal/normalize"
)

// projectDTO is the sparse index response for GET /v1/projects/{slug}
type projectDTO struct {
	Slug    string      `json:"slug"`
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Seasons []seasonDTO `json:"seasons"`
}

type seasonDTO struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Episodes []stubDTO `json:"episodes"`
}

type stubDTO struct {
	ID            string `json:"id"`
	GUID          string `json:"guid"`
	EpisodeNumber int    `json:"episodeNumber"`
}

// episodesDTO wraps the heterogeneous nodes of GET /v1/episodes.
// Nodes go through the normalizer; the wire shape varies per kind.
type episodesDTO struct {
	Episodes []normalize.Node `json:"episodes"`
}

// bundleDTO is GET /v1/projects/{slug}/bundle: already canonical shape,
// mapped field for field with no alias dispatch.
type bundleDTO struct {
	Project  projectDTO         `json:"project"`
	Episodes []bundleEpisodeDTO `json:"episodes"`
}

type bundleEpisodeDTO struct {
	GUID                 string      `json:"guid"`
	Name                 string      `json:"name"`
	Subtitle             string      `json:"subtitle"`
	Description          string      `json:"description"`
	Artwork              *artworkDTO `json:"artwork"`
	Source               *sourceDTO  `json:"source"`
	WatchPositionSeconds *int        `json:"watchPositionSeconds"`
	ProjectSlug          string      `json:"projectSlug"`
	SeasonNumber         int         `json:"seasonNumber"`
	EpisodeNumber        int         `json:"episodeNumber"`
}

type artworkDTO struct {
	Poster string `json:"poster"`
	Thumb  string `json:"thumb"`
	Banner string `json:"banner"`
}

type sourceDTO struct {
	URL             string `json:"url"`
	DurationSeconds int    `json:"durationSeconds"`
}

func mapProject(dto projectDTO) domain.Project {
	p := domain.Project{
		Slug:    dto.Slug,
		Name:    dto.Name,
		Type:    domain.ParseProjectType(dto.Type),
		Seasons: make([]domain.Season, 0, len(dto.Seasons)),
	}
	for _, s := range dto.Seasons {
		season := domain.Season{
			ID:       s.ID,
			Number:   s.Number,
			Episodes: make([]domain.EpisodeStub, 0, len(s.Episodes)),
		}
		for _, e := range s.Episodes {
			season.Episodes = append(season.Episodes, domain.EpisodeStub{
				ID:            e.ID,
				GUID:          e.GUID,
				EpisodeNumber: e.EpisodeNumber,
			})
		}
		p.Seasons = append(p.Seasons, season)
	}
	return p
}

func mapBundleEpisode(dto bundleEpisodeDTO) domain.Episode {
	ep := domain.Episode{
		GUID:          dto.GUID,
		Name:          dto.Name,
		Subtitle:      dto.Subtitle,
		Description:   dto.Description,
		ProjectSlug:   dto.ProjectSlug,
		SeasonNumber:  dto.SeasonNumber,
		EpisodeNumber: dto.EpisodeNumber,
	}
	if dto.Artwork != nil {
		ep.Artwork = domain.Artwork{
			Poster: dto.Artwork.Poster,
			Thumb:  dto.Artwork.Thumb,
			Banner: dto.Artwork.Banner,
		}
	}
	if dto.Source != nil && dto.Source.URL != "" {
		ep.Source = &domain.Source{
			URL:      dto.Source.URL,
			Duration: time.Duration(dto.Source.DurationSeconds) * time.Second,
		}
	}
	if dto.WatchPositionSeconds != nil {
		d := time.Duration(*dto.WatchPositionSeconds) * time.Second
		ep.WatchPosition = &d
	}
	return ep
}
