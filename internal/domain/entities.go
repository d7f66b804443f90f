package domain

import (
	"fmt"
	"time"
)

// ProjectType distinguishes top-level content containers
type ProjectType int

const (
	ProjectTypeSeries ProjectType = iota
	ProjectTypeMovie
	ProjectTypeSpecial
	ProjectTypeOther
)

// String returns a human-readable representation of the project type
func (t ProjectType) String() string {
	switch t {
	case ProjectTypeSeries:
		return "series"
	case ProjectTypeMovie:
		return "movie"
	case ProjectTypeSpecial:
		return "special"
	default:
		return "other"
	}
}

// ParseProjectType maps a wire-level type string to a ProjectType.
// Unrecognized values fold into ProjectTypeOther.
func ParseProjectType(s string) ProjectType {
	switch s {
	case "series":
		return ProjectTypeSeries
	case "movie":
		return ProjectTypeMovie
	case "special":
		return ProjectTypeSpecial
	default:
		return ProjectTypeOther
	}
}

// Project is the sparse navigation index for one show/movie/special.
// It carries episode stubs only, never playable or progress data.
// Cached under project:{slug}; mutated only by full replacement.
type Project struct {
	Slug    string      `json:"slug"`
	Name    string      `json:"name"`
	Type    ProjectType `json:"type"`
	Seasons []Season    `json:"seasons"`
}

// Season returns the season with the given number, if present
func (p *Project) Season(number int) (*Season, bool) {
	for i := range p.Seasons {
		if p.Seasons[i].Number == number {
			return &p.Seasons[i], true
		}
	}
	return nil, false
}

// EpisodeCount returns the total number of episode stubs across all seasons
func (p *Project) EpisodeCount() int {
	n := 0
	for _, s := range p.Seasons {
		n += len(s.Episodes)
	}
	return n
}

// Season is a numbered episode grouping nested inside a Project
type Season struct {
	ID       string        `json:"id"`
	Number   int           `json:"number"`
	Episodes []EpisodeStub `json:"episodes"`
}

// GUIDs returns the episode guids for this season, in index order
func (s Season) GUIDs() []string {
	guids := make([]string, len(s.Episodes))
	for i, e := range s.Episodes {
		guids[i] = e.GUID
	}
	return guids
}

// DisplayTitle returns the display title for the season
func (s Season) DisplayTitle() string {
	if s.Number == 0 {
		return "Specials"
	}
	return fmt.Sprintf("Season %d", s.Number)
}

// EpisodeStub is the minimal per-episode record inside a Project index.
// It exists so callers can enumerate guids for batch lookup; it never
// carries playable or progress data.
type EpisodeStub struct {
	ID            string `json:"id"`
	GUID          string `json:"guid"`
	EpisodeNumber int    `json:"episodeNumber"`
}

// Artwork holds the optional image references for an episode.
// Missing images stay empty, never a placeholder URL.
type Artwork struct {
	Poster string `json:"poster,omitempty"`
	Thumb  string `json:"thumb,omitempty"`
	Banner string `json:"banner,omitempty"`
}

// Source is the playable reference for a released episode
type Source struct {
	URL      string        `json:"url"`
	Duration time.Duration `json:"duration"`
}

// Episode is the full playable record for one piece of content.
// Cached under episode:{guid}; replaced wholesale, never partially updated.
// Source is nil for unreleased/unavailable episodes. WatchPosition is nil
// when the episode has never been watched.
type Episode struct {
	GUID          string         `json:"guid"`
	Name          string         `json:"name"`
	Subtitle      string         `json:"subtitle,omitempty"`
	Description   string         `json:"description,omitempty"`
	Artwork       Artwork        `json:"artwork"`
	Source        *Source        `json:"source,omitempty"`
	WatchPosition *time.Duration `json:"watchPosition,omitempty"`
	ProjectSlug   string         `json:"projectSlug"`
	SeasonNumber  int            `json:"seasonNumber"`
	EpisodeNumber int            `json:"episodeNumber"`
}

// Playable reports whether the episode has a source to play
func (e Episode) Playable() bool {
	return e.Source != nil && e.Source.URL != ""
}

// WatchStatus returns the watch status of the episode
func (e Episode) WatchStatus() WatchStatus {
	if e.WatchPosition == nil || *e.WatchPosition <= 0 {
		return WatchStatusUnwatched
	}
	if e.Source != nil && e.Source.Duration > 0 && *e.WatchPosition >= e.Source.Duration {
		return WatchStatusWatched
	}
	return WatchStatusInProgress
}

// ShouldResume returns true if playback should resume from the saved position
func (e Episode) ShouldResume() bool {
	return e.WatchStatus() == WatchStatusInProgress
}

// EpisodeCode returns the formatted episode code (e.g., "S01E05")
func (e Episode) EpisodeCode() string {
	if e.SeasonNumber == 0 && e.EpisodeNumber == 0 {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", e.SeasonNumber, e.EpisodeNumber)
}

// FormattedDuration returns the source duration in a human-readable format
func (e Episode) FormattedDuration() string {
	if e.Source == nil {
		return ""
	}
	h := int(e.Source.Duration.Hours())
	mins := int(e.Source.Duration.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// Bundle is a self-contained fresh response for one project: index plus
// full episode records with live positions. Trusted as fresher than any
// cache entry; written with blind overwrites.
type Bundle struct {
	Project  Project   `json:"project"`
	Episodes []Episode `json:"episodes"`
}

// WatchStatus represents the viewing state of an episode
type WatchStatus int

const (
	WatchStatusUnwatched WatchStatus = iota
	WatchStatusInProgress
	WatchStatusWatched
)

// String returns a human-readable representation of the watch status
func (w WatchStatus) String() string {
	switch w {
	case WatchStatusUnwatched:
		return "Unwatched"
	case WatchStatusInProgress:
		return "In Progress"
	case WatchStatusWatched:
		return "Watched"
	default:
		return "Unknown"
	}
}
