package normalize

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mbecker/catchup/internal/domain"
)

// aliasTable maps canonical episode fields to the names one content kind
// uses on the wire. Adding a new kind means adding one table entry here;
// no call site changes.
type aliasTable struct {
	guid        string
	name        string
	subtitle    string
	description string
	artwork     string // nested object: {poster, thumb, banner}
	source      string // nested object: {url, durationSeconds}
	position    string // watch position in seconds

	// season number lives either inside a nested object holding just an id
	// and a number, or as a flat field, depending on kind
	seasonObj     string
	seasonNumber  string
	episodeNumber string
	projectSlug   string
}

var kinds = map[string]aliasTable{
	"episode": {
		guid:          "guid",
		name:          "title",
		subtitle:      "subtitle",
		description:   "synopsis",
		artwork:       "images",
		source:        "media",
		position:      "watchPositionSeconds",
		seasonObj:     "season",
		episodeNumber: "episodeNumber",
		projectSlug:   "projectSlug",
	},
	"special": {
		guid:          "mediaGuid",
		name:          "name",
		subtitle:      "secondaryTitle",
		description:   "description",
		artwork:       "artwork",
		source:        "asset",
		position:      "resumePointSeconds",
		seasonNumber:  "seasonNumber",
		episodeNumber: "number",
		projectSlug:   "showSlug",
	},
	"movie": {
		guid:        "contentId",
		name:        "title",
		subtitle:    "tagline",
		description: "summary",
		artwork:     "images",
		source:      "video",
		position:    "positionSeconds",
		projectSlug: "projectSlug",
	},
}

var (
	errUnknownKind = errors.New("unknown content kind")
	errMissingGUID = errors.New("node has no guid")
)

// wire shapes shared by all kinds once the alias table has located them
type wireArtwork struct {
	Poster string `json:"poster"`
	Thumb  string `json:"thumb"`
	Banner string `json:"banner"`
}

type wireSource struct {
	URL             string `json:"url"`
	DurationSeconds int    `json:"durationSeconds"`
}

type wireSeason struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}

// Episode converts one raw node into a canonical domain.Episode.
// Unknown kinds and guid-less nodes return a NormalizationError; callers
// that can tolerate partial result sets should use Episodes instead.
func Episode(node Node) (domain.Episode, error) {
	table, ok := kinds[node.Kind]
	if !ok {
		return domain.Episode{}, &domain.NormalizationError{Kind: node.Kind, Err: errUnknownKind}
	}

	guid := node.str(table.guid)
	if guid == "" {
		return domain.Episode{}, &domain.NormalizationError{Kind: node.Kind, Err: errMissingGUID}
	}

	ep := domain.Episode{
		GUID:        guid,
		Name:        node.str(table.name),
		Subtitle:    node.str(table.subtitle),
		Description: node.str(table.description),
		ProjectSlug: node.str(table.projectSlug),
	}

	// Absent artwork stays zero; an unreleased episode simply has no images
	var art wireArtwork
	if node.obj(table.artwork, &art) {
		ep.Artwork = domain.Artwork{Poster: art.Poster, Thumb: art.Thumb, Banner: art.Banner}
	}

	// A missing source means the episode is not (yet) playable
	var src wireSource
	if node.obj(table.source, &src) && src.URL != "" {
		ep.Source = &domain.Source{
			URL:      src.URL,
			Duration: time.Duration(src.DurationSeconds) * time.Second,
		}
	}

	if pos, ok := node.intField(table.position); ok {
		d := time.Duration(pos) * time.Second
		ep.WatchPosition = &d
	}

	// Flatten the one level of season nesting some kinds carry
	if table.seasonObj != "" {
		var season wireSeason
		if node.obj(table.seasonObj, &season) {
			ep.SeasonNumber = season.Number
		}
	} else if num, ok := node.intField(table.seasonNumber); ok {
		ep.SeasonNumber = num
	}

	if num, ok := node.intField(table.episodeNumber); ok {
		ep.EpisodeNumber = num
	}

	return ep, nil
}

// Episodes converts a batch of raw nodes, skipping any that match no known
// shape. Skips are logged as warnings, never surfaced: the remote mixes
// kinds freely and callers must tolerate partial result sets.
func Episodes(nodes []Node, logger *slog.Logger) []domain.Episode {
	if logger == nil {
		logger = slog.Default()
	}

	episodes := make([]domain.Episode, 0, len(nodes))
	for _, node := range nodes {
		ep, err := Episode(node)
		if err != nil {
			logger.Warn("skipping unrecognized node", "kind", node.Kind, "error", err)
			continue
		}
		episodes = append(episodes, ep)
	}
	return episodes
}
