package search

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/mbecker/catchup/internal/domain"
)

// Entry is one searchable title in the local index
type Entry struct {
	Title       string
	Kind        string // "project" or "episode"
	ProjectSlug string
	GUID        string // empty for projects
}

// Result is a search hit with match metadata for highlighting
type Result struct {
	Entry
	MatchedIndexes []int
	Score          int
}

// index implements sahilm/fuzzy.Source for zero-allocation matching
type index struct {
	entries     []Entry
	lowerTitles []string
}

func (idx *index) String(i int) string { return idx.lowerTitles[i] }
func (idx *index) Len() int            { return len(idx.entries) }

// Service offers fuzzy title lookup over locally indexed content. It reads
// only what the catalog has already handed to the consumer - never the
// remote - so search stays instant and works offline. Like the rest of the
// cache layer it runs in a single logical flow; there is no locking.
type Service struct {
	logger *slog.Logger

	idx     *index
	indexed map[string]bool // dedupe by slug/guid
}

// NewService creates an empty search index
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:  logger,
		idx:     &index{},
		indexed: make(map[string]bool),
	}
}

// IndexProject adds a project title to the index
func (s *Service) IndexProject(project domain.Project) {
	s.add(Entry{
		Title:       project.Name,
		Kind:        "project",
		ProjectSlug: project.Slug,
	}, "p:"+project.Slug)
}

// IndexEpisodes adds episode titles to the index
func (s *Service) IndexEpisodes(episodes []domain.Episode) {
	for _, ep := range episodes {
		s.add(Entry{
			Title:       ep.Name,
			Kind:        "episode",
			ProjectSlug: ep.ProjectSlug,
			GUID:        ep.GUID,
		}, "e:"+ep.GUID)
	}
}

func (s *Service) add(entry Entry, id string) {
	if entry.Title == "" || s.indexed[id] {
		return
	}
	s.indexed[id] = true
	s.idx.entries = append(s.idx.entries, entry)
	s.idx.lowerTitles = append(s.idx.lowerTitles, strings.ToLower(entry.Title))
}

// Clear empties the index
func (s *Service) Clear() {
	s.idx = &index{}
	s.indexed = make(map[string]bool)
	s.logger.Debug("cleared search index")
}

// Find returns indexed entries fuzzy-matching query, best first, with
// matched character positions for highlighting
func (s *Service) Find(query string) []Result {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || s.idx.Len() == 0 {
		return nil
	}

	matches := sahilm.FindFrom(query, s.idx)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Entry:          s.idx.entries[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Titles returns indexed titles ranked against query by Levenshtein
// distance. Coarser than Find but tolerant of transposed words and typos.
func (s *Service) Titles(query string) []string {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	ranks := fuzzy.RankFindFold(query, s.idx.lowerTitles)
	sort.Slice(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	titles := make([]string, 0, len(ranks))
	for _, r := range ranks {
		titles = append(titles, s.idx.entries[r.OriginalIndex].Title)
	}
	return titles
}
