package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/catchup/internal/adapter"
	"github.com/mbecker/catchup/internal/domain"
)

func indexedService() *Service {
	s := NewService(adapter.NullLogger())
	s.IndexProject(domain.Project{Slug: "the-wire", Name: "The Wire"})
	s.IndexProject(domain.Project{Slug: "wire-in-the-blood", Name: "Wire in the Blood"})
	s.IndexProject(domain.Project{Slug: "treme", Name: "Treme"})
	s.IndexEpisodes([]domain.Episode{
		{GUID: "g1", Name: "The Target", ProjectSlug: "the-wire"},
		{GUID: "g2", Name: "The Detail", ProjectSlug: "the-wire"},
	})
	return s
}

func TestFindMatchesProjectsAndEpisodes(t *testing.T) {
	s := indexedService()

	results := s.Find("wire")
	require.NotEmpty(t, results)

	var slugs []string
	for _, r := range results {
		slugs = append(slugs, r.ProjectSlug)
	}
	assert.Contains(t, slugs, "the-wire")
	assert.Contains(t, slugs, "wire-in-the-blood")
	assert.NotContains(t, slugs, "treme")
}

func TestFindReportsMatchPositions(t *testing.T) {
	s := indexedService()

	results := s.Find("treme")
	require.NotEmpty(t, results)
	assert.Equal(t, "Treme", results[0].Title)
	assert.NotEmpty(t, results[0].MatchedIndexes)
}

func TestFindEmptyQuery(t *testing.T) {
	s := indexedService()
	assert.Nil(t, s.Find(""))
	assert.Nil(t, s.Find("   "))
}

func TestTitlesRanksByDistance(t *testing.T) {
	s := indexedService()

	titles := s.Titles("the wire")
	require.NotEmpty(t, titles)
	assert.Equal(t, "The Wire", titles[0])
}

func TestIndexDeduplicates(t *testing.T) {
	s := NewService(adapter.NullLogger())
	p := domain.Project{Slug: "treme", Name: "Treme"}
	s.IndexProject(p)
	s.IndexProject(p)

	assert.Len(t, s.Find("treme"), 1)
}

func TestClearEmptiesIndex(t *testing.T) {
	s := indexedService()
	s.Clear()
	assert.Nil(t, s.Find("wire"))
}

func TestEmptyTitlesNotIndexed(t *testing.T) {
	s := NewService(adapter.NullLogger())
	s.IndexEpisodes([]domain.Episode{{GUID: "g1", Name: ""}})
	assert.Nil(t, s.Find("anything"))
}
