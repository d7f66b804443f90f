package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/catchup/internal/adapter"
	"github.com/mbecker/catchup/internal/domain"
)

func TestGetProjectDecodesSparseIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/the-wire", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"slug": "the-wire",
			"name": "The Wire",
			"type": "series",
			"seasons": [
				{"id": "s1", "number": 1, "episodes": [
					{"id": "e1", "guid": "g1", "episodeNumber": 1},
					{"id": "e2", "guid": "g2", "episodeNumber": 2}
				]}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, adapter.NullLogger())

	p, err := c.GetProject(context.Background(), "the-wire")
	require.NoError(t, err)
	assert.Equal(t, "The Wire", p.Name)
	assert.Equal(t, domain.ProjectTypeSeries, p.Type)
	require.Len(t, p.Seasons, 1)
	assert.Equal(t, []string{"g1", "g2"}, p.Seasons[0].GUIDs())
}

func TestGetEpisodesNormalizesMixedKinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/episodes", r.URL.Path)
		assert.Equal(t, "g1,g2,g3", r.URL.Query().Get("guids"))
		w.Write([]byte(`{"episodes": [
			{"kind": "episode", "guid": "g1", "title": "One", "subtitle": "sub one", "season": {"number": 1}},
			{"kind": "special", "mediaGuid": "g2", "name": "Two", "secondaryTitle": "sub two", "seasonNumber": 0},
			{"kind": "hologram", "guid": "g3"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, adapter.NullLogger())

	eps, err := c.GetEpisodes(context.Background(), []string{"g1", "g2", "g3"})
	require.NoError(t, err)
	require.Len(t, eps, 2, "the unknown kind is skipped, siblings survive")
	assert.Equal(t, "sub one", eps[0].Subtitle)
	assert.Equal(t, "sub two", eps[1].Subtitle)
}

func TestGetEpisodesEmptyGuidListSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, adapter.NullLogger())
	eps, err := c.GetEpisodes(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, eps)
	assert.False(t, called)
}

func TestGetFreshBundleMapsCanonicalShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/the-wire/bundle", r.URL.Path)
		w.Write([]byte(`{
			"project": {"slug": "the-wire", "name": "The Wire", "type": "series", "seasons": []},
			"episodes": [{
				"guid": "g1",
				"name": "Pilot",
				"source": {"url": "https://cdn.example.com/g1.m3u8", "durationSeconds": 3600},
				"watchPositionSeconds": 600,
				"projectSlug": "the-wire",
				"seasonNumber": 1,
				"episodeNumber": 1
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, adapter.NullLogger())

	b, err := c.GetFreshBundle(context.Background(), "the-wire")
	require.NoError(t, err)
	assert.Equal(t, "The Wire", b.Project.Name)
	require.Len(t, b.Episodes, 1)

	ep := b.Episodes[0]
	require.NotNil(t, ep.Source)
	assert.Equal(t, time.Hour, ep.Source.Duration)
	require.NotNil(t, ep.WatchPosition)
	assert.Equal(t, 10*time.Minute, *ep.WatchPosition)
}

func TestNotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, adapter.NullLogger())

	_, err := c.GetProject(context.Background(), "ghost")
	var fetchErr *domain.RemoteFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnauthorizedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", time.Second, adapter.NullLogger())

	_, err := c.GetProject(context.Background(), "the-wire")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestUnreachableRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "tok", time.Second, adapter.NullLogger())

	_, err := c.GetProject(context.Background(), "the-wire")
	var fetchErr *domain.RemoteFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, adapter.NullLogger())

	for i := 0; i < 5; i++ {
		_, err := c.GetProject(context.Background(), "the-wire")
		require.Error(t, err)
	}

	assert.Equal(t, 3, calls, "after three consecutive failures the breaker fails fast")

	// Open breaker reads as remote-unavailable to callers
	_, err := c.GetProject(context.Background(), "the-wire")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}
