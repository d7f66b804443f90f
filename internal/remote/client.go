package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mbecker/catchup/internal/domain"
	"github.com/mbecker/catchup/internal/normalize"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Catchup/1.0"
)

// Client implements domain.ContentAPI over HTTP. Requests run through a
// circuit breaker so a down remote trips fast on cache-miss paths instead
// of paying the full timeout per call.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a content service client
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "content-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("content api breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// doRequest performs an authenticated GET through the circuit breaker
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	c.logger.Debug("content api request", "url", reqURL)

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, domain.ErrRemoteUnavailable
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			return data, nil
		case http.StatusUnauthorized:
			return nil, domain.ErrAuthFailed
		case http.StatusNotFound:
			return nil, domain.ErrNotFound
		default:
			c.logger.Error("content api error", "status", resp.StatusCode, "url", reqURL)
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, domain.ErrRemoteUnavailable
		}
		return nil, err
	}
	return body.([]byte), nil
}

// GetProject returns the sparse navigation index for one project
func (c *Client) GetProject(ctx context.Context, slug string) (*domain.Project, error) {
	body, err := c.doRequest(ctx, "/v1/projects/"+url.PathEscape(slug), nil)
	if err != nil {
		return nil, &domain.RemoteFetchError{Op: "project", Err: err}
	}

	var dto projectDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, &domain.RemoteFetchError{Op: "project", Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	project := mapProject(dto)
	c.logger.Debug("fetched project", "slug", slug, "seasons", len(project.Seasons))
	return &project, nil
}

// GetEpisodes batch-fetches full episode records by guid. The response mixes
// node shapes; nodes that match no known shape are skipped by the normalizer
// and the survivors returned.
func (c *Client) GetEpisodes(ctx context.Context, guids []string) ([]domain.Episode, error) {
	if len(guids) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("guids", strings.Join(guids, ","))

	body, err := c.doRequest(ctx, "/v1/episodes", query)
	if err != nil {
		return nil, &domain.RemoteFetchError{Op: "episodes", Err: err}
	}

	var dto episodesDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, &domain.RemoteFetchError{Op: "episodes", Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	episodes := normalize.Episodes(dto.Episodes, c.logger)
	c.logger.Debug("fetched episodes", "requested", len(guids), "returned", len(episodes))
	return episodes, nil
}

// GetFreshBundle returns the self-contained fresh bundle for one project
func (c *Client) GetFreshBundle(ctx context.Context, slug string) (*domain.Bundle, error) {
	body, err := c.doRequest(ctx, "/v1/projects/"+url.PathEscape(slug)+"/bundle", nil)
	if err != nil {
		return nil, &domain.RemoteFetchError{Op: "bundle", Err: err}
	}

	var dto bundleDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, &domain.RemoteFetchError{Op: "bundle", Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	bundle := domain.Bundle{
		Project:  mapProject(dto.Project),
		Episodes: make([]domain.Episode, 0, len(dto.Episodes)),
	}
	for _, ep := range dto.Episodes {
		bundle.Episodes = append(bundle.Episodes, mapBundleEpisode(ep))
	}

	c.logger.Debug("fetched bundle", "slug", slug, "episodes", len(bundle.Episodes))
	return &bundle, nil
}
