// Package arr provides thin lookup clients for Radarr and Sonarr. Their
// results feed the reconciliation matcher; the clients themselves carry
// no matching logic.
package arr

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/davide/collectarr/internal/match"
)

const defaultTimeout = 15 * time.Second

// ErrNotConfigured is returned when a client is used without a base URL.
var ErrNotConfigured = errors.New("arr: service URL not configured")

// Config holds the connection settings for one *arr instance.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Radarr is a movie lookup client against the Radarr v3 API.
type Radarr struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

type movieLookupResult struct {
	Title   string `json:"title"`
	Year    int    `json:"year"`
	TmdbID  int64  `json:"tmdbId"`
	ImdbID  string `json:"imdbId"`
	HasFile bool   `json:"hasFile"`
}

// NewRadarr creates a Radarr client.
func NewRadarr(cfg *Config) *Radarr {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("X-Api-Key", cfg.APIKey)

	return &Radarr{
		http:    client,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// Lookup searches Radarr for a movie by title. When year is non-zero,
// results are narrowed to that exact year; callers retry without the
// year if the narrowed list comes back empty.
func (r *Radarr) Lookup(ctx context.Context, term string, year int) ([]match.Candidate, error) {
	if r.baseURL == "" {
		return nil, ErrNotConfigured
	}

	var results []movieLookupResult
	resp, err := r.http.R().
		SetContext(ctx).
		SetQueryParam("term", term).
		SetResult(&results).
		Get(r.baseURL + "/api/v3/movie/lookup")
	if err != nil {
		return nil, fmt.Errorf("radarr lookup %q: %w", term, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("radarr lookup %q: status %d", term, resp.StatusCode())
	}

	var candidates []match.Candidate
	for _, m := range results {
		if year != 0 && m.Year != year {
			continue
		}
		candidates = append(candidates, match.Candidate{
			ExternalID: m.TmdbID,
			Title:      m.Title,
			Year:       m.Year,
		})
	}
	return candidates, nil
}

// TestConnection checks the Radarr system status endpoint.
func (r *Radarr) TestConnection(ctx context.Context) (bool, string) {
	if r.baseURL == "" {
		return false, "radarr URL not configured"
	}
	resp, err := r.http.R().SetContext(ctx).Get(r.baseURL + "/api/v3/system/status")
	if err != nil {
		return false, fmt.Sprintf("radarr error: %v", err)
	}
	code := resp.StatusCode()
	if code == 401 {
		return false, "radarr: invalid API key"
	}
	return code == 200, "radarr status: " + strconv.Itoa(code)
}
