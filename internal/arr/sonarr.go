package arr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/davide/collectarr/internal/match"
)

// Sonarr is a series lookup client against the Sonarr v3 API.
type Sonarr struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

type seriesLookupResult struct {
	Title     string `json:"title"`
	Year      int    `json:"year"`
	TvdbID    int64  `json:"tvdbId"`
	ImdbID    string `json:"imdbId"`
	TitleSlug string `json:"titleSlug"`
}

// NewSonarr creates a Sonarr client.
func NewSonarr(cfg *Config) *Sonarr {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("X-Api-Key", cfg.APIKey)

	return &Sonarr{
		http:    client,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// Lookup searches Sonarr for a series by title. The series lookup
// endpoint has no year filter; year proximity is judged by the matcher.
func (s *Sonarr) Lookup(ctx context.Context, term string) ([]match.Candidate, error) {
	if s.baseURL == "" {
		return nil, ErrNotConfigured
	}

	var results []seriesLookupResult
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("term", term).
		SetResult(&results).
		Get(s.baseURL + "/api/v3/series/lookup")
	if err != nil {
		return nil, fmt.Errorf("sonarr lookup %q: %w", term, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("sonarr lookup %q: status %d", term, resp.StatusCode())
	}

	var candidates []match.Candidate
	for _, r := range results {
		candidates = append(candidates, match.Candidate{
			ExternalID: r.TvdbID,
			Title:      r.Title,
			Year:       r.Year,
		})
	}
	return candidates, nil
}

// TestConnection checks the Sonarr system status endpoint.
func (s *Sonarr) TestConnection(ctx context.Context) (bool, string) {
	if s.baseURL == "" {
		return false, "sonarr URL not configured"
	}
	resp, err := s.http.R().SetContext(ctx).Get(s.baseURL + "/api/v3/system/status")
	if err != nil {
		return false, fmt.Sprintf("sonarr error: %v", err)
	}
	code := resp.StatusCode()
	if code == 401 {
		return false, "sonarr: invalid API key"
	}
	return code == 200, "sonarr status: " + strconv.Itoa(code)
}
