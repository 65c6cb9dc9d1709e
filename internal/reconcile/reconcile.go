// Package reconcile decides whether locally tracked title/year records
// already exist in Radarr or Sonarr, pairing upstream lookups with the
// similarity matcher.
package reconcile

import (
	"context"

	"github.com/davide/collectarr/internal/logger"
	"github.com/davide/collectarr/internal/match"
)

// MovieLookup searches an upstream movie index by title and optional year.
type MovieLookup interface {
	Lookup(ctx context.Context, term string, year int) ([]match.Candidate, error)
}

// SeriesLookup searches an upstream series index by title.
type SeriesLookup interface {
	Lookup(ctx context.Context, term string) ([]match.Candidate, error)
}

// Service runs per-record reconciliation.
type Service struct {
	movies MovieLookup
	series SeriesLookup
	log    *logger.Logger
}

// NewService creates a reconciliation service.
func NewService(movies MovieLookup, series SeriesLookup, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Service{
		movies: movies,
		series: series,
		log:    log.WithField(logger.FieldComponent, "reconcile"),
	}
}

// MatchMovie finds the best Radarr candidate for (title, year). A
// year-narrowed lookup that comes back empty is retried without the
// year so near-miss release years still produce a best guess.
func (s *Service) MatchMovie(ctx context.Context, title string, year int) (*match.Result, error) {
	candidates, err := s.movies.Lookup(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 && year != 0 {
		candidates, err = s.movies.Lookup(ctx, title, 0)
		if err != nil {
			return nil, err
		}
	}
	return match.BestMatch(title, year, candidates), nil
}

// MatchSeries finds the best Sonarr candidate for (title, year).
func (s *Service) MatchSeries(ctx context.Context, title string, year int) (*match.Result, error) {
	candidates, err := s.series.Lookup(ctx, title)
	if err != nil {
		return nil, err
	}
	return match.BestMatch(title, year, candidates), nil
}
