// Package match scores a locally tracked title/year pair against
// upstream lookup candidates and classifies whether the best hit can be
// accepted without review. It is schema-agnostic: Radarr movie results
// and Sonarr series results both reduce to title + year + external id.
package match

import (
	"math"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	confidenceThreshold = 0.90
	yearTolerance       = 1
)

// Candidate is one upstream lookup result.
type Candidate struct {
	ExternalID int64
	Title      string
	Year       int // 0 when the upstream record carries no year
}

// Result describes the best candidate for a local record. It is
// returned regardless of confidence; callers decide what to do with a
// low-confidence best guess.
type Result struct {
	ExternalID int64   `json:"external_id"`
	Title      string  `json:"title"`
	Year       int     `json:"year,omitempty"`
	Score      float64 `json:"score"`
	Confident  bool    `json:"confident"`
}

// BestMatch selects the highest-scoring candidate for (title, year).
// Returns nil when there are no candidates or no candidate shares any
// similarity with the title. Confident requires a similarity of at
// least 0.90 and, when the local year is known, a candidate year within
// one year of it.
func BestMatch(title string, year int, candidates []Candidate) *Result {
	normalized := normalizeTitle(title)

	var best *Candidate
	bestScore := 0.0
	for i := range candidates {
		score := titleRatio(normalized, normalizeTitle(candidates[i].Title))
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}
	if best == nil {
		return nil
	}

	yearOK := year == 0 || (best.Year != 0 && abs(best.Year-year) <= yearTolerance)
	return &Result{
		ExternalID: best.ExternalID,
		Title:      best.Title,
		Year:       best.Year,
		Score:      math.Round(bestScore*1000) / 1000,
		Confident:  bestScore >= confidenceThreshold && yearOK,
	}
}

// normalizeTitle lowercases and keeps only alphanumerics and spaces.
func normalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// titleRatio computes the character-level sequence similarity of two
// normalized titles in [0.0, 1.0].
func titleRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
