package match

import (
	"math"
	"testing"
)

func TestBestMatchExact(t *testing.T) {
	candidates := []Candidate{
		{ExternalID: 603, Title: "The Matrix", Year: 1999},
		{ExternalID: 604, Title: "The Matrix Reloaded", Year: 2003},
	}

	result := BestMatch("The Matrix", 1999, candidates)
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.ExternalID != 603 {
		t.Errorf("expected external id 603, got %d", result.ExternalID)
	}
	if result.Score != 1.0 {
		t.Errorf("expected score 1.0, got %v", result.Score)
	}
	if !result.Confident {
		t.Error("exact title and year must be confident")
	}
}

func TestBestMatchPicksHighestScore(t *testing.T) {
	candidates := []Candidate{
		{ExternalID: 1, Title: "Completely Different", Year: 1999},
		{ExternalID: 2, Title: "The Matrix Reloaded", Year: 2003},
	}

	result := BestMatch("The Matrix", 1999, candidates)
	if result == nil {
		t.Fatal("expected a match")
	}
	if result.ExternalID != 2 {
		t.Errorf("expected the closer title, got id %d", result.ExternalID)
	}
	// ratio("the matrix", "the matrix reloaded") = 2*10/29
	if result.Score != 0.69 {
		t.Errorf("expected score 0.69, got %v", result.Score)
	}
	if result.Confident {
		t.Error("sub-threshold similarity must not be confident")
	}
}

func TestBestMatchNormalizesPunctuationAndCase(t *testing.T) {
	result := BestMatch("Akira!", 1988, []Candidate{
		{ExternalID: 5, Title: "AKIRA", Year: 1988},
	})
	if result == nil || result.Score != 1.0 || !result.Confident {
		t.Errorf("punctuation and case must not affect the score: %+v", result)
	}
}

func TestBestMatchYearGate(t *testing.T) {
	tests := []struct {
		name          string
		localYear     int
		candidateYear int
		confident     bool
	}{
		{"same year", 1999, 1999, true},
		{"one year off", 1999, 2000, true},
		{"two years off", 1999, 2001, false},
		{"unknown local year", 0, 2010, true},
		{"unknown candidate year", 1999, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BestMatch("The Matrix", tt.localYear, []Candidate{
				{ExternalID: 1, Title: "The Matrix", Year: tt.candidateYear},
			})
			if result == nil {
				t.Fatal("expected a match")
			}
			if result.Confident != tt.confident {
				t.Errorf("confident = %v, want %v", result.Confident, tt.confident)
			}
		})
	}
}

func TestBestMatchNoCandidates(t *testing.T) {
	if result := BestMatch("The Matrix", 1999, nil); result != nil {
		t.Errorf("expected nil for empty candidates, got %+v", result)
	}
}

func TestBestMatchZeroSimilarity(t *testing.T) {
	if result := BestMatch("abc", 0, []Candidate{{ExternalID: 1, Title: "xyz"}}); result != nil {
		t.Errorf("expected nil when nothing scores above zero, got %+v", result)
	}
}

func TestBestMatchScoreRounding(t *testing.T) {
	result := BestMatch("abcdef", 0, []Candidate{{ExternalID: 1, Title: "abcdxx"}})
	if result == nil {
		t.Fatal("expected a match")
	}
	// ratio = 2*4/12, rounded to three decimals
	if math.Abs(result.Score-0.667) > 1e-9 {
		t.Errorf("expected rounded score 0.667, got %v", result.Score)
	}
}
