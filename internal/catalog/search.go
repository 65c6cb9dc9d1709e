package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/davide/collectarr/internal/domain"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/unicode/norm"
)

const (
	defaultMinScore = 78
	infoBlobPrefix  = 200
)

// stopwords are Italian and English articles/prepositions dropped from
// queries before the substring pre-filter.
var stopwords = map[string]bool{
	"il": true, "lo": true, "la": true, "i": true, "gli": true, "le": true,
	"un": true, "una": true, "uno": true,
	"di": true, "da": true, "del": true, "della": true, "dello": true,
	"dei": true, "degli": true, "delle": true,
	"the": true, "a": true, "an": true, "and": true, "of": true,
}

// Index answers free-text queries against the cache store contents.
type Index struct {
	store    *Store
	minScore int
}

// NewIndex creates a search index over store. minScore below 1 falls
// back to the default threshold.
func NewIndex(store *Store, minScore int) *Index {
	if minScore < 1 {
		minScore = defaultMinScore
	}
	return &Index{store: store, minScore: minScore}
}

// Search ranks cached items against query and returns at most
// maxResults items ordered by descending score.
//
// Candidates whose normalized title+info blob does not contain every
// query token as a substring are dropped before the fuzzy pass; that
// bounds the cost of scoring on large caches and removes results
// sharing no vocabulary with the query.
func (ix *Index) Search(query string, maxResults int) []domain.CatalogItem {
	if query == "" {
		return nil
	}

	normalizedQuery := NormalizeText(query)
	var tokens []string
	for _, token := range strings.Fields(normalizedQuery) {
		if !stopwords[token] {
			tokens = append(tokens, token)
		}
	}

	type scoredItem struct {
		item  domain.CatalogItem
		score int
	}
	var matches []scoredItem

	for _, item := range ix.store.Items() {
		blob := NormalizeText(item.Title)
		if item.Info != "" {
			blob += " " + NormalizeText(truncateRunes(item.Info, infoBlobPrefix))
		}
		if !containsAll(blob, tokens) {
			continue
		}
		score := fuzzy.TokenSetRatio(normalizedQuery, blob)
		if score < ix.minScore {
			continue
		}
		matches = append(matches, scoredItem{item: item, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	results := make([]domain.CatalogItem, len(matches))
	for i, m := range matches {
		results[i] = m.item
	}
	return results
}

// NormalizeText decomposes Unicode, lowercases, strips everything that
// is not alphanumeric or whitespace, and collapses whitespace runs.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range strings.ToLower(decomposed) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func containsAll(blob string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(blob, token) {
			return false
		}
	}
	return true
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
