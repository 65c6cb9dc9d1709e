package catalog

import (
	"path/filepath"
	"testing"

	"github.com/davide/collectarr/internal/domain"
)

func searchStore(t *testing.T, titles ...string) *Store {
	t.Helper()
	items := make(map[string]domain.CatalogItem, len(titles))
	for i, title := range titles {
		item := domain.CatalogItem{
			Title:     title,
			DetailURL: "https://forum.example/viewtopic.php?t=" + string(rune('a'+i)),
		}
		items[item.Key()] = item
	}
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	store.Replace(items, 1)
	return store
}

func TestSearchRecall(t *testing.T) {
	store := searchStore(t, "Attack on Titan", "Monster", "Vinland Saga")
	index := NewIndex(store, 0)

	results := index.Search("attack on titan", 10)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Title != "Attack on Titan" {
		t.Errorf("unexpected result %q", results[0].Title)
	}

	if results := index.Search("completely unrelated string", 10); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestSearchIgnoresStopwordsAndAccents(t *testing.T) {
	store := searchStore(t, "Città di Dio")
	index := NewIndex(store, 0)

	// "la" is a stopword, the accent folds away during normalization
	results := index.Search("la citta di dio", 10)
	if len(results) != 1 {
		t.Fatalf("expected accent-insensitive match, got %d results", len(results))
	}
}

func TestSearchMatchesInfoPrefix(t *testing.T) {
	item := domain.CatalogItem{
		Title:     "Serie Sconosciuta",
		DetailURL: "https://forum.example/viewtopic.php?t=9",
		Info:      "Stagione completa 1080p sottotitoli inglese",
	}
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	store.Replace(map[string]domain.CatalogItem{item.Key(): item}, 1)
	index := NewIndex(store, 0)

	// the token pre-filter consults info text, the ranking still has to pass
	if results := index.Search("serie sconosciuta 1080p", 10); len(results) != 1 {
		t.Errorf("expected info tokens to satisfy the pre-filter, got %d results", len(results))
	}
}

func TestSearchCapsResults(t *testing.T) {
	store := searchStore(t,
		"Naruto Episodio 1",
		"Naruto Episodio 2",
		"Naruto Episodio 3",
	)
	index := NewIndex(store, 0)

	if results := index.Search("naruto episodio", 2); len(results) != 2 {
		t.Errorf("expected capped result count 2, got %d", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	index := NewIndex(searchStore(t, "Qualcosa"), 0)
	if results := index.Search("", 10); results != nil {
		t.Errorf("expected nil for empty query, got %v", results)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Città di Dio!", "citta di dio"},
		{"  MULTI   space\tmix ", "multi space mix"},
		{"L'Attacco dei Giganti", "lattacco dei giganti"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
