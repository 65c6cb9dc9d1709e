package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/davide/collectarr/internal/domain"
)

func testItems() map[string]domain.CatalogItem {
	items := map[string]domain.CatalogItem{}
	a := domain.CatalogItem{Title: "Città di Dio", DetailURL: "https://forum.example/viewtopic.php?t=1", TopicID: "1"}
	b := domain.CatalogItem{Title: "Monster", DetailURL: "https://forum.example/viewtopic.php?t=2", TopicID: "2"}
	items[a.Key()] = a
	items[b.Key()] = b
	return items
}

func sortedKeys(items []domain.CatalogItem) []string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key()
	}
	sort.Strings(keys)
	return keys
}

func TestStorePersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	first := NewStore(path, nil)
	first.Replace(testItems(), 2)

	second := NewStore(path, nil)
	status := second.Status()
	if status.Count != 2 {
		t.Fatalf("expected 2 items after reload, got %d", status.Count)
	}
	if status.Sources != 2 {
		t.Errorf("expected 2 sources after reload, got %d", status.Sources)
	}
	if status.UpdatedAt == nil {
		t.Errorf("expected updated_at to survive reload")
	}

	wantKeys := sortedKeys(first.Items())
	gotKeys := sortedKeys(second.Items())
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("key mismatch after reload: got %v, want %v", gotKeys, wantKeys)
			break
		}
	}
}

func TestStoreEscapesNonASCIIOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	store := NewStore(path, nil)
	store.Replace(testItems(), 1)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	for _, b := range data {
		if b >= 0x80 {
			t.Fatalf("cache file contains unescaped non-ASCII byte %#x", b)
		}
	}
	if !strings.Contains(string(data), `Citt\u00e0`) {
		t.Errorf("expected escaped title in cache file")
	}
}

func TestStoreSkipsMalformedRecordsOnLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	payload := `{
		"updated_at": "2025-05-01T10:00:00Z",
		"sources": 3,
		"items": [
			{"title": "Good", "detail_url": "https://forum.example/viewtopic.php?t=1"},
			{"title": 12345},
			"not an object",
			{"title": "Keyless"}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	status := store.Status()
	if status.Count != 1 {
		t.Errorf("expected only the valid keyed record, got %d", status.Count)
	}
	if status.Sources != 3 {
		t.Errorf("expected sources carried from disk, got %d", status.Sources)
	}
	if status.UpdatedAt == nil {
		t.Errorf("expected parsed updated_at")
	}
}

func TestStoreToleratesMissingAndMalformedFile(t *testing.T) {
	missing := NewStore(filepath.Join(t.TempDir(), "nope.json"), nil)
	if status := missing.Status(); status.Count != 0 {
		t.Errorf("missing file must yield empty store, got %d", status.Count)
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	broken := NewStore(path, nil)
	if status := broken.Status(); status.Count != 0 {
		t.Errorf("malformed file must yield empty store, got %d", status.Count)
	}
}

func TestStoreReplaceWinsOverStaleDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	stale := `{"updated_at": "2020-01-01T00:00:00Z", "sources": 9, "items": [
		{"title": "Stale", "detail_url": "https://forum.example/viewtopic.php?t=99"}
	]}`
	if err := os.WriteFile(path, []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	store.Replace(testItems(), 2)

	status := store.Status()
	if status.Count != 2 || status.Sources != 2 {
		t.Errorf("fresh snapshot clobbered by stale disk read: %+v", status)
	}
}
