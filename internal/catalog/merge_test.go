package catalog

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davide/collectarr/internal/domain"
)

func TestMergeItemCombinesSources(t *testing.T) {
	existing := domain.CatalogItem{
		Title:      "Foo",
		DetailURL:  "https://forum.example/viewtopic.php?t=1",
		Info:       "ITA",
		SourceName: "Source A",
	}
	incoming := domain.CatalogItem{
		Title:      "Foo",
		DetailURL:  "https://forum.example/viewtopic.php?t=1",
		Info:       "ENG",
		Quality:    "1080p",
		SourceName: "Source B",
	}

	merged := MergeItem(existing, incoming)

	if merged.Info != "ITA | ENG" {
		t.Errorf("expected info \"ITA | ENG\", got %q", merged.Info)
	}
	if merged.Quality != "1080p" {
		t.Errorf("expected quality filled from incoming, got %q", merged.Quality)
	}
	if !strings.Contains(merged.SourceName, "Source A") || !strings.Contains(merged.SourceName, "Source B") {
		t.Errorf("expected both source labels, got %q", merged.SourceName)
	}
}

func TestMergeItemIdempotent(t *testing.T) {
	existing := domain.CatalogItem{
		Title:      "Foo",
		DetailURL:  "https://forum.example/viewtopic.php?t=1",
		Info:       "ITA",
		Quality:    "720p",
		Year:       1999,
		SourceName: "Source A",
	}
	incoming := domain.CatalogItem{
		Title:      "Foo",
		DetailURL:  "https://forum.example/viewtopic.php?t=1",
		Info:       "ENG",
		Quality:    "1080p",
		Year:       2001,
		SourceName: "Source B",
	}

	once := MergeItem(existing, incoming)
	twice := MergeItem(once, incoming)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeItemFirstScalarWins(t *testing.T) {
	existing := domain.CatalogItem{Quality: "720p", Language: "ITA", Year: 1999}
	incoming := domain.CatalogItem{Quality: "1080p", Language: "ENG", Year: 2003}

	merged := MergeItem(existing, incoming)

	if merged.Quality != "720p" || merged.Language != "ITA" || merged.Year != 1999 {
		t.Errorf("populated scalars must not be overwritten: %+v", merged)
	}
}

func TestMergeIntoDropsKeylessItems(t *testing.T) {
	merged := make(map[string]domain.CatalogItem)
	MergeInto(merged, domain.CatalogItem{Title: "No Key"})
	if len(merged) != 0 {
		t.Errorf("keyless item must be dropped, got %v", merged)
	}

	MergeInto(merged, domain.CatalogItem{Title: "By Topic", TopicID: "42"})
	if _, ok := merged["42"]; !ok {
		t.Errorf("topic id must serve as fallback key, got %v", merged)
	}
}
