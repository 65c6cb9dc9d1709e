package catalog

import (
	"strings"

	"github.com/davide/collectarr/internal/domain"
)

// MergeItem folds an incoming item into the existing record sharing its
// key without losing information. Info segments accumulate with a " | "
// separator; quality, language and year are first-to-populate wins, so
// the surviving tag depends on source list order; source labels join
// with commas. Merging the same item twice is a no-op.
func MergeItem(existing, incoming domain.CatalogItem) domain.CatalogItem {
	if incoming.Info != "" && !strings.Contains(existing.Info, incoming.Info) {
		if existing.Info != "" {
			existing.Info = existing.Info + " | " + incoming.Info
		} else {
			existing.Info = incoming.Info
		}
	}
	if existing.Quality == "" && incoming.Quality != "" {
		existing.Quality = incoming.Quality
	}
	if existing.Language == "" && incoming.Language != "" {
		existing.Language = incoming.Language
	}
	if existing.Year == 0 && incoming.Year != 0 {
		existing.Year = incoming.Year
	}
	if incoming.SourceName != "" && !strings.Contains(existing.SourceName, incoming.SourceName) {
		if existing.SourceName != "" {
			existing.SourceName = existing.SourceName + ", " + incoming.SourceName
		} else {
			existing.SourceName = incoming.SourceName
		}
	}
	return existing
}

// MergeInto folds an item into the working map by identity key.
// Items without a usable key are dropped.
func MergeInto(merged map[string]domain.CatalogItem, item domain.CatalogItem) {
	key := item.Key()
	if key == "" {
		return
	}
	if existing, ok := merged[key]; ok {
		merged[key] = MergeItem(existing, item)
	} else {
		merged[key] = item
	}
}
