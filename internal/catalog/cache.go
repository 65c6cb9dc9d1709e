package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/davide/collectarr/internal/domain"
	"github.com/davide/collectarr/internal/logger"
)

// Status summarizes the cache without copying item contents.
type Status struct {
	Count     int        `json:"count"`
	Sources   int        `json:"sources"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Store holds the authoritative catalog snapshot behind a mutex and
// mirrors it to a JSON file at path. The in-memory map stays
// authoritative for the running process: disk writes are best-effort
// and disk reads only hydrate a still-empty store.
type Store struct {
	mu        sync.Mutex
	items     map[string]domain.CatalogItem
	sources   int
	updatedAt *time.Time
	path      string
	log       *logger.Logger
}

// diskSnapshot is the persisted cache document. Items are kept as raw
// messages on load so one malformed record does not abort the whole read.
type diskSnapshot struct {
	UpdatedAt *string           `json:"updated_at"`
	Sources   int               `json:"sources"`
	Items     []json.RawMessage `json:"items"`
}

// NewStore creates a Store persisting to path.
func NewStore(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Store{
		items: make(map[string]domain.CatalogItem),
		path:  path,
		log:   log.WithField(logger.FieldComponent, "cache"),
	}
}

// Replace atomically swaps the snapshot with the merged map of a
// completed refresh run and persists it. A persistence failure is
// logged, not propagated.
func (s *Store) Replace(items map[string]domain.CatalogItem, sources int) {
	now := time.Now().UTC()

	s.mu.Lock()
	s.items = items
	s.sources = sources
	s.updatedAt = &now
	payload, err := s.encodeLocked()
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).Error("Failed to encode catalog cache")
		return
	}
	if err := s.writeFile(payload); err != nil {
		s.log.WithError(err).Error("Failed to persist catalog cache")
	}
}

// Status returns the current cache summary, hydrating from disk first
// if the store is still empty.
func (s *Store) Status() Status {
	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Count:     len(s.items),
		Sources:   s.sources,
		UpdatedAt: s.updatedAt,
	}
}

// Items returns a copy of the cached items for read-only use.
func (s *Store) Items() []domain.CatalogItem {
	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.CatalogItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return items
}

// ensureLoaded lazily hydrates the store from disk. It only installs the
// loaded map while the store is still empty, so a refresh that completed
// between the read and the install always wins over the stale file.
func (s *Store) ensureLoaded() {
	s.mu.Lock()
	empty := len(s.items) == 0 && s.updatedAt == nil
	s.mu.Unlock()
	if !empty {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var payload diskSnapshot
	if err := json.Unmarshal(data, &payload); err != nil {
		s.log.WithError(err).Warn("Catalog cache file is malformed, ignoring")
		return
	}

	items := make(map[string]domain.CatalogItem, len(payload.Items))
	for _, raw := range payload.Items {
		var item domain.CatalogItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if key := item.Key(); key != "" {
			items[key] = item
		}
	}

	var updatedAt *time.Time
	if payload.UpdatedAt != nil {
		if parsed, err := time.Parse(time.RFC3339, *payload.UpdatedAt); err == nil {
			updatedAt = &parsed
		}
	}

	s.mu.Lock()
	if len(s.items) == 0 && s.updatedAt == nil {
		s.items = items
		s.sources = payload.Sources
		s.updatedAt = updatedAt
		s.log.WithField(logger.FieldCount, len(items)).Info("Catalog cache loaded from disk")
	}
	s.mu.Unlock()
}

// encodeLocked serializes the snapshot; the caller must hold the lock.
// Non-ASCII characters are escaped to keep the file byte-compatible
// with caches written by earlier deployments.
func (s *Store) encodeLocked() ([]byte, error) {
	var updatedAt *string
	if s.updatedAt != nil {
		formatted := s.updatedAt.Format(time.RFC3339)
		updatedAt = &formatted
	}

	items := make([]json.RawMessage, 0, len(s.items))
	for _, item := range s.items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode item %q: %w", item.Key(), err)
		}
		items = append(items, raw)
	}

	data, err := json.Marshal(diskSnapshot{
		UpdatedAt: updatedAt,
		Sources:   s.sources,
		Items:     items,
	})
	if err != nil {
		return nil, err
	}
	return escapeNonASCII(data), nil
}

func (s *Store) writeFile(payload []byte) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, payload, 0644)
}

// escapeNonASCII rewrites characters above 0x7F as \uXXXX escapes,
// using surrogate pairs outside the BMP.
func escapeNonASCII(data []byte) []byte {
	ascii := true
	for _, b := range data {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return data
	}

	var out []byte
	for _, r := range string(data) {
		switch {
		case r < 0x80:
			out = append(out, byte(r))
		case r <= 0xFFFF:
			out = append(out, []byte(fmt.Sprintf(`\u%04x`, r))...)
		default:
			r -= 0x10000
			high := 0xD800 + (r >> 10)
			low := 0xDC00 + (r & 0x3FF)
			out = append(out, []byte(fmt.Sprintf(`\u%04x\u%04x`, high, low))...)
		}
	}
	return out
}
