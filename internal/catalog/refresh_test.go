package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/davide/collectarr/internal/domain"
)

type fakeSources struct {
	sources []domain.ListSource
	err     error
}

func (f *fakeSources) ListEnabled(ctx context.Context) ([]domain.ListSource, error) {
	return f.sources, f.err
}

// fakeFetcher serves canned list pages keyed by URL. When gate is set,
// every FetchPage call blocks until the gate channel is closed.
type fakeFetcher struct {
	pages   map[string]string
	errs    map[string]error
	gate    chan struct{}
	fetches atomic.Int64
}

func (f *fakeFetcher) Login(ctx context.Context) error { return nil }

func (f *fakeFetcher) BaseURL() string { return "https://forum.example" }

func (f *fakeFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	f.fetches.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

func listPage(topics ...int) string {
	var b strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&b, `<a class="postlink-local" href="./viewtopic.php?f=1&t=%d">Titolo Numero %d</a>`+"\n", t, t)
	}
	return b.String()
}

func waitIdle(t *testing.T, c *Coordinator) domain.RefreshState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if state := c.Status(); !state.Running {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("refresh did not finish in time")
	return domain.RefreshState{}
}

func TestRefreshCompletes(t *testing.T) {
	sources := &fakeSources{sources: []domain.ListSource{
		{Name: "Source A", URL: "https://forum.example/a"},
		{Name: "Source B", URL: "https://forum.example/b"},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://forum.example/a": listPage(1, 3),
		"https://forum.example/b": listPage(2, 3),
	}}
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	c := NewCoordinator(sources, fetcher, store, nil)

	if state := c.Start(); !state.Running {
		t.Fatal("Start must report a running state")
	}
	state := waitIdle(t, c)

	if state.ProcessedSources != 2 || state.TotalSources != 2 {
		t.Errorf("unexpected progress counters: %+v", state)
	}
	if state.ItemsCount != 3 {
		t.Errorf("expected 3 merged items, got %d", state.ItemsCount)
	}
	if state.UpdatedAt == nil || state.Error != "" || state.Cancelled {
		t.Errorf("unexpected terminal state: %+v", state)
	}

	status := store.Status()
	if status.Count != 3 || status.Sources != 2 {
		t.Errorf("store not published: %+v", status)
	}

	for _, item := range store.Items() {
		if item.TopicID != "3" {
			continue
		}
		if !strings.Contains(item.SourceName, "Source A") || !strings.Contains(item.SourceName, "Source B") {
			t.Errorf("shared topic must carry both source labels, got %q", item.SourceName)
		}
	}
}

func TestRefreshToleratesSourceFailure(t *testing.T) {
	sources := &fakeSources{sources: []domain.ListSource{
		{Name: "Broken", URL: "https://forum.example/broken"},
		{Name: "Fine", URL: "https://forum.example/fine"},
	}}
	fetcher := &fakeFetcher{
		pages: map[string]string{"https://forum.example/fine": listPage(7)},
		errs:  map[string]error{"https://forum.example/broken": errors.New("timeout")},
	}
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	c := NewCoordinator(sources, fetcher, store, nil)

	c.Start()
	state := waitIdle(t, c)

	if state.ProcessedSources != 2 {
		t.Errorf("failed source must still count as processed, got %d", state.ProcessedSources)
	}
	if state.Error != "" {
		t.Errorf("single source failure must not fail the run: %q", state.Error)
	}
	if store.Status().Count != 1 {
		t.Errorf("expected surviving source's item, got %d", store.Status().Count)
	}
}

func TestRefreshSourceListFailure(t *testing.T) {
	sources := &fakeSources{err: errors.New("db down")}
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	c := NewCoordinator(sources, &fakeFetcher{}, store, nil)

	c.Start()
	state := waitIdle(t, c)

	if state.Error == "" {
		t.Error("expected run error when sources cannot be listed")
	}
	if store.Status().Count != 0 {
		t.Errorf("store must stay untouched, got %d items", store.Status().Count)
	}
}

func TestRefreshStartIsIdempotent(t *testing.T) {
	gate := make(chan struct{})
	sources := &fakeSources{sources: []domain.ListSource{
		{Name: "Only", URL: "https://forum.example/only"},
	}}
	fetcher := &fakeFetcher{
		pages: map[string]string{"https://forum.example/only": listPage(1)},
		gate:  gate,
	}
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	c := NewCoordinator(sources, fetcher, store, nil)

	first := c.Start()
	second := c.Start()
	if !second.Running {
		t.Error("second Start must report the active run")
	}
	if first.StartedAt == nil || second.StartedAt == nil || !second.StartedAt.Equal(*first.StartedAt) {
		t.Error("second Start must not reset the run")
	}

	close(gate)
	waitIdle(t, c)

	if n := fetcher.fetches.Load(); n != 1 {
		t.Errorf("expected a single crawl, got %d fetches", n)
	}
}

func TestRefreshCancelLeavesCacheIntact(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	existing := domain.CatalogItem{Title: "Pre-existing", TopicID: "99"}
	store.Replace(map[string]domain.CatalogItem{existing.Key(): existing}, 1)
	before := store.Status()

	gate := make(chan struct{})
	sources := &fakeSources{sources: []domain.ListSource{
		{Name: "A", URL: "https://forum.example/a"},
		{Name: "B", URL: "https://forum.example/b"},
	}}
	fetcher := &fakeFetcher{
		pages: map[string]string{
			"https://forum.example/a": listPage(1),
			"https://forum.example/b": listPage(2),
		},
		gate: gate,
	}
	c := NewCoordinator(sources, fetcher, store, nil)

	c.Start()
	state := c.Cancel()
	if !state.Cancelled {
		t.Fatal("Cancel must flag the active run")
	}
	close(gate)
	state = waitIdle(t, c)

	if !state.Cancelled {
		t.Error("terminal state must stay cancelled")
	}
	after := store.Status()
	if after.Count != before.Count {
		t.Errorf("cancelled run must not publish: before %d, after %d items", before.Count, after.Count)
	}
	if before.UpdatedAt != nil && after.UpdatedAt != nil && !after.UpdatedAt.Equal(*before.UpdatedAt) {
		t.Error("cancelled run must not advance the cache timestamp")
	}
}

func TestRefreshCancelWhenIdle(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"), nil)
	c := NewCoordinator(&fakeSources{}, &fakeFetcher{}, store, nil)

	if state := c.Cancel(); state.Running || state.Cancelled {
		t.Errorf("cancel without a run must be a no-op, got %+v", state)
	}
}
