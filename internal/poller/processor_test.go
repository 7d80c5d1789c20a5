package poller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/internal/observability"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/samvad-hq/quake-harvester/pkg/publishers"
	"github.com/samvad-hq/quake-harvester/pkg/quakes"
)

// fakeFetcher returns preset earthquakes or an error.
type fakeFetcher struct {
	id     string
	quakes []domain.Earthquake
	err    error
}

func (f *fakeFetcher) ID() string { return f.id }
func (f *fakeFetcher) Fetch(_ context.Context, _ feeds.Feed) ([]domain.Earthquake, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quakes, nil
}

// fakeRegistry maps every feed to a single fetcher.
type fakeRegistry struct {
	fetcher feeds.Fetcher
}

func (f *fakeRegistry) FetcherFor(_ feeds.Feed) (feeds.Fetcher, error) {
	if f.fetcher == nil {
		return nil, errors.New("missing fetcher")
	}
	return f.fetcher, nil
}

// fakeEnricher stamps a report title on every event.
type fakeEnricher struct {
	title string
}

func (f fakeEnricher) Enrich(_ context.Context, _ feeds.Feed, events []publishers.Event) []publishers.Event {
	out := make([]publishers.Event, len(events))
	for i, e := range events {
		e.Report = &publishers.Report{Title: f.title}
		out[i] = e
	}
	return out
}

// fakePublisher records published events and can reject specific places.
type fakePublisher struct {
	mu        sync.Mutex
	events    []publishers.Event
	failPlace string
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if evt.Earthquake.Place == f.failPlace {
		return 0, errors.New("boom")
	}
	return 1, nil
}

// fakeStore tracks seen keys and snapshots.
type fakeStore struct {
	mu        sync.Mutex
	seen      map[string]bool
	snapshots map[string][]domain.Earthquake
	failKey   string
	failErr   error
}

func (f *fakeStore) SeenQuake(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key == f.failKey && f.failErr != nil {
		return false, f.failErr
	}
	return f.seen[key], nil
}

func (f *fakeStore) MarkQuake(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[key] = true
	return nil
}

func (f *fakeStore) SaveSnapshot(feedID string, list []domain.Earthquake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshots == nil {
		f.snapshots = make(map[string][]domain.Earthquake)
	}
	f.snapshots[feedID] = list
	return nil
}

func quake(place string) domain.Earthquake {
	return domain.NewEarthquake(4.2, place, 1401408000000, "https://example.com/"+strings.ReplaceAll(place, " ", "-"))
}

func TestFeedProcessorPublishesFreshQuakesOnly(t *testing.T) {
	feed := feeds.Feed{ID: "usgs", Name: "USGS"}
	old, fresh := quake("old"), quake("new")

	store := &fakeStore{seen: map[string]bool{old.Key(): true}}
	pub := &fakePublisher{}
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC))

	processor := NewFeedProcessor(Deps{
		Registry:  &fakeRegistry{fetcher: &fakeFetcher{id: "usgs", quakes: []domain.Earthquake{old, fresh}}},
		Enricher:  fakeEnricher{title: "M 4.2 - new"},
		Publisher: pub,
		Store:     store,
		Clock:     clock,
		Location:  time.UTC,
	})

	if err := processor.Process(context.Background(), feed); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Earthquake != fresh || evt.Report == nil || evt.Report.Title != "M 4.2 - new" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.FeedName != "USGS" || !evt.CollectedAt.Equal(clock.Now()) {
		t.Fatalf("unexpected event metadata %+v", evt)
	}
	if !store.seen[fresh.Key()] {
		t.Fatalf("MarkQuake not called for new quake")
	}
	if got := store.snapshots["usgs"]; len(got) != 2 {
		t.Fatalf("expected full list in snapshot, got %d", len(got))
	}
}

func TestFeedProcessorDoesNotMarkRejectedEvents(t *testing.T) {
	pub := &fakePublisher{failPlace: "bad"}
	store := &fakeStore{}
	processor := NewFeedProcessor(Deps{
		Registry:  &fakeRegistry{fetcher: &fakeFetcher{id: "usgs", quakes: []domain.Earthquake{quake("bad"), quake("good")}}},
		Publisher: pub,
		Store:     store,
	})

	err := processor.Process(context.Background(), feeds.Feed{ID: "usgs"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected publish error, got %v", err)
	}
	if store.seen[quake("bad").Key()] {
		t.Fatalf("rejected event must stay unseen")
	}
	if !store.seen[quake("good").Key()] {
		t.Fatalf("accepted event must be marked")
	}
}

func TestFeedProcessorRecordsFetchOutcome(t *testing.T) {
	metrics := observability.NewMetrics(nil)
	fetchErr := fmt.Errorf("feed usgs: %w", quakes.ErrDecode)
	processor := NewFeedProcessor(Deps{
		Registry: &fakeRegistry{fetcher: &fakeFetcher{id: "usgs", err: fetchErr}},
		Metrics:  metrics,
	})

	err := processor.Process(context.Background(), feeds.Feed{ID: "usgs"})
	if !errors.Is(err, quakes.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.FetchOutcomes.WithLabelValues("usgs", quakes.OutcomeParse)); got != 1 {
		t.Fatalf("expected one parse_error outcome, got %v", got)
	}
}

func TestFeedProcessorEmptyFeedSavesEmptySnapshot(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	processor := NewFeedProcessor(Deps{
		Registry:  &fakeRegistry{fetcher: &fakeFetcher{id: "usgs", quakes: []domain.Earthquake{}}},
		Publisher: pub,
		Store:     store,
	})

	if err := processor.Process(context.Background(), feeds.Feed{ID: "usgs"}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if list, ok := store.snapshots["usgs"]; !ok || len(list) != 0 {
		t.Fatalf("expected empty snapshot, got %v (present=%v)", list, ok)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events, got %d", len(pub.events))
	}
}

func TestFilterNewHandlesStoreErrorsAndBatchDuplicates(t *testing.T) {
	keep, skip, failing := quake("keep"), quake("skip"), quake("error")
	store := &fakeStore{
		seen:    map[string]bool{skip.Key(): true},
		failKey: failing.Key(),
		failErr: errors.New("lookup failed"),
	}
	processor := NewFeedProcessor(Deps{Registry: &fakeRegistry{}, Store: store})

	filtered := processor.filterNew(feeds.Feed{ID: "usgs"}, []domain.Earthquake{keep, skip, failing, keep})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 quakes after filter, got %d", len(filtered))
	}
	if filtered[0] != keep || filtered[1] != failing {
		t.Fatalf("unexpected filter result %#v", filtered)
	}
}
