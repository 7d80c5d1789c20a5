package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/internal/logger"
	"github.com/samvad-hq/quake-harvester/internal/observability"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/samvad-hq/quake-harvester/pkg/publishers"
	"github.com/samvad-hq/quake-harvester/pkg/quakes"
)

// Deps groups the collaborators of a FeedProcessor. Only Registry is required.
type Deps struct {
	Registry  feeds.FetcherRegistry
	Enricher  ReportEnricher
	Publisher EventPublisher
	Store     Store
	Metrics   *observability.Metrics
	Clock     clockwork.Clock
	Location  *time.Location
	Log       logger.Logger
}

// FeedProcessor fetches one feed, stores its snapshot and publishes records not seen before.
type FeedProcessor struct {
	registry  feeds.FetcherRegistry
	enricher  ReportEnricher
	publisher EventPublisher
	store     Store
	metrics   *observability.Metrics
	clock     clockwork.Clock
	loc       *time.Location
	log       logger.Logger
}

// NewFeedProcessor builds a processor from deps.
func NewFeedProcessor(d Deps) *FeedProcessor {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	return &FeedProcessor{
		registry:  d.Registry,
		enricher:  d.Enricher,
		publisher: d.Publisher,
		store:     d.Store,
		metrics:   d.Metrics,
		clock:     d.Clock,
		loc:       d.Location,
		log:       logger.Ensure(d.Log),
	}
}

// Process polls feed once.
func (p *FeedProcessor) Process(ctx context.Context, feed feeds.Feed) error {
	if p == nil || p.registry == nil {
		return fmt.Errorf("feed processor is not initialized")
	}

	fetcher, err := p.registry.FetcherFor(feed)
	if err != nil {
		return fmt.Errorf("resolve fetcher for feed %s: %w", feed.ID, err)
	}

	list, err := fetcher.Fetch(ctx, feed)
	p.metrics.ObserveFetch(feed.ID, quakes.Outcome(err))
	if err != nil {
		return fmt.Errorf("fetch feed %s: %w", feed.ID, err)
	}
	p.metrics.AddDecoded(feed.ID, len(list))

	if p.store != nil {
		if err := p.store.SaveSnapshot(feed.ID, list); err != nil {
			p.log.WarnObj("snapshot save failed", "snapshot_error", map[string]any{
				"feed_id": feed.ID,
				"error":   err.Error(),
			})
		}
	}

	fresh := p.filterNew(feed, list)
	if len(fresh) == 0 {
		p.log.InfoObj("feed poll completed", "feed_result", map[string]any{
			"feed_id": feed.ID,
			"decoded": len(list),
			"fresh":   0,
		})
		return nil
	}

	now := p.clock.Now()
	events := make([]publishers.Event, 0, len(fresh))
	for _, q := range fresh {
		events = append(events, publishers.NewEvent(feed.ID, feed.Name, q, p.loc, now))
	}
	if p.enricher != nil {
		events = p.enricher.Enrich(ctx, feed, events)
	}

	published, errs := p.publishAll(ctx, feed, events)

	p.log.InfoObj("feed poll completed", "feed_result", map[string]any{
		"feed_id":   feed.ID,
		"decoded":   len(list),
		"fresh":     len(fresh),
		"published": published,
	})
	return errors.Join(errs...)
}

func (p *FeedProcessor) publishAll(ctx context.Context, feed feeds.Feed, events []publishers.Event) (int, []error) {
	if p.publisher == nil {
		return 0, nil
	}

	var errs []error
	published := 0
	for _, evt := range events {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		n, err := p.publisher.Publish(ctx, evt)
		if err != nil {
			p.metrics.IncPublishError(feed.ID)
			errs = append(errs, fmt.Errorf("publish %s for feed %s: %w", evt.Key, feed.ID, err))
		}
		if n == 0 {
			continue
		}

		published++
		p.metrics.IncPublished(feed.ID)
		if p.store != nil {
			if err := p.store.MarkQuake(evt.Key); err != nil {
				errs = append(errs, fmt.Errorf("mark %s seen: %w", evt.Key, err))
			}
		}
	}
	return published, errs
}

// filterNew drops records already published and duplicates within the same list.
// Records whose lookup fails are kept.
func (p *FeedProcessor) filterNew(feed feeds.Feed, list []domain.Earthquake) []domain.Earthquake {
	out := make([]domain.Earthquake, 0, len(list))
	batch := make(map[string]struct{}, len(list))

	for _, q := range list {
		key := q.Key()
		if _, dup := batch[key]; dup {
			continue
		}
		batch[key] = struct{}{}

		if p.store != nil {
			seen, err := p.store.SeenQuake(key)
			if err != nil {
				p.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
					"feed_id": feed.ID,
					"key":     key,
					"error":   err.Error(),
				})
			} else if seen {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}
