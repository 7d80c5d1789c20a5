package poller

import (
	"context"

	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/pkg/feeds"
	"github.com/samvad-hq/quake-harvester/pkg/publishers"
)

// Processor runs a single poll of one feed.
type Processor interface {
	Process(ctx context.Context, feed feeds.Feed) error
}

// ReportEnricher adds detail-page metadata to events before publishing.
type ReportEnricher interface {
	Enrich(ctx context.Context, feed feeds.Feed, events []publishers.Event) []publishers.Event
}

// EventPublisher publishes events downstream and reports how many sinks accepted each one.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Store is the persistence the processor needs: de-duplication and the per-feed snapshot.
type Store interface {
	SeenQuake(key string) (bool, error)
	MarkQuake(key string) error
	SaveSnapshot(feedID string, quakes []domain.Earthquake) error
}
