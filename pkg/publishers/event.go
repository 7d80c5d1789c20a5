package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/quake-harvester/internal/domain"
)

// Report carries metadata scraped from the event's detail page.
type Report struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Event represents the payload published downstream.
type Event struct {
	ID          string            `json:"id"`
	FeedID      string            `json:"feed_id"`
	FeedName    string            `json:"feed_name"`
	Key         string            `json:"key"`
	Earthquake  domain.Earthquake `json:"earthquake"`
	Display     domain.Display    `json:"display"`
	Report      *Report           `json:"report,omitempty"`
	CollectedAt time.Time         `json:"collected_at"`
}

// NewEvent constructs an Event for the given feed + earthquake, rendered in loc.
func NewEvent(feedID, feedName string, q domain.Earthquake, loc *time.Location, now time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		FeedID:      feedID,
		FeedName:    feedName,
		Key:         q.Key(),
		Earthquake:  q,
		Display:     domain.NewDisplay(q, loc),
		CollectedAt: now.UTC(),
	}
}
