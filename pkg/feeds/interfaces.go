package feeds

import (
	"context"

	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/pkg/httpclient"
)

// Fetcher retrieves and decodes earthquakes for a feed.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Feed) ([]domain.Earthquake, error)
}

// FetcherRegistry resolves the fetcher implementation for a given feed config.
type FetcherRegistry interface {
	FetcherFor(cfg Feed) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within feeds.
type HTTPClient = httpclient.Client
