package feeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/quake-harvester/internal/domain"
	"github.com/samvad-hq/quake-harvester/pkg/quakes"
)

// usgsFetcher implements Fetcher for USGS FDSN GeoJSON feeds.
type usgsFetcher struct {
	client HTTPClient
}

// NewUSGSFetcher builds a fetcher for the USGS GeoJSON event feed.
func NewUSGSFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &usgsFetcher{client: client}
}

func (f *usgsFetcher) ID() string {
	return TypeUSGSGeoJSON
}

func (f *usgsFetcher) Fetch(ctx context.Context, cfg Feed) ([]domain.Earthquake, error) {
	if !strings.EqualFold(cfg.Type, TypeUSGSGeoJSON) {
		return nil, fmt.Errorf("usgs fetcher received incompatible feed type %q", cfg.Type)
	}

	url, err := cfg.URL()
	if err != nil {
		return nil, fmt.Errorf("build url for feed %s: %w", cfg.ID, err)
	}

	quakeList, err := quakes.Query(ctx, f.client, url, Headers(cfg))
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", cfg.ID, err)
	}
	return quakeList, nil
}
