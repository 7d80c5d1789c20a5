package feeds

import (
	"fmt"
	"strings"

	"github.com/samvad-hq/quake-harvester/pkg/quakes"
)

// typeRegistry resolves fetchers by feed type. It is built once and only read.
type typeRegistry map[string]Fetcher

func (r typeRegistry) FetcherFor(cfg Feed) (Fetcher, error) {
	if strings.TrimSpace(cfg.ID) == "" {
		return nil, fmt.Errorf("feed id is empty")
	}
	if f, ok := r[strings.ToLower(strings.TrimSpace(cfg.Type))]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher for feed %q of type %q", cfg.ID, cfg.Type)
}

// DefaultHTTPClient returns the shared client with the feed's connect and read timeouts.
func DefaultHTTPClient() HTTPClient {
	return quakes.DefaultClient()
}

// DefaultFetcherRegistry maps every supported feed type to its fetcher.
func DefaultFetcherRegistry(client HTTPClient) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return typeRegistry{
		TypeUSGSGeoJSON: NewUSGSFetcher(client),
	}
}
